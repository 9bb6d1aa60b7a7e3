package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"

	"smarthome_proxy/internal/logger"
	"smarthome_proxy/internal/models"
)

const defaultTopicPrefix = "smarthome"

// DevicePublisher mirrors device state changes to retained MQTT topics:
// <prefix>/devices/<deviceId>/state.
type DevicePublisher struct {
	client *Client
	prefix string
	qos    byte

	// onFailure receives broker-side failures after PublishDeviceUpdate returned.
	onFailure func(deviceID string, err error)
}

func NewDevicePublisher(c *Client, log *logger.Logger) *DevicePublisher {
	if log == nil {
		log = logger.NewNop()
	}
	prefix := strings.Trim(c.cfg.TopicPrefix, "/")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return &DevicePublisher{
		client: c,
		prefix: prefix,
		qos:    c.cfg.QoS,
		onFailure: func(deviceID string, err error) {
			log.Warnw("state_publish_failed", "device", deviceID, "err", err)
		},
	}
}

// StateTopic is the retained topic for a device's switch state. Ids that would
// add topic levels or wildcards are rejected.
func (p *DevicePublisher) StateTopic(deviceID string) (string, error) {
	if deviceID == "" || strings.ContainsAny(deviceID, "+#/\x00") {
		return "", fmt.Errorf("%w: device id %q", ErrInvalidTopic, deviceID)
	}
	return p.prefix + "/devices/" + deviceID + "/state", nil
}

// PublishDeviceUpdate queues u as JSON on the device's state topic. It does not
// wait for the broker.
func (p *DevicePublisher) PublishDeviceUpdate(u models.DeviceUpdate) error {
	topic, err := p.StateTopic(u.DeviceID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", ErrPublishFailed, err)
	}
	return p.client.PublishAsync(topic, payload, p.qos, true, func(err error) {
		p.onFailure(u.DeviceID, err)
	})
}
