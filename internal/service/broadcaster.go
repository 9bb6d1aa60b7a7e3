package service

import (
	"smarthome_proxy/internal/logger"
	"smarthome_proxy/internal/models"
)

// Broadcaster fans a device update out to the session's push channel and,
// when configured, to the state publisher.
type Broadcaster struct {
	conns     Connections
	publisher StatePublisher
	log       *logger.Logger
}

func NewBroadcaster(conns Connections, publisher StatePublisher, log *logger.Logger) *Broadcaster {
	if log == nil {
		log = logger.NewNop()
	}
	return &Broadcaster{conns: conns, publisher: publisher, log: log}
}

// DeviceChanged reports whether the session's channel accepted the update.
func (b *Broadcaster) DeviceChanged(sessionID string, u models.DeviceUpdate) bool {
	delivered := false
	if b.conns != nil {
		delivered = b.conns.Notify(sessionID, u)
	}
	if b.publisher != nil {
		if err := b.publisher.PublishDeviceUpdate(u); err != nil {
			b.log.Warnw("state_publish_failed", "device", u.DeviceID, "err", err)
		}
	}
	return delivered
}
