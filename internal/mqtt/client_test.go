package mqtt

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"smarthome_proxy/internal/models"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	err error
	// when set, the broker acknowledges only once it is closed
	release chan struct{}
}

func (t *fakeToken) Wait() bool { return t.WaitTimeout(0) }
func (t *fakeToken) WaitTimeout(time.Duration) bool {
	if t.release != nil {
		<-t.release
	}
	return true
}
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakePaho implements the methods Client uses; the embedded interface covers the rest.
type fakePaho struct {
	pahomqtt.Client

	mu           sync.Mutex
	connected    bool
	err          error
	release      chan struct{}
	msgs         []published
	disconnected bool
}

func (f *fakePaho) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakePaho) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return &fakeToken{err: f.err, release: f.release}
}

func (f *fakePaho) Disconnect(uint) {
	f.mu.Lock()
	f.disconnected = true
	f.connected = false
	f.mu.Unlock()
}

func newFakeClient(cfg Config) (*Client, *fakePaho) {
	fp := &fakePaho{connected: true}
	return &Client{client: fp, cfg: cfg, connected: true}, fp
}

func TestConnect_Validation(t *testing.T) {
	_, err := Connect(Config{})
	assert.ErrorIs(t, err, ErrNoBroker)

	_, err = Connect(Config{Broker: "tcp://127.0.0.1:1883", QoS: 3})
	assert.ErrorIs(t, err, ErrInvalidQoS)
}

func TestPublish_Validation(t *testing.T) {
	c, _ := newFakeClient(Config{})

	assert.ErrorIs(t, c.Publish("", []byte("x"), 0, false), ErrInvalidTopic)
	assert.ErrorIs(t, c.Publish("t", []byte("x"), 3, false), ErrInvalidQoS)
	assert.ErrorIs(t, c.Publish("t", make([]byte, maxPayloadSize+1), 0, false), ErrPublishFailed)
}

func TestPublish_NotConnected(t *testing.T) {
	c, fp := newFakeClient(Config{})
	fp.connected = false

	assert.ErrorIs(t, c.Publish("t", []byte("x"), 0, false), ErrNotConnected)
	assert.Empty(t, fp.msgs)
}

func TestPublish_BrokerError(t *testing.T) {
	c, fp := newFakeClient(Config{})
	fp.err = errors.New("not authorized")

	err := c.Publish("t", []byte("x"), 1, false)

	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.Contains(t, err.Error(), "not authorized")
}

func TestClose(t *testing.T) {
	c, fp := newFakeClient(Config{})

	require.NoError(t, c.Close())

	assert.True(t, fp.disconnected)
	assert.False(t, c.IsConnected())

	var nilClient *Client
	assert.NoError(t, nilClient.Close())
	assert.NoError(t, (&Client{}).Close())
}

func TestDevicePublisher_PublishesRetainedState(t *testing.T) {
	c, fp := newFakeClient(Config{TopicPrefix: "/home/", QoS: 1})
	p := NewDevicePublisher(c, nil)

	err := p.PublishDeviceUpdate(models.NewDeviceUpdate("1000abcd", "on"))

	require.NoError(t, err)
	require.Len(t, fp.msgs, 1)
	msg := fp.msgs[0]
	assert.Equal(t, "home/devices/1000abcd/state", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var got models.DeviceUpdate
	require.NoError(t, json.Unmarshal(msg.payload, &got))
	assert.Equal(t, models.EventDeviceUpdate, got.Type)
	assert.Equal(t, "on", got.State)
}

func TestDevicePublisher_DefaultPrefixAndInvalidDeviceIDs(t *testing.T) {
	c, fp := newFakeClient(Config{})
	p := NewDevicePublisher(c, nil)

	topic, err := p.StateTopic("d1")
	require.NoError(t, err)
	assert.Equal(t, "smarthome/devices/d1/state", topic)

	for _, id := range []string{"", "+", "a#", "dev/other", "x+y"} {
		_, err := p.StateTopic(id)
		assert.ErrorIs(t, err, ErrInvalidTopic, id)
		assert.ErrorIs(t, p.PublishDeviceUpdate(models.NewDeviceUpdate(id, "on")), ErrInvalidTopic, id)
	}
	assert.Empty(t, fp.msgs)
}

func TestDevicePublisher_DoesNotWaitForBroker(t *testing.T) {
	c, fp := newFakeClient(Config{})
	fp.release = make(chan struct{})
	fp.err = errors.New("not authorized")
	p := NewDevicePublisher(c, nil)
	failures := make(chan error, 1)
	p.onFailure = func(deviceID string, err error) {
		assert.Equal(t, "d1", deviceID)
		failures <- err
	}

	returned := make(chan error, 1)
	go func() { returned <- p.PublishDeviceUpdate(models.NewDeviceUpdate("d1", "off")) }()

	select {
	case err := <-returned:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("publish blocked on the broker acknowledgement")
	}

	close(fp.release)
	select {
	case err := <-failures:
		assert.ErrorIs(t, err, ErrPublishFailed)
		assert.Contains(t, err.Error(), "not authorized")
	case <-time.After(time.Second):
		t.Fatal("broker failure was not reported")
	}
}
