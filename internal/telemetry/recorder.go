// Package telemetry records device power readings in InfluxDB.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"smarthome_proxy/internal/logger"
	"smarthome_proxy/internal/models"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultBatchSize      = 100
	defaultFlushInterval  = 10 * time.Second

	measurementDevicePower = "device_power"
)

var (
	ErrConnectionFailed = errors.New("influxdb: connection failed")
	ErrInvalidConfig    = errors.New("influxdb: url, org and bucket are required")
)

type Config struct {
	URL           string
	Token         string
	Org           string
	Bucket        string
	BatchSize     uint
	FlushInterval time.Duration
}

// Recorder writes device power points through the non-blocking write API.
type Recorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	log      *logger.Logger
	now      func() time.Time

	mu     sync.RWMutex
	closed bool
}

// NewRecorder pings the server and starts the batched writer.
func NewRecorder(cfg Config, log *logger.Logger) (*Recorder, error) {
	if cfg.URL == "" || cfg.Org == "" || cfg.Bucket == "" {
		return nil, ErrInvalidConfig
	}
	if log == nil {
		log = logger.NewNop()
	}
	batch := cfg.BatchSize
	if batch == 0 {
		batch = defaultBatchSize
	}
	flush := cfg.FlushInterval
	if flush <= 0 {
		flush = defaultFlushInterval
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(batch).
			SetFlushInterval(uint(flush.Milliseconds())),
	)

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()
	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	r := &Recorder{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		log:      log,
		now:      time.Now,
	}
	go r.drainErrors(r.writeAPI.Errors())
	return r, nil
}

func (r *Recorder) drainErrors(errs <-chan error) {
	for err := range errs {
		r.log.Warnw("influx_write_failed", "err", err)
	}
}

func devicePoint(d models.Device, at time.Time) *write.Point {
	tags := map[string]string{"device_id": d.ID}
	if d.Type != "" {
		tags["type"] = d.Type
	}
	return write.NewPoint(
		measurementDevicePower,
		tags,
		map[string]interface{}{
			"daily_kwh":   d.Power.Daily,
			"monthly_kwh": d.Power.Monthly,
			"online":      d.Online,
			"on":          d.Status == models.StatusOn,
		},
		at,
	)
}

// RecordDevices queues one point per device. Devices without an id are skipped.
func (r *Recorder) RecordDevices(devices []models.Device) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	at := r.now()
	for _, d := range devices {
		if d.ID == "" {
			continue
		}
		r.writeAPI.WritePoint(devicePoint(d, at))
	}
}

// Flush blocks until queued points are written.
func (r *Recorder) Flush() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.closed {
		r.writeAPI.Flush()
	}
}

// Close flushes and releases the client. Safe to call more than once.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.writeAPI.Flush()
	r.client.Close()
}
