// Package hub tracks the live push channel of each session.
package hub

import (
	"sync"

	"smarthome_proxy/internal/logger"
)

// Channel is a push target for one session.
type Channel interface {
	// Send queues v for delivery. It reports false if the channel is closed or its
	// buffer is full; it never blocks.
	Send(v any) bool
	// Close is idempotent.
	Close()
}

// Registry maps a session id to at most one Channel. Last registration wins.
type Registry struct {
	mu    sync.RWMutex
	chans map[string]Channel
	log   *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{chans: make(map[string]Channel), log: log}
}

// Register makes ch the session's channel and closes the one it displaces.
func (r *Registry) Register(id string, ch Channel) {
	r.mu.Lock()
	prev, ok := r.chans[id]
	r.chans[id] = ch
	r.mu.Unlock()

	if ok && prev != ch {
		r.log.Infow("ws_channel_displaced", "session", id)
		prev.Close()
	}
}

// Unregister removes and closes the session's channel, if any.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	ch, ok := r.chans[id]
	delete(r.chans, id)
	r.mu.Unlock()

	if ok {
		ch.Close()
	}
}

// Release removes ch only while it is still the session's current channel, so a
// closing connection never evicts its replacement. It reports whether ch was removed.
func (r *Registry) Release(id string, ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.chans[id]; ok && cur == ch {
		delete(r.chans, id)
		return true
	}
	return false
}

// Notify delivers event to the session's channel. Best effort: returns false when
// the session has no channel or the channel refused the event.
func (r *Registry) Notify(id string, event any) bool {
	r.mu.RLock()
	ch, ok := r.chans[id]
	r.mu.RUnlock()

	if !ok {
		return false
	}
	if !ch.Send(event) {
		r.log.Warnw("ws_notify_dropped", "session", id)
		return false
	}
	return true
}

// Len is the number of sessions with a live channel.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chans)
}

// CloseAll closes and forgets every channel.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	chans := r.chans
	r.chans = make(map[string]Channel)
	r.mu.Unlock()

	for _, ch := range chans {
		ch.Close()
	}
}
