package models

import "time"

// Journal event types.
const (
	EventLogin   = "LOGIN"
	EventLogout  = "LOGOUT"
	EventToggle  = "TOGGLE"
	EventRefresh = "REFRESH"
	EventAction  = "ACTION"
)

// DeviceEvent is a single journal entry for a session.
type DeviceEvent struct {
	EventID     string    `json:"event_id"`
	SessionID   string    `json:"-"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // LOGIN | LOGOUT | TOGGLE | REFRESH | ACTION
	DeviceID    string    `json:"device_id,omitempty"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
