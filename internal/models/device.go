package models

import "encoding/json"

const (
	StatusOn      = "on"
	StatusOff     = "off"
	StatusUnknown = "unknown"
)

// Device is the normalized view of an upstream device record.
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"` // on | off | unknown
	Power  Power  `json:"power"`
	Online bool   `json:"online"`
	Type   string `json:"type"`
}

// Power holds consumption in kWh.
type Power struct {
	Daily   float64 `json:"daily"`
	Monthly float64 `json:"monthly"`
}

// RawDevice is the upstream itemData object. Its shape varies by product model.
type RawDevice map[string]any

// Thing is one entry of the upstream thing list.
type Thing struct {
	ItemType int       `json:"itemType"`
	ItemData RawDevice `json:"itemData"`
}

// ThingList is the data section of the device list response.
type ThingList struct {
	ThingList []Thing     `json:"thingList"`
	Total     json.Number `json:"total,omitempty"`
}

const EventDeviceUpdate = "deviceUpdate"

// DeviceUpdate is pushed to a session's channel after an accepted toggle.
type DeviceUpdate struct {
	Type     string `json:"type"`
	DeviceID string `json:"deviceId"`
	State    string `json:"state"`
}

func NewDeviceUpdate(deviceID, state string) DeviceUpdate {
	return DeviceUpdate{Type: EventDeviceUpdate, DeviceID: deviceID, State: state}
}
