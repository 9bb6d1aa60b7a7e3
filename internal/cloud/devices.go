package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"smarthome_proxy/internal/models"
)

const (
	pathThings      = "/v2/device/thing"
	pathThingStatus = "/v2/device/thing/status"
	pathThingStats  = "/v2/device/thing/stats"
	pathFamily      = "/v2/family"

	// type 1 addresses a single device (2 is a group)
	thingTypeDevice = 1
)

// ListDevices returns the account's thing list as sent by upstream.
func (c *Client) ListDevices(ctx context.Context, region models.Region, token string) ([]models.Thing, error) {
	const op = "list devices"
	q := url.Values{"num": {"0"}}
	env, _, err := c.call(ctx, op, http.MethodGet, region, pathThings, q, nil, authMode{bearer: token})
	if err != nil {
		return nil, err
	}
	var data models.ThingList
	if err := decodeData(op, env, &data); err != nil {
		return nil, err
	}
	if data.ThingList == nil {
		data.ThingList = []models.Thing{}
	}
	return data.ThingList, nil
}

type setStatusRequest struct {
	Type   int            `json:"type"`
	ID     string         `json:"id"`
	Params map[string]any `json:"params"`
}

// SetSwitch asks upstream to switch a device. Success means the command was
// accepted, not that the device changed state.
func (c *Client) SetSwitch(ctx context.Context, region models.Region, token, deviceID, state string) (json.RawMessage, error) {
	body := setStatusRequest{
		Type:   thingTypeDevice,
		ID:     deviceID,
		Params: map[string]any{"switch": state},
	}
	_, raw, err := c.call(ctx, "set switch", http.MethodPost, region, pathThingStatus, nil, body, authMode{bearer: token})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// GetPowerStats returns the power statistics payload for a device.
func (c *Client) GetPowerStats(ctx context.Context, region models.Region, token, deviceID string) (json.RawMessage, error) {
	q := url.Values{"deviceid": {deviceID}, "type": {"power"}}
	_, raw, err := c.call(ctx, "power stats", http.MethodGet, region, pathThingStats, q, nil, authMode{bearer: token})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// ListFamilies returns the account's families (homes and their rooms) as sent by upstream.
func (c *Client) ListFamilies(ctx context.Context, region models.Region, token string) (json.RawMessage, error) {
	_, raw, err := c.call(ctx, "list families", http.MethodGet, region, pathFamily, nil, nil, authMode{bearer: token})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

type actionRequest struct {
	Action string `json:"action"`
}

// DeviceAction sends a named action (window and AC controllers) to a device.
func (c *Client) DeviceAction(ctx context.Context, region models.Region, token, deviceID, action string) (json.RawMessage, error) {
	path := "/v2/device/" + url.PathEscape(deviceID) + "/action"
	_, raw, err := c.call(ctx, "device action", http.MethodPost, region, path, nil, actionRequest{Action: action}, authMode{bearer: token})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
