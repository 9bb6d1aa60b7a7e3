// Package mapper turns raw upstream device records into the proxy's device view.
//
// Upstream schemas differ per product model, so every accessor here degrades to
// a default instead of failing.
package mapper

import (
	"encoding/json"
	"strconv"
	"strings"

	"smarthome_proxy/internal/models"
)

// upstream reports energy in hundredths of a kWh
const powerScale = 100

// Normalize maps one upstream itemData record. It never mutates raw.
func Normalize(raw models.RawDevice) models.Device {
	params := asMap(raw["params"])
	return models.Device{
		ID:     asString(raw["deviceid"]),
		Name:   asString(raw["name"]),
		Status: resolveStatus(params),
		Power: models.Power{
			Daily:   asNumber(params["dayKwh"]) / powerScale,
			Monthly: asNumber(params["monthKwh"]) / powerScale,
		},
		Online: asBool(raw["online"]),
		Type:   asString(raw["productModel"]),
	}
}

// NormalizeAll maps a thing list, keeping upstream order.
func NormalizeAll(things []models.Thing) []models.Device {
	out := make([]models.Device, 0, len(things))
	for _, t := range things {
		out = append(out, Normalize(t.ItemData))
	}
	return out
}

// resolveStatus: switch, then switches[0].switch, then unknown.
func resolveStatus(params map[string]any) string {
	if s := asString(params["switch"]); s != "" {
		return s
	}
	if switches, ok := params["switches"].([]any); ok && len(switches) > 0 {
		if s := asString(asMap(switches[0])["switch"]); s != "" {
			return s
		}
	}
	return models.StatusUnknown
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case models.RawDevice:
		return m
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return 0
}
