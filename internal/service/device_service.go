package service

import (
	"context"
	"encoding/json"
	"strings"

	"smarthome_proxy/internal/logger"
	"smarthome_proxy/internal/mapper"
	"smarthome_proxy/internal/models"
)

// credentialSource resolves a session to a usable upstream credential.
type credentialSource interface {
	Credential(ctx context.Context, sessionID string) (*models.Credential, error)
}

type DeviceService struct {
	creds       credentialSource
	gateway     Gateway
	broadcaster *Broadcaster
	recorder    PowerRecorder
	journal     *journal
	log         *logger.Logger
}

func NewDeviceService(creds credentialSource, gw Gateway, b *Broadcaster, rec PowerRecorder, j *journal, log *logger.Logger) *DeviceService {
	if log == nil {
		log = logger.NewNop()
	}
	return &DeviceService{
		creds:       creds,
		gateway:     gw,
		broadcaster: b,
		recorder:    rec,
		journal:     j,
		log:         log,
	}
}

// normalizeState trims the desired state. Upstream decides which values it accepts
// (on, off, and model-specific ones).
func normalizeState(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidState
	}
	return s, nil
}

// ListDevices returns the account's devices in the proxy's normalized view.
func (s *DeviceService) ListDevices(ctx context.Context, sessionID string) ([]models.Device, error) {
	cred, err := s.creds.Credential(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	things, err := s.gateway.ListDevices(ctx, cred.Region, cred.AccessToken)
	if err != nil {
		return nil, err
	}
	devices := mapper.NormalizeAll(things)
	if s.recorder != nil {
		s.recorder.RecordDevices(devices)
	}
	return devices, nil
}

// Toggle switches a device and, once upstream accepts the command, announces the
// new state to the session's push channel.
func (s *DeviceService) Toggle(ctx context.Context, sessionID, deviceID, state string) (json.RawMessage, error) {
	state, err := normalizeState(state)
	if err != nil {
		return nil, err
	}
	cred, err := s.creds.Credential(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	raw, err := s.gateway.SetSwitch(ctx, cred.Region, cred.AccessToken, deviceID, state)
	if err != nil {
		return nil, err
	}

	s.journal.record(ctx, models.DeviceEvent{
		SessionID:   sessionID,
		Type:        models.EventToggle,
		DeviceID:    deviceID,
		Description: "switch " + state,
		Metadata:    map[string]any{"state": state},
	})
	delivered := s.broadcaster.DeviceChanged(sessionID, models.NewDeviceUpdate(deviceID, state))
	s.log.Infow("device_toggled", "session", sessionID, "device", deviceID, "state", state, "pushed", delivered)
	return raw, nil
}

// PowerStats returns upstream's power statistics for a device unmodified.
func (s *DeviceService) PowerStats(ctx context.Context, sessionID, deviceID string) (json.RawMessage, error) {
	cred, err := s.creds.Credential(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.gateway.GetPowerStats(ctx, cred.Region, cred.AccessToken, deviceID)
}

// DeviceState returns one device's normalized view, taken from the account's list.
func (s *DeviceService) DeviceState(ctx context.Context, sessionID, deviceID string) (models.Device, error) {
	devices, err := s.ListDevices(ctx, sessionID)
	if err != nil {
		return models.Device{}, err
	}
	for _, d := range devices {
		if d.ID == deviceID {
			return d, nil
		}
	}
	return models.Device{}, ErrDeviceNotFound
}

// Families returns upstream's family list unmodified.
func (s *DeviceService) Families(ctx context.Context, sessionID string) (json.RawMessage, error) {
	cred, err := s.creds.Credential(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.gateway.ListFamilies(ctx, cred.Region, cred.AccessToken)
}

// Action forwards a named action to a device and journals it. No push follows:
// the resulting device state is not known.
func (s *DeviceService) Action(ctx context.Context, sessionID, deviceID, action string) (json.RawMessage, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, ErrInvalidAction
	}
	cred, err := s.creds.Credential(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	raw, err := s.gateway.DeviceAction(ctx, cred.Region, cred.AccessToken, deviceID, action)
	if err != nil {
		return nil, err
	}
	s.journal.record(ctx, models.DeviceEvent{
		SessionID:   sessionID,
		Type:        models.EventAction,
		DeviceID:    deviceID,
		Description: "action " + action,
		Metadata:    map[string]any{"action": action},
	})
	s.log.Infow("device_action", "session", sessionID, "device", deviceID, "action", action)
	return raw, nil
}
