package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"smarthome_proxy/internal/cloud"
	"smarthome_proxy/internal/hub"
	"smarthome_proxy/internal/logger"
	"smarthome_proxy/internal/models"
	"smarthome_proxy/internal/repository"
)

var (
	// ErrInvalidCredential means the session has no usable upstream credential; the client must log in again.
	ErrInvalidCredential = errors.New("invalid credential: login required")
	ErrInvalidToken      = errors.New("invalid session token")
	ErrInvalidState      = errors.New("state is required")
	ErrInvalidAction     = errors.New("action is required")
	ErrDeviceNotFound    = errors.New("device not found")
)

// Gateway is the upstream cloud API. Implemented by *cloud.Client.
type Gateway interface {
	LoginURL(state string) string
	ExchangeCode(ctx context.Context, code string, region models.Region) (*models.Credential, error)
	PasswordLogin(ctx context.Context, in cloud.PasswordLogin) (*models.Credential, error)
	Refresh(ctx context.Context, cred models.Credential) (*models.Credential, error)
	ListDevices(ctx context.Context, region models.Region, token string) ([]models.Thing, error)
	SetSwitch(ctx context.Context, region models.Region, token, deviceID, state string) (json.RawMessage, error)
	GetPowerStats(ctx context.Context, region models.Region, token, deviceID string) (json.RawMessage, error)
	ListFamilies(ctx context.Context, region models.Region, token string) (json.RawMessage, error)
	DeviceAction(ctx context.Context, region models.Region, token, deviceID, action string) (json.RawMessage, error)
}

var _ Gateway = (*cloud.Client)(nil)

// Authorization issues and resolves proxy sessions.
type Authorization interface {
	LoginURL() string
	ExchangeCode(ctx context.Context, code, region string) (models.Session, error)
	PasswordLogin(ctx context.Context, in cloud.PasswordLogin) (models.Session, error)
	ParseToken(token string) (string, error)
	Resume(ctx context.Context, token string) (models.Session, error)
	Credential(ctx context.Context, sessionID string) (*models.Credential, error)
	Logout(ctx context.Context, sessionID string) error
}

// Devices runs device operations on behalf of a session.
type Devices interface {
	ListDevices(ctx context.Context, sessionID string) ([]models.Device, error)
	Toggle(ctx context.Context, sessionID, deviceID, state string) (json.RawMessage, error)
	PowerStats(ctx context.Context, sessionID, deviceID string) (json.RawMessage, error)
	DeviceState(ctx context.Context, sessionID, deviceID string) (models.Device, error)
	Families(ctx context.Context, sessionID string) (json.RawMessage, error)
	Action(ctx context.Context, sessionID, deviceID, action string) (json.RawMessage, error)
}

// EventLog exposes a session's command journal.
type EventLog interface {
	List(ctx context.Context, sessionID string, f LogFilter) ([]models.DeviceEvent, error)
}

// Connections is the per-session push channel registry. Implemented by *hub.Registry.
type Connections interface {
	Register(sessionID string, ch hub.Channel)
	Release(sessionID string, ch hub.Channel) bool
	Unregister(sessionID string)
	Notify(sessionID string, event any) bool
	Len() int
	CloseAll()
}

var _ Connections = (*hub.Registry)(nil)

// StatePublisher mirrors device updates outside the proxy (MQTT).
type StatePublisher interface {
	PublishDeviceUpdate(u models.DeviceUpdate) error
}

// PowerRecorder stores device power readings (InfluxDB).
type PowerRecorder interface {
	RecordDevices(devices []models.Device)
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "LOGIN", "LOGOUT", "TOGGLE", "REFRESH", "ACTION"
}

type Service struct {
	Authorization
	Devices
	EventLog
	Connections
}

// Deps are the collaborators NewService wires together. Publisher and Recorder are optional.
type Deps struct {
	Repos     *repository.Repository
	Gateway   Gateway
	Registry  Connections
	Publisher StatePublisher
	Recorder  PowerRecorder
	Auth      AuthConfig
	Log       *logger.Logger
}

func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	j := newJournal(d.Repos.EventRepo, d.Log)
	auth := NewAuthService(d.Auth, d.Gateway, d.Repos.Credentials, d.Registry, j, d.Log)
	return &Service{
		Authorization: auth,
		Devices:       NewDeviceService(auth, d.Gateway, NewBroadcaster(d.Registry, d.Publisher, d.Log), d.Recorder, j, d.Log),
		EventLog:      NewEventLogService(d.Repos.EventRepo),
		Connections:   d.Registry,
	}
}
