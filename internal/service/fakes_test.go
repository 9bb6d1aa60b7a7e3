package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"smarthome_proxy/internal/cloud"
	"smarthome_proxy/internal/hub"
	"smarthome_proxy/internal/models"
)

// fakeGateway lets each test stub only the upstream calls it needs.
type fakeGateway struct {
	LoginURLFn      func(state string) string
	ExchangeCodeFn  func(ctx context.Context, code string, region models.Region) (*models.Credential, error)
	PasswordLoginFn func(ctx context.Context, in cloud.PasswordLogin) (*models.Credential, error)
	RefreshFn       func(ctx context.Context, cred models.Credential) (*models.Credential, error)
	ListDevicesFn   func(ctx context.Context, region models.Region, token string) ([]models.Thing, error)
	SetSwitchFn     func(ctx context.Context, region models.Region, token, deviceID, state string) (json.RawMessage, error)
	PowerStatsFn    func(ctx context.Context, region models.Region, token, deviceID string) (json.RawMessage, error)
	FamiliesFn      func(ctx context.Context, region models.Region, token string) (json.RawMessage, error)
	ActionFn        func(ctx context.Context, region models.Region, token, deviceID, action string) (json.RawMessage, error)
}

func (f *fakeGateway) LoginURL(state string) string { return f.LoginURLFn(state) }
func (f *fakeGateway) ExchangeCode(ctx context.Context, code string, region models.Region) (*models.Credential, error) {
	return f.ExchangeCodeFn(ctx, code, region)
}
func (f *fakeGateway) PasswordLogin(ctx context.Context, in cloud.PasswordLogin) (*models.Credential, error) {
	return f.PasswordLoginFn(ctx, in)
}
func (f *fakeGateway) Refresh(ctx context.Context, cred models.Credential) (*models.Credential, error) {
	return f.RefreshFn(ctx, cred)
}
func (f *fakeGateway) ListDevices(ctx context.Context, region models.Region, token string) ([]models.Thing, error) {
	return f.ListDevicesFn(ctx, region, token)
}
func (f *fakeGateway) SetSwitch(ctx context.Context, region models.Region, token, deviceID, state string) (json.RawMessage, error) {
	return f.SetSwitchFn(ctx, region, token, deviceID, state)
}
func (f *fakeGateway) GetPowerStats(ctx context.Context, region models.Region, token, deviceID string) (json.RawMessage, error) {
	return f.PowerStatsFn(ctx, region, token, deviceID)
}

func (f *fakeGateway) ListFamilies(ctx context.Context, region models.Region, token string) (json.RawMessage, error) {
	return f.FamiliesFn(ctx, region, token)
}
func (f *fakeGateway) DeviceAction(ctx context.Context, region models.Region, token, deviceID, action string) (json.RawMessage, error) {
	return f.ActionFn(ctx, region, token, deviceID, action)
}

// memStore is an in-memory CredentialStore.
type memStore struct {
	mu    sync.Mutex
	creds map[string]models.Credential
	saves int
	err   error
}

func newMemStore() *memStore { return &memStore{creds: map[string]models.Credential{}} }

func (m *memStore) Save(_ context.Context, id string, c models.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.creds[id] = c
	return nil
}

func (m *memStore) Load(_ context.Context, id string) (*models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.creds[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, id)
	return nil
}

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	mu sync.Mutex

	gotSession string
	gotFrom    time.Time
	gotTo      time.Time
	gotType    string

	appended  []models.DeviceEvent
	events    []models.DeviceEvent
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) List(_ context.Context, sessionID string, from, to time.Time, typ string) ([]models.DeviceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotSession = sessionID
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(_ context.Context, e models.DeviceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

type notification struct {
	session string
	event   any
}

// fakeConns records registry calls.
type fakeConns struct {
	mu           sync.Mutex
	notified     []notification
	unregistered []string
	accept       bool
}

func (f *fakeConns) Register(string, hub.Channel)     {}
func (f *fakeConns) Release(string, hub.Channel) bool { return false }
func (f *fakeConns) Len() int                         { return 0 }
func (f *fakeConns) CloseAll()                        {}
func (f *fakeConns) Unregister(id string) {
	f.mu.Lock()
	f.unregistered = append(f.unregistered, id)
	f.mu.Unlock()
}
func (f *fakeConns) Notify(id string, ev any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, notification{session: id, event: ev})
	return f.accept
}

type fakePublisher struct {
	got []models.DeviceUpdate
	err error
}

func (f *fakePublisher) PublishDeviceUpdate(u models.DeviceUpdate) error {
	f.got = append(f.got, u)
	return f.err
}

type fakeRecorder struct {
	got [][]models.Device
}

func (f *fakeRecorder) RecordDevices(d []models.Device) { f.got = append(f.got, d) }
