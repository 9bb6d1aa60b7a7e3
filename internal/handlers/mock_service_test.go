package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"smarthome_proxy/internal/cloud"
	"smarthome_proxy/internal/hub"
	"smarthome_proxy/internal/models"
	"smarthome_proxy/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	loginURL string

	exchangeSess models.Session
	exchangeErr  error
	lastCode     string
	lastRegion   string

	passwordSess models.Session
	passwordErr  error
	lastPassword cloud.PasswordLogin

	parseID        string
	parseErr       error
	lastParseToken string

	resumeSess models.Session
	resumeErr  error

	credErr     error
	credSession string

	logoutErr error
	loggedOut []string
}

func (m *mockAuth) LoginURL() string { return m.loginURL }
func (m *mockAuth) ExchangeCode(ctx context.Context, code, region string) (models.Session, error) {
	m.lastCode = code
	m.lastRegion = region
	return m.exchangeSess, m.exchangeErr
}
func (m *mockAuth) PasswordLogin(ctx context.Context, in cloud.PasswordLogin) (models.Session, error) {
	m.lastPassword = in
	return m.passwordSess, m.passwordErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) Resume(ctx context.Context, token string) (models.Session, error) {
	return m.resumeSess, m.resumeErr
}
func (m *mockAuth) Credential(ctx context.Context, sessionID string) (*models.Credential, error) {
	m.credSession = sessionID
	if m.credErr != nil {
		return nil, m.credErr
	}
	return &models.Credential{AccessToken: "upstream", Region: models.RegionEU}, nil
}
func (m *mockAuth) Logout(ctx context.Context, sessionID string) error {
	m.loggedOut = append(m.loggedOut, sessionID)
	return m.logoutErr
}

type toggleCall struct {
	session, device, state string
}

type mockDevices struct {
	mu sync.Mutex

	devices []models.Device
	listErr error

	toggleRaw  json.RawMessage
	toggleErr  error
	lastToggle toggleCall
	toggles    int

	statsRaw    json.RawMessage
	statsErr    error
	lastSession string
	lastDevice  string

	state    models.Device
	stateErr error

	familiesRaw json.RawMessage
	familiesErr error

	actionErr  error
	lastAction string
}

func (m *mockDevices) ListDevices(ctx context.Context, sessionID string) ([]models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSession = sessionID
	return m.devices, m.listErr
}
func (m *mockDevices) Toggle(ctx context.Context, sessionID, deviceID, state string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggles++
	m.lastToggle = toggleCall{session: sessionID, device: deviceID, state: state}
	return m.toggleRaw, m.toggleErr
}
func (m *mockDevices) PowerStats(ctx context.Context, sessionID, deviceID string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSession = sessionID
	m.lastDevice = deviceID
	return m.statsRaw, m.statsErr
}
func (m *mockDevices) DeviceState(ctx context.Context, sessionID, deviceID string) (models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSession = sessionID
	m.lastDevice = deviceID
	return m.state, m.stateErr
}
func (m *mockDevices) Families(ctx context.Context, sessionID string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSession = sessionID
	return m.familiesRaw, m.familiesErr
}
func (m *mockDevices) Action(ctx context.Context, sessionID, deviceID, action string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSession = sessionID
	m.lastDevice = deviceID
	m.lastAction = action
	return json.RawMessage(`{"error":0}`), m.actionErr
}

type mockEventLog struct {
	resp        []models.DeviceEvent
	err         error
	lastSession string
	lastFrom    time.Time
	lastTo      time.Time
	lastType    string
}

func (m *mockEventLog) List(ctx context.Context, sessionID string, f service.LogFilter) ([]models.DeviceEvent, error) {
	m.lastSession = sessionID
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestService(auth *mockAuth, dev *mockDevices, logs *mockEventLog) *service.Service {
	s := &service.Service{Connections: hub.NewRegistry(nil)}
	if auth != nil {
		s.Authorization = auth
	}
	if dev != nil {
		s.Devices = dev
	}
	if logs != nil {
		s.EventLog = logs
	}
	return s
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
