package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"smarthome_proxy/internal/cloud"
	"smarthome_proxy/internal/hub"
	"smarthome_proxy/internal/models"
	"smarthome_proxy/internal/repository"
	"smarthome_proxy/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsURL(srvURL, token string) string {
	u, _ := url.Parse(srvURL)
	u.Scheme = "ws"
	u.Path = "/ws"
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func TestWebSocket_RejectsBeforeUpgrade(t *testing.T) {
	auth := &mockAuth{parseErr: service.ErrInvalidToken}
	srv := httptest.NewServer(newTestRouter(newTestService(auth, nil, nil)))
	defer srv.Close()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}

	_, resp, err := dialer.Dial(wsURL(srv.URL, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dialer.Dial(wsURL(srv.URL, "forged"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "forged", auth.lastParseToken)
}

func TestWebSocket_RejectsLoggedOutSession(t *testing.T) {
	auth := &mockAuth{parseID: "sess-gone", credErr: service.ErrInvalidCredential}
	s := newTestService(auth, nil, nil)
	reg := s.Connections.(*hub.Registry)
	srv := httptest.NewServer(newTestRouter(s))
	defer srv.Close()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	_, resp, err := dialer.Dial(wsURL(srv.URL, "still-signed"), nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "sess-gone", auth.credSession)
	assert.Zero(t, reg.Len())
}

func TestWebSocket_RegistersUnderSession(t *testing.T) {
	auth := &mockAuth{parseID: "sess-ws"}
	s := newTestService(auth, nil, nil)
	reg := s.Connections.(*hub.Registry)
	srv := httptest.NewServer(newTestRouter(s))
	defer srv.Close()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(wsURL(srv.URL, "tok"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return reg.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.True(t, reg.Notify("sess-ws", models.NewDeviceUpdate("d1", "off")))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.DeviceUpdate
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, models.NewDeviceUpdate("d1", "off"), got)

	// inbound messages are ignored
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"hello":1}`)))

	_ = conn.Close()
	require.Eventually(t, func() bool { return reg.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

// fakeCloud is a minimal upstream speaking the platform's envelope.
func fakeCloud(t *testing.T, toggled chan<- string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v2/user/oauth/token":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": 0,
				"msg":   "",
				"data": map[string]any{
					"accessToken":   "upstream-at",
					"atExpiredTime": time.Now().Add(time.Hour).UnixMilli(),
					"refreshToken":  "upstream-rt",
				},
			})
		case "/v2/device/thing/status":
			if r.Header.Get("Authorization") != "Bearer upstream-at" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":401,"msg":"bad token"}`))
				return
			}
			var body struct {
				ID     string            `json:"id"`
				Params map[string]string `json:"params"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			toggled <- body.ID + "=" + body.Params["switch"]
			_, _ = w.Write([]byte(`{"error":0,"msg":"","data":{}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestToggle_PushesDeviceUpdateToSessionSocket(t *testing.T) {
	toggled := make(chan string, 1)
	upstream := fakeCloud(t, toggled)

	gw := cloud.NewClient(cloud.Config{
		AppID:     "app",
		AppSecret: "secret",
		BaseURLs:  map[models.Region]string{models.RegionEU: upstream.URL},
		Timeout:   2 * time.Second,
	})
	reg := hub.NewRegistry(nil)
	services := service.NewService(service.Deps{
		Repos: &repository.Repository{
			Credentials: repository.NewCredentialFile(filepath.Join(t.TempDir(), "token.json")),
		},
		Gateway:  gw,
		Registry: reg,
		Auth:     service.AuthConfig{SigningKey: "test-key", SessionTTL: time.Hour},
	})
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(NewHandler(services, nil, Options{}).InitRoutes())
	defer srv.Close()

	// log in through the code exchange
	resp, err := http.Post(srv.URL+"/api/login?code=c0de&region=eu", "application/json", nil)
	require.NoError(t, err)
	var sess struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, sess.Token)
	assert.NotContains(t, sess.Token, "upstream-at")

	// open the session's push channel
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(wsURL(srv.URL, sess.Token), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return reg.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	// toggle
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/device/42/toggle", strings.NewReader(`{"state":"on"}`))
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	var echoed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&echoed))
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, echoed["error"])
	assert.Equal(t, "42=on", <-toggled)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]string
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, map[string]string{"type": "deviceUpdate", "deviceId": "42", "state": "on"}, got)

	// after logout the token still verifies, but the socket is refused
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/api/logout", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, resp, err = dialer.Dial(wsURL(srv.URL, sess.Token), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
