// Package cloud talks to the eWeLink (CoolKit) open platform.
//
// Every call is a single HTTP round trip: no retries, no caching. Results are
// returned as upstream sent them; mapping to the proxy's view happens in the caller.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smarthome_proxy/internal/models"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultAccessTTL    = 30 * 24 * time.Hour
	defaultOAuthPageURL = "https://c2ccdn.coolkit.cc/oauth/index.html"

	// cap on upstream bodies we are willing to buffer
	maxBodyBytes = 4 << 20
)

// DefaultBaseURLs are the regional API hosts.
var DefaultBaseURLs = map[models.Region]string{
	models.RegionAS: "https://as-apia.coolkit.cc",
	models.RegionCN: "https://cn-apia.coolkit.cn",
	models.RegionEU: "https://eu-apia.coolkit.cc",
	models.RegionUS: "https://us-apia.coolkit.cc",
}

// Config holds the application registration on the open platform.
type Config struct {
	AppID        string
	AppSecret    string
	RedirectURL  string // must match the URL registered with the platform
	OAuthPageURL string
	BaseURLs     map[models.Region]string // overrides DefaultBaseURLs per region
	Timeout      time.Duration
	AccessTTL    time.Duration // assumed lifetime when upstream omits an expiry
}

// Client is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
	nonce      func() string
}

// NewClient applies defaults to cfg and returns a ready client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.OAuthPageURL == "" {
		cfg.OAuthPageURL = defaultOAuthPageURL
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
		nonce:      newNonce,
	}
}

// envelope is the common response wrapper: {"error":0,"msg":"","data":{...}}.
type envelope struct {
	Error int             `json:"error"`
	Msg   string          `json:"msg"`
	Data  json.RawMessage `json:"data"`
}

// authMode selects how a request is authorized upstream.
type authMode struct {
	bearer string // access token; empty means sign the body with the app secret
	appID  string
	secret string
}

func (c *Client) baseURL(region models.Region) (string, error) {
	if u, ok := c.cfg.BaseURLs[region]; ok && u != "" {
		return strings.TrimRight(u, "/"), nil
	}
	if u, ok := DefaultBaseURLs[region]; ok {
		return u, nil
	}
	return "", models.ErrUnknownRegion
}

// call performs one request and returns the decoded envelope plus the raw body.
func (c *Client) call(ctx context.Context, op, method string, region models.Region, path string, query url.Values, body any, auth authMode) (*envelope, []byte, error) {
	base, err := c.baseURL(region)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	endpoint := base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return nil, nil, fmt.Errorf("%s: marshal request: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: build request: %w", op, err)
	}

	appID := auth.appID
	if appID == "" {
		appID = c.cfg.AppID
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CK-Appid", appID)
	req.Header.Set("X-CK-Nonce", c.nonce())
	if auth.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+auth.bearer)
	} else {
		secret := auth.secret
		if secret == "" {
			secret = c.cfg.AppSecret
		}
		req.Header.Set("Authorization", "Sign "+sign(secret, payload))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, unavailable(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, unavailable(op, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, nil, unavailable(op, fmt.Errorf("status %d", resp.StatusCode))
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		rej := &RejectedError{Status: resp.StatusCode, Code: resp.StatusCode}
		if decodeErr == nil {
			rej.Message = env.Msg
			if env.Error != 0 {
				rej.Code = env.Error
			}
		}
		return nil, nil, fmt.Errorf("%s: %w", op, rej)
	}
	if decodeErr != nil {
		return nil, nil, malformed(op, decodeErr)
	}
	if env.Error != 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, &RejectedError{Status: resp.StatusCode, Code: env.Error, Message: env.Msg})
	}
	return &env, raw, nil
}

// decodeData unmarshals the envelope's data section into dst.
func decodeData(op string, env *envelope, dst any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return malformed(op, errors.New("missing data"))
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return malformed(op, err)
	}
	return nil
}

func (c *Client) expiryFromMillis(ms int64) time.Time {
	if ms > 0 {
		return time.UnixMilli(ms).UTC()
	}
	return c.now().Add(c.cfg.AccessTTL).UTC()
}
