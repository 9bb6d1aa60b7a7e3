package cloud

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"smarthome_proxy/internal/models"
)

const (
	grantAuthorizationCode = "authorization_code"

	pathOAuthToken = "/v2/user/oauth/token"
	pathLogin      = "/v2/user/login"
	pathRefresh    = "/v2/user/refresh"
)

// LoginURL builds the platform's OAuth page URL for the configured application.
func (c *Client) LoginURL(state string) string {
	seq := strconv.FormatInt(c.now().UnixMilli(), 10)
	q := url.Values{}
	q.Set("clientId", c.cfg.AppID)
	q.Set("seq", seq)
	q.Set("authorization", sign(c.cfg.AppSecret, []byte(c.cfg.AppID+"_"+seq)))
	q.Set("redirectUrl", c.cfg.RedirectURL)
	q.Set("grantType", grantAuthorizationCode)
	q.Set("state", state)
	q.Set("nonce", c.nonce())
	q.Set("showQRCode", "false")
	return c.cfg.OAuthPageURL + "?" + q.Encode()
}

type oauthTokenData struct {
	AccessToken   string `json:"accessToken"`
	AtExpiredTime int64  `json:"atExpiredTime"`
	RefreshToken  string `json:"refreshToken"`
	RtExpiredTime int64  `json:"rtExpiredTime"`
}

// ExchangeCode trades an authorization code for a credential. The region is
// stamped onto the result because upstream does not always echo it.
func (c *Client) ExchangeCode(ctx context.Context, code string, region models.Region) (*models.Credential, error) {
	const op = "exchange code"
	body := map[string]string{
		"code":        code,
		"redirectUrl": c.cfg.RedirectURL,
		"grantType":   grantAuthorizationCode,
	}
	env, _, err := c.call(ctx, op, http.MethodPost, region, pathOAuthToken, nil, body, authMode{})
	if err != nil {
		return nil, err
	}
	var data oauthTokenData
	if err := decodeData(op, env, &data); err != nil {
		return nil, err
	}
	if data.AccessToken == "" {
		return nil, malformed(op, errors.New("empty access token"))
	}
	cred := &models.Credential{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		ExpiresAt:    c.expiryFromMillis(data.AtExpiredTime),
		Region:       region,
	}
	if data.RtExpiredTime > 0 {
		cred.RefreshExpiresAt = c.expiryFromMillis(data.RtExpiredTime)
	}
	return cred, nil
}

// PasswordLogin is a direct account login. AppID/AppSecret, when set, override
// the configured application for this call only.
type PasswordLogin struct {
	AppID       string
	AppSecret   string
	Email       string
	Password    string
	CountryCode string
	Region      models.Region
}

type loginData struct {
	At     string `json:"at"`
	Rt     string `json:"rt"`
	Region string `json:"region"`
}

// PasswordLogin signs in with account credentials.
func (c *Client) PasswordLogin(ctx context.Context, in PasswordLogin) (*models.Credential, error) {
	const op = "password login"
	region := in.Region
	if region == "" {
		region = models.RegionAS
	}
	countryCode := in.CountryCode
	if countryCode == "" {
		countryCode = "+1"
	}
	body := map[string]string{
		"email":       in.Email,
		"password":    in.Password,
		"countryCode": countryCode,
	}
	env, _, err := c.call(ctx, op, http.MethodPost, region, pathLogin, nil, body, authMode{appID: in.AppID, secret: in.AppSecret})
	if err != nil {
		return nil, err
	}
	var data loginData
	if err := decodeData(op, env, &data); err != nil {
		return nil, err
	}
	if data.At == "" {
		return nil, malformed(op, errors.New("empty access token"))
	}
	if r, err := models.ParseRegion(data.Region); err == nil {
		region = r
	}
	return &models.Credential{
		AccessToken:  data.At,
		RefreshToken: data.Rt,
		ExpiresAt:    c.expiryFromMillis(0),
		Region:       region,
	}, nil
}

type refreshData struct {
	At string `json:"at"`
	Rt string `json:"rt"`
}

// Refresh trades the refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, cred models.Credential) (*models.Credential, error) {
	const op = "refresh token"
	body := map[string]string{"rt": cred.RefreshToken}
	env, _, err := c.call(ctx, op, http.MethodPost, cred.Region, pathRefresh, nil, body, authMode{bearer: cred.AccessToken})
	if err != nil {
		return nil, err
	}
	var data refreshData
	if err := decodeData(op, env, &data); err != nil {
		return nil, err
	}
	if data.At == "" {
		return nil, malformed(op, errors.New("empty access token"))
	}
	next := &models.Credential{
		AccessToken:      data.At,
		RefreshToken:     data.Rt,
		ExpiresAt:        c.expiryFromMillis(0),
		RefreshExpiresAt: cred.RefreshExpiresAt,
		Region:           cred.Region,
	}
	if next.RefreshToken == "" {
		next.RefreshToken = cred.RefreshToken
	}
	return next, nil
}
