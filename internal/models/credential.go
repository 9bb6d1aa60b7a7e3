package models

import (
	"errors"
	"strings"
	"time"
)

// Region is an upstream cloud data-center.
type Region string

const (
	RegionAS Region = "as"
	RegionCN Region = "cn"
	RegionEU Region = "eu"
	RegionUS Region = "us"
)

var ErrUnknownRegion = errors.New("unknown region: must be one of as, cn, eu, us")

// ParseRegion normalizes s and checks it against the known regions.
func ParseRegion(s string) (Region, error) {
	r := Region(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRegion
	}
	return r, nil
}

func (r Region) Valid() bool {
	switch r {
	case RegionAS, RegionCN, RegionEU, RegionUS:
		return true
	}
	return false
}

// Credential is the upstream OAuth material held for one session.
type Credential struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken,omitempty"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	Region           Region    `json:"region"`
}

// IsValid reports whether the access token may still be used at now.
// A credential without an expiry is never valid.
func (c *Credential) IsValid(now time.Time) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(c.ExpiresAt)
}

// CanRefresh reports whether the refresh token can be traded for a new access token.
func (c *Credential) CanRefresh(now time.Time) bool {
	if c == nil || c.RefreshToken == "" {
		return false
	}
	return c.RefreshExpiresAt.IsZero() || now.Before(c.RefreshExpiresAt)
}

// Session is the proxy-issued identity a client presents instead of the upstream token.
type Session struct {
	ID        string    `json:"-"`
	Token     string    `json:"token"`
	Region    Region    `json:"region"`
	ExpiresAt time.Time `json:"expiresAt"`
}
