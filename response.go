package smarthome_proxy

import (
	"time"

	"smarthome_proxy/internal/models"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error" example:"upstream unavailable"`
	Kind  string `json:"kind" example:"UpstreamUnavailable"` // MissingCredential | InvalidCredential | UpstreamUnavailable | UpstreamRejected | MalformedUpstreamPayload | BadRequest | NotFound | Internal
	Code  int    `json:"code,omitempty" example:"406"`       // upstream error code, UpstreamRejected only
}

// MessageResponse is the banner returned by / and /api, and the result of a device action.
type MessageResponse struct {
	Message string `json:"message" example:"Smart Home API Server Running"`
}

type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

type HealthResponse struct {
	Status      string `json:"status" example:"ok"`
	Connections int    `json:"connections" example:"2"` // open WebSocket channels
}

// LoginURLResponse is returned by /api/login when the caller has to go through the OAuth page.
type LoginURLResponse struct {
	LoginURL string `json:"loginUrl"`
}

// SessionResponse carries the proxy session token. The upstream token is never returned.
type SessionResponse struct {
	Token     string        `json:"token"`
	Region    models.Region `json:"region" example:"eu"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

func NewSessionResponse(s models.Session) SessionResponse {
	return SessionResponse{Token: s.Token, Region: s.Region, ExpiresAt: s.ExpiresAt}
}

// PasswordLoginRequest is the account login body of /api/login.
// AppID and AppSecret override the configured application for this login only.
type PasswordLoginRequest struct {
	AppID       string `json:"app_id,omitempty"`
	AppSecret   string `json:"app_secret,omitempty"`
	Email       string `json:"email" binding:"required" example:"user@example.com"`
	Password    string `json:"password" binding:"required"`
	CountryCode string `json:"country_code,omitempty" example:"+1"`
	Region      string `json:"region,omitempty" example:"eu"`
}

// ToggleRequest is the body of POST /api/device/{id}/toggle.
type ToggleRequest struct {
	State string `json:"state" binding:"required" example:"on"`
}

// DeviceStateResponse is the body of GET /api/device/{id}/power.
type DeviceStateResponse struct {
	ID     string `json:"id" example:"1000abcd"`
	State  string `json:"state" example:"on"` // on | off | unknown
	Online bool   `json:"online"`
}

// ActionRequest is the body of POST /api/window/{id}/control.
type ActionRequest struct {
	Action string `json:"action" binding:"required" example:"close"`
}

type LogsResponse struct {
	Count  int                  `json:"count"`
	Events []models.DeviceEvent `json:"events"`
}
