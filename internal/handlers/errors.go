package handlers

import (
	"errors"
	"net/http"

	smarthome "smarthome_proxy"
	"smarthome_proxy/internal/cloud"
	"smarthome_proxy/internal/models"
	"smarthome_proxy/internal/service"

	"github.com/gin-gonic/gin"
)

// Error kinds reported in ErrorResponse.Kind.
const (
	kindMissingCredential = "MissingCredential"
	kindInvalidCredential = "InvalidCredential"
	kindUpstreamDown      = "UpstreamUnavailable"
	kindUpstreamRejected  = "UpstreamRejected"
	kindMalformedPayload  = "MalformedUpstreamPayload"
	kindBadRequest        = "BadRequest"
	kindNotFound          = "NotFound"
	kindInternal          = "Internal"
)

const (
	errMissingHeader     = "missing Authorization header"
	errMissingToken      = "missing session token"
	errHeaderFormat      = "invalid Authorization header format"
	errInvalidSession    = "invalid or expired session token"
	errLoginRequired     = "login required"
	errUpstreamDown      = "upstream unavailable"
	errMalformedUpstream = "unexpected upstream response"
	errInternal          = "internal server error"
)

// classify maps a service or gateway error to a status and response body.
func classify(err error) (int, smarthome.ErrorResponse) {
	var rej *cloud.RejectedError
	switch {
	case errors.As(err, &rej):
		msg := rej.Message
		if msg == "" {
			msg = rej.Error()
		}
		return rej.HTTPStatus(), smarthome.ErrorResponse{Error: msg, Kind: kindUpstreamRejected, Code: rej.Code}
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, smarthome.ErrorResponse{Error: errInvalidSession, Kind: kindInvalidCredential}
	case errors.Is(err, service.ErrInvalidCredential):
		return http.StatusUnauthorized, smarthome.ErrorResponse{Error: errLoginRequired, Kind: kindInvalidCredential}
	case errors.Is(err, cloud.ErrUpstreamUnavailable):
		return http.StatusBadGateway, smarthome.ErrorResponse{Error: errUpstreamDown, Kind: kindUpstreamDown}
	case errors.Is(err, cloud.ErrMalformedPayload):
		return http.StatusInternalServerError, smarthome.ErrorResponse{Error: errMalformedUpstream, Kind: kindMalformedPayload}
	case errors.Is(err, service.ErrDeviceNotFound):
		return http.StatusNotFound, smarthome.ErrorResponse{Error: err.Error(), Kind: kindNotFound}
	case errors.Is(err, models.ErrUnknownRegion),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidTimeRange):
		return http.StatusBadRequest, smarthome.ErrorResponse{Error: err.Error(), Kind: kindBadRequest}
	}
	return http.StatusInternalServerError, smarthome.ErrorResponse{Error: errInternal, Kind: kindInternal}
}

// respondError logs err under logKey and writes the classified error body.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	status, body := classify(err)
	fields := append([]interface{}{"err", err, "status", status}, kv...)
	if status >= http.StatusInternalServerError {
		h.log.Errorw(logKey, fields...)
	} else {
		h.log.Infow(logKey, fields...)
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, smarthome.ErrorResponse{Error: msg, Kind: kindBadRequest})
}

func unauthorized(c *gin.Context, kind, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, smarthome.ErrorResponse{Error: msg, Kind: kind})
}
