package cloud

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUpstreamUnavailable means the cloud API could not be reached or failed on its side.
	// Callers may retry with backoff.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedPayload means the cloud API answered with a shape we cannot decode.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

// RejectedError is an application-level refusal from the cloud API. Not transient.
type RejectedError struct {
	Status  int    // HTTP status of the upstream response
	Code    int    // upstream error code; equals Status when the body had none
	Message string // upstream msg
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream rejected request: code %d", e.Code)
	}
	return fmt.Sprintf("upstream rejected request: code %d: %s", e.Code, e.Message)
}

// HTTPStatus is the status the proxy answers with for this rejection.
func (e *RejectedError) HTTPStatus() int {
	switch e.Code {
	case http.StatusBadRequest:
		return http.StatusBadRequest
	case http.StatusUnauthorized, http.StatusPaymentRequired: // 402: access token expired
		return http.StatusUnauthorized
	case http.StatusForbidden:
		return http.StatusForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed: // 405: device not found
		return http.StatusNotFound
	case http.StatusTooManyRequests:
		return http.StatusTooManyRequests
	}
	if e.Status >= 400 && e.Status < 500 {
		return e.Status
	}
	return http.StatusBadRequest
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamUnavailable, err)
}

func malformed(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrMalformedPayload, err)
}
