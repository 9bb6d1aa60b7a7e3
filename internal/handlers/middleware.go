package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionCtxKey = "sessionId"

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// present reports whether the header was sent at all.
func bearerToken(c *gin.Context) (token string, present bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, present := bearerToken(c)
	if !present {
		unauthorized(c, kindMissingCredential, errMissingHeader)
		return
	}
	if token == "" {
		unauthorized(c, kindMissingCredential, errHeaderFormat)
		return
	}

	sessionID, err := h.services.ParseToken(token)
	if err != nil {
		h.log.Infow("session_token_rejected", "err", err)
		unauthorized(c, kindInvalidCredential, errInvalidSession)
		return
	}

	// store in Gin context
	c.Set(sessionCtxKey, sessionID)
	c.Next()
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionCtxKey)
}
