package handlers

import (
	"net/http"

	"smarthome_proxy/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Upgrader for HTTP -> WebSocket. Origins are checked by CORS settings on the REST side only.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsToken reads the session token from ?token= and falls back to the Authorization header.
func wsToken(c *gin.Context) string {
	if t := c.Query("token"); t != "" {
		return t
	}
	t, _ := bearerToken(c)
	return t
}

// @Summary      Device update stream
// @Description  Upgrades to a WebSocket that receives {"type":"deviceUpdate","deviceId","state"} after each accepted
// @Description  toggle of the session. Inbound messages are ignored. A newer connection replaces an older one.
// @Tags         devices
// @Param        token  query  string  true  "Session token"
// @Success      101
// @Failure      401  {object}  smarthome_proxy.ErrorResponse
// @Failure      502  {object}  smarthome_proxy.ErrorResponse
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	token := wsToken(c)
	if token == "" {
		unauthorized(c, kindMissingCredential, errMissingToken)
		return
	}
	sid, err := h.services.ParseToken(token)
	if err != nil {
		h.log.Infow("ws_token_rejected", "err", err)
		unauthorized(c, kindInvalidCredential, errInvalidSession)
		return
	}
	// a logged-out session still has a well-formed token
	if _, err := h.services.Credential(c.Request.Context(), sid); err != nil {
		h.respondError(c, "ws_session_unusable", err, "session", sid)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}

	conn := hub.NewConn(ws, h.log)
	h.services.Register(sid, conn)
	defer h.services.Release(sid, conn)

	h.log.Infow("ws_connected", "session", sid)
	conn.Serve(c.Request.Context())
	h.log.Infow("ws_disconnected", "session", sid)
}
