package handlers

import (
	"encoding/json"
	"net/http"

	smarthome "smarthome_proxy"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeJSON   = "application/json; charset=utf-8"
	actionDoneMessage = "Device action executed successfully"
)

// writeUpstream passes an upstream body through unmodified.
func writeUpstream(c *gin.Context, raw json.RawMessage) {
	c.Data(http.StatusOK, contentTypeJSON, raw)
}

// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Success      200  {array}   models.Device
// @Failure      401  {object}  smarthome_proxy.ErrorResponse
// @Failure      500  {object}  smarthome_proxy.ErrorResponse
// @Failure      502  {object}  smarthome_proxy.ErrorResponse
// @Router       /api/devices [get]
// @Router       /api/familyinfo [get]
// @Security     BearerAuth
func (h *Handler) listDevices(c *gin.Context) {
	devices, err := h.services.ListDevices(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, "devices_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// @Summary      Toggle device
// @Description  The state comes from the JSON body or, on the legacy form, from the path. Upstream accepting the
// @Description  command does not mean the device has switched yet. The session's WebSocket receives a deviceUpdate.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id     path   string                          true   "Device id"
// @Param        body   body   smarthome_proxy.ToggleRequest   false  "Desired state"
// @Success      200  {object}  map[string]interface{}  "upstream response"
// @Failure      400  {object}  smarthome_proxy.ErrorResponse
// @Failure      401  {object}  smarthome_proxy.ErrorResponse
// @Failure      404  {object}  smarthome_proxy.ErrorResponse
// @Failure      502  {object}  smarthome_proxy.ErrorResponse
// @Router       /api/device/{id}/toggle [post]
// @Router       /api/device/{id}/toggle/{state} [post]
// @Security     BearerAuth
func (h *Handler) toggleDevice(c *gin.Context) {
	deviceID := c.Param("id")
	state := c.Param("state")
	if state == "" {
		var req smarthome.ToggleRequest
		if ok := h.bindJSONOrBadRequest(c, &req); !ok {
			return
		}
		state = req.State
	}

	raw, err := h.services.Toggle(c.Request.Context(), sessionID(c), deviceID, state)
	if err != nil {
		h.respondError(c, "device_toggle_failed", err, "device", deviceID)
		return
	}
	writeUpstream(c, raw)
}

// @Summary      Device power statistics
// @Tags         devices
// @Produce      json
// @Param        id   path  string  true  "Device id"
// @Success      200  {object}  map[string]interface{}  "upstream response"
// @Failure      401  {object}  smarthome_proxy.ErrorResponse
// @Failure      404  {object}  smarthome_proxy.ErrorResponse
// @Failure      502  {object}  smarthome_proxy.ErrorResponse
// @Router       /api/device/{id}/power-stats [get]
// @Router       /api/device/{id}/usage [get]
// @Security     BearerAuth
func (h *Handler) powerStats(c *gin.Context) {
	deviceID := c.Param("id")
	raw, err := h.services.PowerStats(c.Request.Context(), sessionID(c), deviceID)
	if err != nil {
		h.respondError(c, "device_power_stats_failed", err, "device", deviceID)
		return
	}
	writeUpstream(c, raw)
}

// @Summary      Device switch state
// @Tags         devices
// @Produce      json
// @Param        id   path  string  true  "Device id"
// @Success      200  {object}  smarthome_proxy.DeviceStateResponse
// @Failure      401  {object}  smarthome_proxy.ErrorResponse
// @Failure      404  {object}  smarthome_proxy.ErrorResponse
// @Failure      502  {object}  smarthome_proxy.ErrorResponse
// @Router       /api/device/{id}/power [get]
// @Security     BearerAuth
func (h *Handler) deviceState(c *gin.Context) {
	deviceID := c.Param("id")
	d, err := h.services.DeviceState(c.Request.Context(), sessionID(c), deviceID)
	if err != nil {
		h.respondError(c, "device_state_failed", err, "device", deviceID)
		return
	}
	c.JSON(http.StatusOK, smarthome.DeviceStateResponse{ID: d.ID, State: d.Status, Online: d.Online})
}

// @Summary      List families
// @Description  Homes and rooms of the account, as sent by upstream.
// @Tags         devices
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "upstream response"
// @Failure      401  {object}  smarthome_proxy.ErrorResponse
// @Failure      502  {object}  smarthome_proxy.ErrorResponse
// @Router       /api/families [get]
// @Security     BearerAuth
func (h *Handler) listFamilies(c *gin.Context) {
	raw, err := h.services.Families(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, "families_list_failed", err)
		return
	}
	writeUpstream(c, raw)
}

// @Summary      Window or AC controller action
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "Device id"
// @Param        body  body  smarthome_proxy.ActionRequest   true  "Action"
// @Success      200  {object}  smarthome_proxy.MessageResponse
// @Failure      400  {object}  smarthome_proxy.ErrorResponse
// @Failure      401  {object}  smarthome_proxy.ErrorResponse
// @Failure      502  {object}  smarthome_proxy.ErrorResponse
// @Router       /api/window/{id}/control [post]
// @Security     BearerAuth
func (h *Handler) deviceAction(c *gin.Context) {
	deviceID := c.Param("id")
	var req smarthome.ActionRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if _, err := h.services.Action(c.Request.Context(), sessionID(c), deviceID, req.Action); err != nil {
		h.respondError(c, "device_action_failed", err, "device", deviceID)
		return
	}
	c.JSON(http.StatusOK, smarthome.MessageResponse{Message: actionDoneMessage})
}
