package handlers

import (
	"fmt"
	"net/http"
	"time"

	smarthome "smarthome_proxy"
	"smarthome_proxy/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// accepted in 'from' and 'to', tried in order
var queryTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", dateLayout}

// logsQuery is the raw /api/logs query. Validation of the range and the
// event type belongs to the event log service.
type logsQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
	Type string `form:"type"`
}

// filter parses the bounds. A date-only 'to' covers that whole day.
func (q logsQuery) filter() (service.LogFilter, error) {
	f := service.LogFilter{Type: q.Type}
	var err error
	if q.From != "" {
		if f.From, err = parseQueryTime(q.From); err != nil {
			return f, fmt.Errorf("'from': %w", err)
		}
	}
	if q.To != "" {
		if f.To, err = parseQueryTime(q.To); err != nil {
			return f, fmt.Errorf("'to': %w", err)
		}
		if len(q.To) == len(dateLayout) {
			f.To = f.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}
	return f, nil
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}

// @Summary      List the session's command journal
// @Description  Filter by time (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD') and event type. A date-only 'to' includes the whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range, inclusive"  example(2025-08-01)
// @Param        to    query   string  false  "End of range, inclusive"  example(2025-08-31)
// @Param        type  query   string  false  "Event type"  Enums(LOGIN,LOGOUT,TOGGLE,REFRESH,ACTION)
// @Success      200   {object}  smarthome_proxy.LogsResponse
// @Failure      400   {object}  smarthome_proxy.ErrorResponse
// @Failure      401   {object}  smarthome_proxy.ErrorResponse
// @Failure      500   {object}  smarthome_proxy.ErrorResponse
// @Router       /api/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	var q logsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, errInvalidQueryPref+err.Error())
		return
	}
	f, err := q.filter()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), sessionID(c), f)
	if err != nil {
		h.respondError(c, "logs_list_failed", err, "from", f.From, "to", f.To, "type", f.Type)
		return
	}
	c.JSON(http.StatusOK, smarthome.LogsResponse{Count: len(events), Events: events})
}
