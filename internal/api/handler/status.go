package handler

import (
	"net/http"

	"github.com/mveld/empadmin/internal/api/response"
	"github.com/mveld/empadmin/internal/services/monitor"
	"github.com/mveld/empadmin/internal/services/servercontrol"
)

// StatusHandler reports connectivity and container state
type StatusHandler struct {
	monitor *monitor.Monitor
	control *servercontrol.Controller // nil when container control is not configured
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(mon *monitor.Monitor, control *servercontrol.Controller) *StatusHandler {
	return &StatusHandler{monitor: mon, control: control}
}

// Status handles GET /api/v1/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	out := response.Status{Console: h.monitor.Status()}

	if h.control != nil {
		container, err := h.control.Status(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		out.Container = &container
	}

	response.JSON(w, http.StatusOK, out)
}
