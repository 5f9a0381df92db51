package handler

import (
	"net/http"

	"github.com/mveld/empadmin/internal/api/response"
	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/services/servercontrol"
)

// ServerHandler controls the game server container. All endpoints answer
// 501 when container control is not configured.
type ServerHandler struct {
	control *servercontrol.Controller
}

// NewServerHandler creates a new server control handler
func NewServerHandler(control *servercontrol.Controller) *ServerHandler {
	return &ServerHandler{control: control}
}

// Status handles GET /api/v1/server
func (h *ServerHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h.control == nil {
		WriteError(w, model.ErrServerControlDisabled)
		return
	}

	status, err := h.control.Status(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, status)
}

// Start handles POST /api/v1/server/start
func (h *ServerHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h.control == nil {
		WriteError(w, model.ErrServerControlDisabled)
		return
	}

	if err := h.control.Start(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Ack{OK: true})
}

// Stop handles POST /api/v1/server/stop
func (h *ServerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if h.control == nil {
		WriteError(w, model.ErrServerControlDisabled)
		return
	}

	if err := h.control.Stop(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Ack{OK: true})
}

// Restart handles POST /api/v1/server/restart
func (h *ServerHandler) Restart(w http.ResponseWriter, r *http.Request) {
	if h.control == nil {
		WriteError(w, model.ErrServerControlDisabled)
		return
	}

	if err := h.control.Restart(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Ack{OK: true})
}
