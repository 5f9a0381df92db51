package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mveld/empadmin/internal/api/request"
	"github.com/mveld/empadmin/internal/api/response"
	"github.com/mveld/empadmin/internal/services/actions"
)

// ActionHandler exposes the admin verbs over HTTP
type ActionHandler struct {
	actions *actions.Controller
}

// NewActionHandler creates a new action handler
func NewActionHandler(controller *actions.Controller) *ActionHandler {
	return &ActionHandler{actions: controller}
}

// Say handles POST /api/v1/actions/say
func (h *ActionHandler) Say(w http.ResponseWriter, r *http.Request) {
	var req request.Say
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.actions.Say(r.Context(), req.Message); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Ack{OK: true})
}

// PM handles POST /api/v1/actions/pm
func (h *ActionHandler) PM(w http.ResponseWriter, r *http.Request) {
	var req request.PM
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.actions.PM(r.Context(), req.Name, req.Message); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Ack{OK: true})
}

// Kick handles POST /api/v1/actions/kick
func (h *ActionHandler) Kick(w http.ResponseWriter, r *http.Request) {
	var req request.Kick
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.actions.Kick(r.Context(), req.Name, req.Reason); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Ack{OK: true})
}

// Ban handles POST /api/v1/actions/ban
func (h *ActionHandler) Ban(w http.ResponseWriter, r *http.Request) {
	var req request.Ban
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.actions.Ban(r.Context(), req.ID, req.Duration); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Ack{OK: true})
}

// Unban handles POST /api/v1/actions/unban
func (h *ActionHandler) Unban(w http.ResponseWriter, r *http.Request) {
	var req request.Unban
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.actions.Unban(r.Context(), req.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Ack{OK: true})
}

// Save handles POST /api/v1/actions/save
func (h *ActionHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.actions.Save(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Ack{OK: true})
}
