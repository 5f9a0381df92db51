package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mveld/empadmin/internal/api/request"
	"github.com/mveld/empadmin/internal/api/response"
	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/services/schedule"
)

// ScheduleHandler manages the recurring message slots
type ScheduleHandler struct {
	scheduler *schedule.Controller
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduler *schedule.Controller) *ScheduleHandler {
	return &ScheduleHandler{scheduler: scheduler}
}

// List handles GET /api/v1/schedule
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	slots, err := h.scheduler.Slots(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Schedule{Slots: slots})
}

// Update handles PUT /api/v1/schedule/{index}
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("slot index must be a number"))
		return
	}

	var req request.UpdateSlot
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.scheduler.UpdateSlot(r.Context(), index, req.Slot); err != nil {
		if errors.Is(err, model.ErrSlotOutOfRange) {
			WriteError(w, err)
		} else {
			WriteError(w, NewInvalidRequestError(err.Error()))
		}
		return
	}
	response.JSON(w, http.StatusOK, response.Ack{OK: true})
}
