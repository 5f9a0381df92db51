package handler

import (
	"net/http"

	"github.com/mveld/empadmin/internal/api/response"
	"github.com/mveld/empadmin/internal/services/monitor"
	"github.com/mveld/empadmin/internal/storage"
)

// EntityHandler serves the entity table
type EntityHandler struct {
	storage storage.Store
	monitor *monitor.Monitor
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(store storage.Store, mon *monitor.Monitor) *EntityHandler {
	return &EntityHandler{storage: store, monitor: mon}
}

// List handles GET /api/v1/entities. It serves the last refreshed table;
// clients wanting fresh data call Refresh explicitly.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	entities, err := h.storage.ListEntities(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Entities{Entities: entities})
}

// Refresh handles POST /api/v1/entities/refresh
func (h *EntityHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	entities, err := h.monitor.RefreshEntities(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Entities{Entities: entities})
}
