package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mveld/empadmin/internal/api/response"
	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/services/registry"
)

// PlayerHandler serves the player table
type PlayerHandler struct {
	registry *registry.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(reg *registry.Controller) *PlayerHandler {
	return &PlayerHandler{registry: reg}
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.registry.Players(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromRecords(players))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	player, err := h.registry.Player(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, player)
}
