package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/infra"
)

// WSHandler upgrades clients into match-scoped live score rooms.
type WSHandler struct {
	hub *infra.WSHub
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *infra.WSHub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Subscribe handles GET /matches/{id}/live. The client receives every
// accepted command, clock tick and ledger append for the match.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid match id"))
		return
	}
	h.hub.ServeWS(w, r, "match:"+id.String())
}
