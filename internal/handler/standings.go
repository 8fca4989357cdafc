package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/service"
)

// StandingsHandler handles championship table endpoints.
type StandingsHandler struct {
	svc *service.Standings
}

// NewStandingsHandler creates a new StandingsHandler.
func NewStandingsHandler(svc *service.Standings) *StandingsHandler {
	return &StandingsHandler{svc: svc}
}

// GetTable handles GET /championships/{id}/standings. The optional group
// query parameter scopes the table to one group.
func (h *StandingsHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	championshipID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid championship id"))
		return
	}

	table, err := h.svc.Get(r.Context(), championshipID, r.URL.Query().Get("group"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, table)
}

// Recompute handles POST /championships/{id}/standings/recompute, the manual
// full-recomputation trigger.
func (h *StandingsHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	championshipID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid championship id"))
		return
	}

	if err := h.svc.Recompute(r.Context(), championshipID, r.URL.Query().Get("group")); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusAccepted, map[string]string{"status": "recomputation triggered"})
}
