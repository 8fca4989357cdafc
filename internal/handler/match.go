package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/service"
)

// MatchHandler handles fixture, match-control and ledger endpoints.
type MatchHandler struct {
	svc *service.MatchControl
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(svc *service.MatchControl) *MatchHandler {
	return &MatchHandler{svc: svc}
}

// createFixtureRequest is the body of POST /matches.
type createFixtureRequest struct {
	ChampionshipID uuid.UUID `json:"championship_id"`
	Group          string    `json:"group,omitempty"`
	HomeTeamID     uuid.UUID `json:"home_team_id"`
	AwayTeamID     uuid.UUID `json:"away_team_id"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Venue          string    `json:"venue,omitempty"`
}

// CreateFixture handles POST /matches.
func (h *MatchHandler) CreateFixture(w http.ResponseWriter, r *http.Request) {
	var req createFixtureRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.ChampionshipID == uuid.Nil || req.HomeTeamID == uuid.Nil || req.AwayTeamID == uuid.Nil {
		RespondError(w, domain.ErrValidation("championship_id, home_team_id and away_team_id are required"))
		return
	}

	m, err := h.svc.CreateFixture(r.Context(), req.ChampionshipID, req.Group, req.HomeTeamID, req.AwayTeamID, req.ScheduledAt, req.Venue)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, m)
}

// GetMatch handles GET /matches/{id}.
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	m, err := h.svc.GetMatch(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, m)
}

// ListMatches handles GET /championships/{id}/matches.
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	championshipID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid championship id"))
		return
	}

	group := r.URL.Query().Get("group")
	var status *domain.MatchStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.MatchStatus(s)
		status = &st
	}

	matches, err := h.svc.ListMatches(r.Context(), championshipID, group, status)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, matches)
}

// commandRequest is the body of POST /matches/{id}/commands.
type commandRequest struct {
	Command     string `json:"command"`
	Minute      int    `json:"minute,omitempty"`
	ExtraMinute int    `json:"extra_minute,omitempty"`
	HomeScore   *int   `json:"home_score,omitempty"`
	AwayScore   *int   `json:"away_score,omitempty"`
	Reason      string `json:"reason,omitempty"`
	IssuedBy    string `json:"issued_by,omitempty"`
}

// Command handles POST /matches/{id}/commands, the single entry point for
// all state-machine transitions.
func (h *MatchHandler) Command(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req commandRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	cmd := domain.Command(req.Command)
	if !domain.KnownCommand(cmd) {
		RespondError(w, domain.ErrValidation("unknown command: "+req.Command))
		return
	}

	m, err := h.svc.ApplyCommand(r.Context(), id, cmd, domain.CommandPayload{
		Minute:      req.Minute,
		ExtraMinute: req.ExtraMinute,
		HomeScore:   req.HomeScore,
		AwayScore:   req.AwayScore,
		Reason:      req.Reason,
		IssuedBy:    req.IssuedBy,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, m)
}

// clockRequest is the body of POST /matches/{id}/clock.
type clockRequest struct {
	Seconds int `json:"seconds"`
}

// clockResponse reports whether a tick was applied.
type clockResponse struct {
	Applied bool `json:"applied"`
}

// Clock handles POST /matches/{id}/clock. Ticks against a match whose clock
// is not running are acknowledged but not applied.
func (h *MatchHandler) Clock(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req clockRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	applied, err := h.svc.AdvanceClock(r.Context(), id, req.Seconds)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, clockResponse{Applied: applied})
}

// appendEventRequest is the body of POST /matches/{id}/events.
type appendEventRequest struct {
	Type            string     `json:"type"`
	TeamID          *uuid.UUID `json:"team_id,omitempty"`
	PlayerID        *uuid.UUID `json:"player_id,omitempty"`
	RelatedPlayerID *uuid.UUID `json:"related_player_id,omitempty"`
	Period          int        `json:"period,omitempty"`
	Minute          int        `json:"minute"`
	ExtraMinute     int        `json:"extra_minute,omitempty"`
	Description     string     `json:"description,omitempty"`
	CreatedBy       string     `json:"created_by,omitempty"`
}

// AppendEvent handles POST /matches/{id}/events.
func (h *MatchHandler) AppendEvent(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req appendEventRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	ev, m, err := h.svc.AppendEvent(r.Context(), id, domain.MatchEvent{
		Type:            domain.EventType(req.Type),
		TeamID:          req.TeamID,
		PlayerID:        req.PlayerID,
		RelatedPlayerID: req.RelatedPlayerID,
		Period:          req.Period,
		Minute:          req.Minute,
		ExtraMinute:     req.ExtraMinute,
		Description:     req.Description,
		CreatedBy:       req.CreatedBy,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"event": ev,
		"match": m,
	})
}

// ListEvents handles GET /matches/{id}/events with optional type, team and
// period filters.
func (h *MatchHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	filter := domain.EventFilter{}
	if t := r.URL.Query().Get("type"); t != "" {
		filter.Types = []domain.EventType{domain.EventType(t)}
	}
	if team := r.URL.Query().Get("team_id"); team != "" {
		teamID, err := uuid.Parse(team)
		if err != nil {
			RespondError(w, domain.ErrValidation("invalid team_id"))
			return
		}
		filter.TeamID = &teamID
	}
	if player := r.URL.Query().Get("player_id"); player != "" {
		playerID, err := uuid.Parse(player)
		if err != nil {
			RespondError(w, domain.ErrValidation("invalid player_id"))
			return
		}
		filter.PlayerID = &playerID
	}
	if p := r.URL.Query().Get("period"); p != "" {
		period, err := strconv.Atoi(p)
		if err != nil {
			RespondError(w, domain.ErrValidation("invalid period"))
			return
		}
		filter.Period = &period
	}

	events, err := h.svc.ListEvents(r.Context(), id, filter)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, events)
}

// BoxScore handles GET /matches/{id}/boxscore.
func (h *MatchHandler) BoxScore(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	box, err := h.svc.BoxScore(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, box)
}

// Replay handles POST /matches/{id}/replay, the consistency-check endpoint.
func (h *MatchHandler) Replay(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	result, err := h.svc.Replay(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// matchIDParam extracts and validates the match UUID from the URL.
func matchIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid match id")
	}
	return id, nil
}
