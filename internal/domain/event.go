package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates ledger event types.
type EventType string

const (
	EventGoal         EventType = "goal"
	EventPenaltyGoal  EventType = "penalty_goal"
	EventOwnGoal      EventType = "own_goal"
	EventYellowCard   EventType = "yellow_card"
	EventRedCard      EventType = "red_card"
	EventSubstitution EventType = "substitution"
	EventPeriodStart  EventType = "period_start"
	EventPeriodEnd    EventType = "period_end"
	EventMatchStart   EventType = "match_start"
	EventMatchEnd     EventType = "match_end"
	// EventScoreAdjustment is the compensating entry written by the
	// adjustScore command so the ledger stays replayable after an
	// administrative correction.
	EventScoreAdjustment EventType = "score_adjustment"
)

// IsGoal reports whether the event type changes the running score.
func (t EventType) IsGoal() bool {
	return t == EventGoal || t == EventPenaltyGoal || t == EventOwnGoal
}

// IsLifecycle reports whether the event marks a state-machine boundary
// rather than an on-pitch occurrence.
func (t EventType) IsLifecycle() bool {
	switch t {
	case EventPeriodStart, EventPeriodEnd, EventMatchStart, EventMatchEnd, EventScoreAdjustment:
		return true
	}
	return false
}

// MatchEvent is one append-only ledger entry. Corrections are modeled as new
// compensating events, never in-place mutation.
type MatchEvent struct {
	ID             uuid.UUID  `json:"id"`
	MatchID        uuid.UUID  `json:"match_id"`
	ChampionshipID uuid.UUID  `json:"championship_id"`
	Seq            int64      `json:"seq"`
	Type           EventType  `json:"type"`
	TeamID         *uuid.UUID `json:"team_id,omitempty"`
	PlayerID       *uuid.UUID `json:"player_id,omitempty"`
	// RelatedPlayerID carries the assist provider or the substituted-out
	// player, depending on Type.
	RelatedPlayerID *uuid.UUID `json:"related_player_id,omitempty"`
	Period          int        `json:"period"`
	Minute          int        `json:"minute"`
	ExtraMinute     int        `json:"extra_minute,omitempty"`
	// ScoreDelta is non-zero only for score_adjustment entries: the signed
	// correction applied to each side.
	HomeScoreDelta int       `json:"home_score_delta,omitempty"`
	AwayScoreDelta int       `json:"away_score_delta,omitempty"`
	Description    string    `json:"description,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderBefore reports ledger ordering: (period, minute, extraMinute, seq).
func (e *MatchEvent) OrderBefore(other *MatchEvent) bool {
	if e.Period != other.Period {
		return e.Period < other.Period
	}
	if e.Minute != other.Minute {
		return e.Minute < other.Minute
	}
	if e.ExtraMinute != other.ExtraMinute {
		return e.ExtraMinute < other.ExtraMinute
	}
	return e.Seq < other.Seq
}

// EventFilter narrows a ledger query.
type EventFilter struct {
	Types    []EventType
	TeamID   *uuid.UUID
	PlayerID *uuid.UUID
	Period   *int
}

// Matches reports whether the event passes the filter.
func (f EventFilter) Matches(e *MatchEvent) bool {
	if len(f.Types) > 0 {
		ok := false
		for _, t := range f.Types {
			if e.Type == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.TeamID != nil && (e.TeamID == nil || *e.TeamID != *f.TeamID) {
		return false
	}
	if f.PlayerID != nil && (e.PlayerID == nil || *e.PlayerID != *f.PlayerID) {
		return false
	}
	if f.Period != nil && e.Period != *f.Period {
		return false
	}
	return true
}
