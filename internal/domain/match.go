package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus enumerates the match lifecycle states.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusWarmup    MatchStatus = "warmup"
	StatusLive      MatchStatus = "live"
	StatusHalftime  MatchStatus = "halftime"
	StatusBreak     MatchStatus = "break"
	StatusOvertime  MatchStatus = "overtime"
	StatusPenalties MatchStatus = "penalties"
	StatusSuspended MatchStatus = "suspended"
	StatusPostponed MatchStatus = "postponed"
	StatusCancelled MatchStatus = "cancelled"
	StatusFinished  MatchStatus = "finished"
)

// IsTerminal reports whether no further command-driven transition is possible.
func (s MatchStatus) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled || s == StatusPostponed
}

// IsLive reports whether the match clock is allowed to run in this state.
func (s MatchStatus) IsLive() bool {
	return s == StatusLive || s == StatusOvertime
}

// PeriodScore is one entry of the per-period score sequence.
type PeriodScore struct {
	Period    int `json:"period"`
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

// Match represents a fixture between two teams within a championship.
// Mutated exclusively through state-machine commands; the running score is
// always reconstructible by replaying the event ledger.
type Match struct {
	ID             uuid.UUID     `json:"id"`
	ChampionshipID uuid.UUID     `json:"championship_id"`
	Group          string        `json:"group,omitempty"`
	HomeTeamID     uuid.UUID     `json:"home_team_id"`
	AwayTeamID     uuid.UUID     `json:"away_team_id"`
	Status         MatchStatus   `json:"status"`
	CurrentPeriod  int           `json:"current_period"`
	ElapsedSeconds int           `json:"elapsed_seconds"`
	ClockRunning   bool          `json:"clock_running"`
	HomeScore      int           `json:"home_score"`
	AwayScore      int           `json:"away_score"`
	PeriodScores   []PeriodScore `json:"period_scores"`
	ScheduledAt    time.Time     `json:"scheduled_at"`
	Venue          string        `json:"venue,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewMatch creates a fixture in the scheduled state.
func NewMatch(championshipID, homeTeamID, awayTeamID uuid.UUID, scheduledAt time.Time) (*Match, error) {
	if homeTeamID == awayTeamID {
		return nil, ErrValidation("a team cannot play itself")
	}
	return &Match{
		ID:             uuid.New(),
		ChampionshipID: championshipID,
		HomeTeamID:     homeTeamID,
		AwayTeamID:     awayTeamID,
		Status:         StatusScheduled,
		ScheduledAt:    scheduledAt,
	}, nil
}

// HasTeam reports whether teamID is one of the two sides of the match.
func (m *Match) HasTeam(teamID uuid.UUID) bool {
	return teamID == m.HomeTeamID || teamID == m.AwayTeamID
}

// Clone returns a deep copy, so a rejected command can never leak partial
// mutation back to the caller.
func (m *Match) Clone() *Match {
	cp := *m
	cp.PeriodScores = make([]PeriodScore, len(m.PeriodScores))
	copy(cp.PeriodScores, m.PeriodScores)
	return &cp
}

// MatchResult is the finalized outcome consumed by the standings engine.
// Card counts are filled from the ledger only when the tiebreak cascade
// needs them.
type MatchResult struct {
	MatchID    uuid.UUID
	HomeTeamID uuid.UUID
	AwayTeamID uuid.UUID
	Group      string
	HomeScore  int
	AwayScore  int
	HomeCards  int
	AwayCards  int
	FinishedAt time.Time
}

// Result projects a finished match into a MatchResult. Returns nil for any
// other status.
func (m *Match) Result() *MatchResult {
	if m.Status != StatusFinished {
		return nil
	}
	return &MatchResult{
		MatchID:    m.ID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		Group:      m.Group,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		FinishedAt: m.UpdatedAt,
	}
}
