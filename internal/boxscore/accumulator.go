package boxscore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/ledger"
)

// Counters is a named counter bag (goals, assists, yellow_cards, ...). The
// counter set comes from the sport's configured schema, never from struct
// fields.
type Counters map[string]int

// BoxScore holds the per-team and per-player counters for one match.
type BoxScore struct {
	MatchID uuid.UUID              `json:"match_id"`
	Teams   map[uuid.UUID]Counters `json:"teams"`
	Players map[uuid.UUID]Counters `json:"players"`
}

// Accumulator maintains a box score incrementally as ledger appends arrive.
// Deltas are commutative per key, so concurrent ApplyEvent calls for
// distinct players/teams only contend on the map mutex, never on ordering.
type Accumulator struct {
	mu         sync.Mutex
	schema     domain.CounterSchema
	homeTeamID uuid.UUID
	awayTeamID uuid.UUID
	box        *BoxScore
}

// NewAccumulator creates an empty accumulator for a match.
func NewAccumulator(matchID, homeTeamID, awayTeamID uuid.UUID, schema domain.CounterSchema) *Accumulator {
	return &Accumulator{
		schema:     schema,
		homeTeamID: homeTeamID,
		awayTeamID: awayTeamID,
		box: &BoxScore{
			MatchID: matchID,
			Teams:   make(map[uuid.UUID]Counters),
			Players: make(map[uuid.UUID]Counters),
		},
	}
}

// Resume wraps a previously built box score so later appends keep
// accumulating onto it instead of rescanning the ledger.
func Resume(box *BoxScore, homeTeamID, awayTeamID uuid.UUID, schema domain.CounterSchema) *Accumulator {
	if box.Teams == nil {
		box.Teams = make(map[uuid.UUID]Counters)
	}
	if box.Players == nil {
		box.Players = make(map[uuid.UUID]Counters)
	}
	return &Accumulator{
		schema:     schema,
		homeTeamID: homeTeamID,
		awayTeamID: awayTeamID,
		box:        box,
	}
}

// ApplyEvent folds one ledger event into the counters. Event types absent
// from the schema are ignored; the ledger remains the source of truth, so
// skipping here loses nothing that a rebuild cannot recover.
func (a *Accumulator) ApplyEvent(e *domain.MatchEvent) {
	deltas, ok := a.schema[e.Type]
	if !ok {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, d := range deltas {
		a.applyDelta(e, d)
	}
}

func (a *Accumulator) applyDelta(e *domain.MatchEvent, d domain.CounterDelta) {
	switch d.Scope {
	case domain.ScopePlayer:
		if e.PlayerID != nil {
			bump(a.box.Players, *e.PlayerID, d.Counter, d.Delta)
		}
	case domain.ScopeRelatedPlayer:
		if e.RelatedPlayerID != nil {
			bump(a.box.Players, *e.RelatedPlayerID, d.Counter, d.Delta)
		}
	case domain.ScopeTeam:
		if e.TeamID != nil {
			bump(a.box.Teams, *e.TeamID, d.Counter, d.Delta)
		}
	case domain.ScopeOpposingTeam:
		if e.TeamID != nil {
			bump(a.box.Teams, a.opponent(*e.TeamID), d.Counter, d.Delta)
		}
	}
}

func (a *Accumulator) opponent(teamID uuid.UUID) uuid.UUID {
	if teamID == a.homeTeamID {
		return a.awayTeamID
	}
	return a.homeTeamID
}

// Snapshot returns a deep copy of the current box score.
func (a *Accumulator) Snapshot() *BoxScore {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := &BoxScore{
		MatchID: a.box.MatchID,
		Teams:   make(map[uuid.UUID]Counters, len(a.box.Teams)),
		Players: make(map[uuid.UUID]Counters, len(a.box.Players)),
	}
	for id, c := range a.box.Teams {
		cp.Teams[id] = cloneCounters(c)
	}
	for id, c := range a.box.Players {
		cp.Players[id] = cloneCounters(c)
	}
	return cp
}

// Rebuild recomputes a box score from the full ledger. It runs the exact
// same reducer as the incremental path, so the two must produce identical
// counters for any ledger. This is the recovery path.
func Rebuild(matchID, homeTeamID, awayTeamID uuid.UUID, schema domain.CounterSchema, events []domain.MatchEvent) *BoxScore {
	acc := NewAccumulator(matchID, homeTeamID, awayTeamID, schema)
	ordered := ledger.SortEvents(events)
	for i := range ordered {
		acc.ApplyEvent(&ordered[i])
	}
	return acc.Snapshot()
}

func bump(m map[uuid.UUID]Counters, id uuid.UUID, counter string, delta int) {
	c, ok := m[id]
	if !ok {
		c = make(Counters)
		m[id] = c
	}
	c[counter] += delta
}

func cloneCounters(c Counters) Counters {
	cp := make(Counters, len(c))
	for k, v := range c {
		cp[k] = v
	}
	return cp
}
