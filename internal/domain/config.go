package domain

// PointRules holds the per-outcome point values for a championship.
type PointRules struct {
	Win  int `json:"win"`
	Draw int `json:"draw"`
	Loss int `json:"loss"`
}

// TiebreakCriterion names one step of the standings tiebreak cascade.
type TiebreakCriterion string

const (
	TiebreakPoints         TiebreakCriterion = "points"
	TiebreakGoalDifference TiebreakCriterion = "goal_difference"
	TiebreakGoalsFor       TiebreakCriterion = "goals_for"
	TiebreakWins           TiebreakCriterion = "wins"
	TiebreakHeadToHead     TiebreakCriterion = "head_to_head"
	TiebreakFewestCards    TiebreakCriterion = "fewest_cards"
)

// CounterScope says which participant a counter delta applies to.
type CounterScope string

const (
	ScopePlayer        CounterScope = "player"
	ScopeRelatedPlayer CounterScope = "related_player"
	ScopeTeam          CounterScope = "team"
	// ScopeOpposingTeam credits the other side, used for own goals.
	ScopeOpposingTeam CounterScope = "opposing_team"
)

// CounterDelta is one box-score increment triggered by an event type.
type CounterDelta struct {
	Counter string       `json:"counter"`
	Scope   CounterScope `json:"scope"`
	Delta   int          `json:"delta"`
}

// CounterSchema maps event types to the box-score deltas they produce.
// The counter set is configuration-driven per sport, not hardcoded.
type CounterSchema map[EventType][]CounterDelta

// ChampionshipConfig is the externally supplied per-championship
// configuration. It is passed explicitly into each engine call so
// recomputation stays deterministic and testable in isolation.
type ChampionshipConfig struct {
	Points             *PointRules         `json:"points"`
	AllowDraws         bool                `json:"allow_draws"`
	Tiebreakers        []TiebreakCriterion `json:"tiebreakers"`
	RegulationPeriods  int                 `json:"regulation_periods"`
	MaxOvertimePeriods int                 `json:"max_overtime_periods"`
	Counters           CounterSchema       `json:"counters,omitempty"`
}

// PeriodCeiling is the highest period number a ledger event may carry.
func (c ChampionshipConfig) PeriodCeiling() int {
	return c.RegulationPeriods + c.MaxOvertimePeriods
}

// ValidateForStandings checks the settings the standings engine depends on.
func (c ChampionshipConfig) ValidateForStandings() error {
	if c.Points == nil {
		return ErrIncompleteConfiguration("point rules are unset")
	}
	if len(c.Tiebreakers) == 0 {
		return ErrIncompleteConfiguration("tiebreak cascade is unset")
	}
	return nil
}

// DefaultFootballConfig returns the conventional association-football setup.
func DefaultFootballConfig() ChampionshipConfig {
	return ChampionshipConfig{
		Points:             &PointRules{Win: 3, Draw: 1, Loss: 0},
		AllowDraws:         true,
		Tiebreakers:        []TiebreakCriterion{TiebreakPoints, TiebreakGoalDifference, TiebreakGoalsFor},
		RegulationPeriods:  2,
		MaxOvertimePeriods: 2,
		Counters:           FootballCounterSchema(),
	}
}

// FootballCounterSchema is the stock football box-score schema.
func FootballCounterSchema() CounterSchema {
	return CounterSchema{
		EventGoal: {
			{Counter: "goals", Scope: ScopePlayer, Delta: 1},
			{Counter: "goals", Scope: ScopeTeam, Delta: 1},
			{Counter: "assists", Scope: ScopeRelatedPlayer, Delta: 1},
		},
		EventPenaltyGoal: {
			{Counter: "goals", Scope: ScopePlayer, Delta: 1},
			{Counter: "penalty_goals", Scope: ScopePlayer, Delta: 1},
			{Counter: "goals", Scope: ScopeTeam, Delta: 1},
		},
		EventOwnGoal: {
			{Counter: "own_goals", Scope: ScopePlayer, Delta: 1},
			{Counter: "goals", Scope: ScopeOpposingTeam, Delta: 1},
		},
		EventYellowCard: {
			{Counter: "yellow_cards", Scope: ScopePlayer, Delta: 1},
			{Counter: "yellow_cards", Scope: ScopeTeam, Delta: 1},
		},
		EventRedCard: {
			{Counter: "red_cards", Scope: ScopePlayer, Delta: 1},
			{Counter: "red_cards", Scope: ScopeTeam, Delta: 1},
		},
		EventSubstitution: {
			{Counter: "appearances", Scope: ScopePlayer, Delta: 1},
		},
	}
}
