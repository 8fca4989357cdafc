package ledger

import (
	"sort"

	"github.com/google/uuid"

	"github.com/matchday/platform/internal/domain"
)

// ScoreState is the score-derived view of a ledger. Both the incremental
// path (one event at a time as appends arrive) and the rebuild path (full
// fold for recovery) go through the same ApplyScore reducer, so the two can
// never drift apart.
type ScoreState struct {
	HomeScore    int
	AwayScore    int
	PeriodScores []domain.PeriodScore
}

// ApplyScore folds one event into the state. Events that do not affect the
// score leave the state unchanged.
func ApplyScore(s ScoreState, homeTeamID uuid.UUID, e *domain.MatchEvent) ScoreState {
	switch {
	case e.Type.IsGoal():
		home := creditedToHome(homeTeamID, e)
		if home {
			s.HomeScore++
		} else {
			s.AwayScore++
		}
		s.PeriodScores = addPeriodGoal(s.PeriodScores, e.Period, home)
	case e.Type == domain.EventScoreAdjustment:
		s.HomeScore += e.HomeScoreDelta
		s.AwayScore += e.AwayScoreDelta
		s.PeriodScores = addPeriodDelta(s.PeriodScores, e.Period, e.HomeScoreDelta, e.AwayScoreDelta)
	}
	return s
}

// ReduceScore rebuilds the score state from a full ledger. The events are
// sorted into canonical ledger order first, so the fold is restartable from
// any stored sequence.
func ReduceScore(homeTeamID uuid.UUID, events []domain.MatchEvent) ScoreState {
	ordered := SortEvents(events)
	var s ScoreState
	for i := range ordered {
		s = ApplyScore(s, homeTeamID, &ordered[i])
	}
	return s
}

// SortEvents returns a copy in canonical (period, minute, extraMinute, seq)
// order.
func SortEvents(events []domain.MatchEvent) []domain.MatchEvent {
	ordered := make([]domain.MatchEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderBefore(&ordered[j])
	})
	return ordered
}

// creditedToHome resolves which side a goal event counts for. An own goal is
// recorded against the player's own team but credited to the opposition.
func creditedToHome(homeTeamID uuid.UUID, e *domain.MatchEvent) bool {
	byHome := e.TeamID != nil && *e.TeamID == homeTeamID
	if e.Type == domain.EventOwnGoal {
		return !byHome
	}
	return byHome
}

func addPeriodGoal(scores []domain.PeriodScore, period int, home bool) []domain.PeriodScore {
	if home {
		return addPeriodDelta(scores, period, 1, 0)
	}
	return addPeriodDelta(scores, period, 0, 1)
}

func addPeriodDelta(scores []domain.PeriodScore, period int, homeDelta, awayDelta int) []domain.PeriodScore {
	for i := range scores {
		if scores[i].Period == period {
			scores[i].HomeScore += homeDelta
			scores[i].AwayScore += awayDelta
			return scores
		}
	}
	return append(scores, domain.PeriodScore{Period: period, HomeScore: homeDelta, AwayScore: awayDelta})
}
