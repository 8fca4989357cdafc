package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchday/platform/internal/domain"
)

func goalEvent(seq int64, period, minute int, teamID uuid.UUID, typ domain.EventType) domain.MatchEvent {
	playerID := uuid.New()
	return domain.MatchEvent{
		ID:       uuid.New(),
		Seq:      seq,
		Type:     typ,
		TeamID:   &teamID,
		PlayerID: &playerID,
		Period:   period,
		Minute:   minute,
	}
}

func TestReduceScore(t *testing.T) {
	home := uuid.New()
	away := uuid.New()

	events := []domain.MatchEvent{
		goalEvent(1, 1, 12, home, domain.EventGoal),
		goalEvent(2, 1, 33, away, domain.EventPenaltyGoal),
		goalEvent(3, 2, 58, home, domain.EventGoal),
		goalEvent(4, 2, 80, home, domain.EventYellowCard), // no score effect
	}

	s := ReduceScore(home, events)
	assert.Equal(t, 2, s.HomeScore)
	assert.Equal(t, 1, s.AwayScore)
	require.Len(t, s.PeriodScores, 2)
	assert.Equal(t, domain.PeriodScore{Period: 1, HomeScore: 1, AwayScore: 1}, s.PeriodScores[0])
	assert.Equal(t, domain.PeriodScore{Period: 2, HomeScore: 1, AwayScore: 0}, s.PeriodScores[1])
}

func TestReduceScoreOwnGoalCreditsOpposition(t *testing.T) {
	home := uuid.New()
	away := uuid.New()

	// home defender puts it in his own net
	s := ReduceScore(home, []domain.MatchEvent{goalEvent(1, 1, 20, home, domain.EventOwnGoal)})
	assert.Equal(t, 0, s.HomeScore)
	assert.Equal(t, 1, s.AwayScore)

	// away defender likewise
	s = ReduceScore(home, []domain.MatchEvent{goalEvent(1, 1, 20, away, domain.EventOwnGoal)})
	assert.Equal(t, 1, s.HomeScore)
	assert.Equal(t, 0, s.AwayScore)
}

func TestReduceScoreAdjustment(t *testing.T) {
	home := uuid.New()
	away := uuid.New()

	events := []domain.MatchEvent{
		goalEvent(1, 1, 10, home, domain.EventGoal),
		goalEvent(2, 1, 30, home, domain.EventGoal),
		goalEvent(3, 2, 60, away, domain.EventGoal),
		{ID: uuid.New(), Seq: 4, Type: domain.EventScoreAdjustment, Period: 2, Minute: 90, HomeScoreDelta: -1},
	}

	s := ReduceScore(home, events)
	assert.Equal(t, 1, s.HomeScore)
	assert.Equal(t, 1, s.AwayScore)
	assert.Equal(t, domain.PeriodScore{Period: 2, HomeScore: -1, AwayScore: 1}, s.PeriodScores[1])
}

func TestReduceScoreIsOrderInsensitive(t *testing.T) {
	home := uuid.New()
	away := uuid.New()

	events := []domain.MatchEvent{
		goalEvent(3, 2, 58, home, domain.EventGoal),
		goalEvent(1, 1, 12, home, domain.EventGoal),
		goalEvent(2, 1, 33, away, domain.EventGoal),
	}

	s := ReduceScore(home, events)
	assert.Equal(t, 2, s.HomeScore)
	assert.Equal(t, 1, s.AwayScore)
	// canonical order restored before folding
	assert.Equal(t, 1, s.PeriodScores[0].Period)
	assert.Equal(t, 2, s.PeriodScores[1].Period)
}

func TestSortEvents(t *testing.T) {
	home := uuid.New()

	events := []domain.MatchEvent{
		goalEvent(5, 2, 50, home, domain.EventGoal),
		goalEvent(2, 1, 45, home, domain.EventGoal),
		{Seq: 3, Type: domain.EventGoal, Period: 1, Minute: 45, ExtraMinute: 2},
		goalEvent(1, 1, 10, home, domain.EventGoal),
	}

	ordered := SortEvents(events)
	require.Len(t, ordered, 4)
	assert.Equal(t, int64(1), ordered[0].Seq)
	assert.Equal(t, int64(2), ordered[1].Seq)
	assert.Equal(t, int64(3), ordered[2].Seq) // stoppage time after regular minute 45
	assert.Equal(t, int64(5), ordered[3].Seq)

	// input slice untouched
	assert.Equal(t, int64(5), events[0].Seq)
}

func TestApplyScoreIncrementalMatchesFold(t *testing.T) {
	home := uuid.New()
	away := uuid.New()

	events := []domain.MatchEvent{
		goalEvent(1, 1, 5, home, domain.EventGoal),
		goalEvent(2, 1, 22, away, domain.EventOwnGoal),
		goalEvent(3, 2, 47, away, domain.EventPenaltyGoal),
		{Seq: 4, Type: domain.EventScoreAdjustment, Period: 2, AwayScoreDelta: 1},
	}

	var incremental ScoreState
	for i := range events {
		incremental = ApplyScore(incremental, home, &events[i])
	}

	assert.Equal(t, ReduceScore(home, events), incremental)
}
