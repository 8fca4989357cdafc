package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchday/platform/internal/domain"
)

func replayMatch(t *testing.T) *domain.Match {
	t.Helper()
	m, err := domain.NewMatch(uuid.New(), uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	return m
}

func findCheck(t *testing.T, result ReplayResult, name string) InvariantCheck {
	t.Helper()
	for _, c := range result.Invariants {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("invariant %s not found", name)
	return InvariantCheck{}
}

func TestReplayConsistentLedger(t *testing.T) {
	m := replayMatch(t)
	m.HomeScore = 2
	m.AwayScore = 1
	m.PeriodScores = []domain.PeriodScore{
		{Period: 1, HomeScore: 1, AwayScore: 1},
		{Period: 2, HomeScore: 1, AwayScore: 0},
	}

	events := []domain.MatchEvent{
		goalEvent(1, 1, 10, m.HomeTeamID, domain.EventGoal),
		goalEvent(2, 1, 40, m.AwayTeamID, domain.EventGoal),
		goalEvent(3, 2, 70, m.HomeTeamID, domain.EventGoal),
	}

	result := Replay(m, events)
	assert.True(t, result.AllPassed)
	assert.Equal(t, 3, result.EventCount)
	assert.Equal(t, 2, result.Rebuilt.HomeScore)
	for _, c := range result.Invariants {
		assert.True(t, c.Passed, "invariant %s: %s", c.Name, c.Detail)
	}
}

// An adjustment issued before kickoff is stamped period 1 and the match row
// carries a matching period 1 entry; replay must treat such a ledger as
// healthy.
func TestReplayPreStartAdjustment(t *testing.T) {
	m := replayMatch(t)
	m.HomeScore = 2
	m.PeriodScores = []domain.PeriodScore{{Period: 1, HomeScore: 2, AwayScore: 0}}

	adjustment := domain.MatchEvent{
		MatchID:        m.ID,
		Seq:            1,
		Type:           domain.EventScoreAdjustment,
		Period:         1,
		HomeScoreDelta: 2,
	}

	result := Replay(m, []domain.MatchEvent{adjustment})
	assert.True(t, result.AllPassed)
	check := findCheck(t, result, "period_score_reconstruction")
	assert.True(t, check.Passed, check.Detail)
	assert.Equal(t, 2, result.Rebuilt.HomeScore)
}

func TestReplayToleratesScorelessOpenedPeriods(t *testing.T) {
	m := replayMatch(t)
	m.HomeScore = 1
	// second half opened but no goals yet
	m.PeriodScores = []domain.PeriodScore{
		{Period: 1, HomeScore: 1},
		{Period: 2},
	}

	events := []domain.MatchEvent{
		goalEvent(1, 1, 30, m.HomeTeamID, domain.EventGoal),
	}

	result := Replay(m, events)
	assert.True(t, result.AllPassed)
}

func TestReplayDetectsScoreDrift(t *testing.T) {
	m := replayMatch(t)
	m.HomeScore = 3 // ledger only supports 1

	events := []domain.MatchEvent{
		goalEvent(1, 1, 30, m.HomeTeamID, domain.EventGoal),
	}
	m.PeriodScores = []domain.PeriodScore{{Period: 1, HomeScore: 1}}

	result := Replay(m, events)
	assert.False(t, result.AllPassed)
	check := findCheck(t, result, "score_reconstruction")
	assert.False(t, check.Passed)
	assert.Contains(t, check.Detail, "match=3-0")
}

func TestReplayDetectsPeriodScoreDrift(t *testing.T) {
	m := replayMatch(t)
	m.HomeScore = 1
	m.PeriodScores = []domain.PeriodScore{{Period: 1, HomeScore: 0, AwayScore: 1}}

	events := []domain.MatchEvent{
		goalEvent(1, 1, 30, m.HomeTeamID, domain.EventGoal),
	}

	result := Replay(m, events)
	check := findCheck(t, result, "period_score_reconstruction")
	assert.False(t, check.Passed)
}

func TestReplayDetectsSequenceGap(t *testing.T) {
	m := replayMatch(t)
	m.HomeScore = 2
	m.PeriodScores = []domain.PeriodScore{{Period: 1, HomeScore: 2}}

	events := []domain.MatchEvent{
		goalEvent(1, 1, 10, m.HomeTeamID, domain.EventGoal),
		goalEvent(3, 1, 20, m.HomeTeamID, domain.EventGoal), // seq 2 missing
	}

	result := Replay(m, events)
	check := findCheck(t, result, "sequence_integrity")
	assert.False(t, check.Passed)
}

func TestReplayDetectsDuplicateSequence(t *testing.T) {
	m := replayMatch(t)
	m.HomeScore = 2
	m.PeriodScores = []domain.PeriodScore{{Period: 1, HomeScore: 2}}

	events := []domain.MatchEvent{
		goalEvent(1, 1, 10, m.HomeTeamID, domain.EventGoal),
		goalEvent(1, 1, 20, m.HomeTeamID, domain.EventGoal),
	}

	result := Replay(m, events)
	check := findCheck(t, result, "sequence_integrity")
	assert.False(t, check.Passed)
	assert.Contains(t, check.Detail, "duplicate")
}

func TestReplayDetectsPeriodRegression(t *testing.T) {
	m := replayMatch(t)
	m.HomeScore = 2
	m.PeriodScores = []domain.PeriodScore{
		{Period: 1, HomeScore: 1},
		{Period: 2, HomeScore: 1},
	}

	events := []domain.MatchEvent{
		goalEvent(1, 2, 50, m.HomeTeamID, domain.EventGoal),
		goalEvent(2, 1, 10, m.HomeTeamID, domain.EventGoal), // period moved backwards
	}

	result := Replay(m, events)
	check := findCheck(t, result, "period_monotonicity")
	assert.False(t, check.Passed)
}

func TestReplayEmptyLedger(t *testing.T) {
	m := replayMatch(t)
	result := Replay(m, nil)
	assert.True(t, result.AllPassed)
	assert.Equal(t, 0, result.EventCount)
}
