package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Validator Tests ---

func TestValidateMinute(t *testing.T) {
	tests := []struct {
		name        string
		minute      int
		extraMinute int
		wantErr     bool
	}{
		{"zero minute", 0, 0, false},
		{"regular minute", 43, 0, false},
		{"stoppage time", 45, 3, false},
		{"negative minute", -1, 0, true},
		{"negative extra minute", 90, -2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMinute(tt.minute, tt.extraMinute)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatePeriod(t *testing.T) {
	tests := []struct {
		name    string
		period  int
		ceiling int
		wantErr bool
	}{
		{"first period", 1, 4, false},
		{"at ceiling", 4, 4, false},
		{"above ceiling", 5, 4, true},
		{"zero period", 0, 4, true},
		{"no ceiling configured", 9, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriod(tt.period, tt.ceiling)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatePeriodCeilingError(t *testing.T) {
	err := ValidatePeriod(5, 4)
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "INVALID_PERIOD", appErr.Code)
	assert.Equal(t, 422, appErr.Status)
}

func TestValidateEvent(t *testing.T) {
	matchID := uuid.New()
	teamID := uuid.New()
	playerID := uuid.New()

	tests := []struct {
		name    string
		event   MatchEvent
		wantErr string
	}{
		{
			"valid goal",
			MatchEvent{MatchID: matchID, Type: EventGoal, TeamID: &teamID, PlayerID: &playerID, Minute: 12},
			"",
		},
		{
			"missing match id",
			MatchEvent{Type: EventGoal, TeamID: &teamID, PlayerID: &playerID},
			"match id is required",
		},
		{
			"missing type",
			MatchEvent{MatchID: matchID, TeamID: &teamID, PlayerID: &playerID},
			"event type is required",
		},
		{
			"goal without team",
			MatchEvent{MatchID: matchID, Type: EventGoal, PlayerID: &playerID},
			"requires a team",
		},
		{
			"card without player",
			MatchEvent{MatchID: matchID, Type: EventYellowCard, TeamID: &teamID},
			"requires a player",
		},
		{
			"lifecycle needs no participants",
			MatchEvent{MatchID: matchID, Type: EventPeriodStart, Period: 1},
			"",
		},
		{
			"zero-delta adjustment",
			MatchEvent{MatchID: matchID, Type: EventScoreAdjustment, Period: 1},
			"must change at least one side",
		},
		{
			"valid adjustment",
			MatchEvent{MatchID: matchID, Type: EventScoreAdjustment, Period: 1, HomeScoreDelta: -1},
			"",
		},
		{
			"negative minute",
			MatchEvent{MatchID: matchID, Type: EventGoal, TeamID: &teamID, PlayerID: &playerID, Minute: -5},
			"minute must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvent(&tt.event)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// --- Match Tests ---

func TestNewMatch(t *testing.T) {
	champID := uuid.New()
	home := uuid.New()
	away := uuid.New()
	kickoff := time.Now().Add(24 * time.Hour)

	m, err := NewMatch(champID, home, away, kickoff)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, m.Status)
	assert.Equal(t, 0, m.CurrentPeriod)
	assert.False(t, m.ClockRunning)
	assert.True(t, m.HasTeam(home))
	assert.True(t, m.HasTeam(away))
	assert.False(t, m.HasTeam(uuid.New()))
}

func TestNewMatchSameTeam(t *testing.T) {
	team := uuid.New()
	_, err := NewMatch(uuid.New(), team, team, time.Now())
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestMatchCloneIsDeep(t *testing.T) {
	m, err := NewMatch(uuid.New(), uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	m.PeriodScores = []PeriodScore{{Period: 1, HomeScore: 1}}

	cp := m.Clone()
	cp.HomeScore = 5
	cp.PeriodScores[0].HomeScore = 9

	assert.Equal(t, 0, m.HomeScore)
	assert.Equal(t, 1, m.PeriodScores[0].HomeScore)
}

func TestMatchStatusPredicates(t *testing.T) {
	assert.True(t, StatusFinished.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusPostponed.IsTerminal())
	assert.False(t, StatusLive.IsTerminal())
	assert.False(t, StatusSuspended.IsTerminal())

	assert.True(t, StatusLive.IsLive())
	assert.True(t, StatusOvertime.IsLive())
	assert.False(t, StatusHalftime.IsLive())
	assert.False(t, StatusPenalties.IsLive())
}

func TestMatchResultOnlyWhenFinished(t *testing.T) {
	m, err := NewMatch(uuid.New(), uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	m.HomeScore = 2
	m.AwayScore = 1

	assert.Nil(t, m.Result())

	m.Status = StatusFinished
	res := m.Result()
	require.NotNil(t, res)
	assert.Equal(t, 2, res.HomeScore)
	assert.Equal(t, 1, res.AwayScore)
	assert.Equal(t, m.ID, res.MatchID)
}

// --- Standing Tests ---

func TestRecordResult(t *testing.T) {
	rules := PointRules{Win: 3, Draw: 1, Loss: 0}
	var s Standing

	s.RecordResult(2, 1, OutcomeWin, rules)
	s.RecordResult(0, 0, OutcomeDraw, rules)
	s.RecordResult(1, 3, OutcomeLoss, rules)

	assert.Equal(t, 3, s.Played)
	assert.Equal(t, 1, s.Won)
	assert.Equal(t, 1, s.Drawn)
	assert.Equal(t, 1, s.Lost)
	assert.Equal(t, 4, s.Points)
	assert.Equal(t, 3, s.GoalsFor)
	assert.Equal(t, 4, s.GoalsAgainst)
	assert.Equal(t, []Outcome{OutcomeWin, OutcomeDraw, OutcomeLoss}, s.Form)
}

func TestRecordResultFormIsBounded(t *testing.T) {
	rules := PointRules{Win: 3, Draw: 1, Loss: 0}
	var s Standing

	for i := 0; i < FormLength+3; i++ {
		s.RecordResult(1, 0, OutcomeWin, rules)
	}
	s.RecordResult(0, 1, OutcomeLoss, rules)

	require.Len(t, s.Form, FormLength)
	assert.Equal(t, OutcomeLoss, s.Form[FormLength-1])
}

// --- Config Tests ---

func TestChampionshipConfigValidateForStandings(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ChampionshipConfig
		wantErr bool
	}{
		{"complete", DefaultFootballConfig(), false},
		{"missing points", ChampionshipConfig{Tiebreakers: []TiebreakCriterion{TiebreakPoints}}, true},
		{"empty cascade", ChampionshipConfig{Points: &PointRules{Win: 3, Draw: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateForStandings()
			if tt.wantErr {
				require.Error(t, err)
				var appErr *AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, "INCOMPLETE_CONFIGURATION", appErr.Code)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPeriodCeiling(t *testing.T) {
	cfg := ChampionshipConfig{RegulationPeriods: 2, MaxOvertimePeriods: 2}
	assert.Equal(t, 4, cfg.PeriodCeiling())

	assert.Equal(t, 0, ChampionshipConfig{}.PeriodCeiling())
}

// --- Event Tests ---

func TestEventTypePredicates(t *testing.T) {
	assert.True(t, EventGoal.IsGoal())
	assert.True(t, EventPenaltyGoal.IsGoal())
	assert.True(t, EventOwnGoal.IsGoal())
	assert.False(t, EventYellowCard.IsGoal())
	assert.False(t, EventScoreAdjustment.IsGoal())

	assert.True(t, EventMatchStart.IsLifecycle())
	assert.True(t, EventScoreAdjustment.IsLifecycle())
	assert.False(t, EventGoal.IsLifecycle())
	assert.False(t, EventSubstitution.IsLifecycle())
}

func TestEventOrderBefore(t *testing.T) {
	tests := []struct {
		name string
		a, b MatchEvent
		want bool
	}{
		{"earlier period", MatchEvent{Period: 1, Minute: 44}, MatchEvent{Period: 2, Minute: 1}, true},
		{"earlier minute", MatchEvent{Period: 1, Minute: 10}, MatchEvent{Period: 1, Minute: 30}, true},
		{"stoppage after regular", MatchEvent{Period: 1, Minute: 45}, MatchEvent{Period: 1, Minute: 45, ExtraMinute: 2}, true},
		{"seq breaks full tie", MatchEvent{Period: 1, Minute: 10, Seq: 3}, MatchEvent{Period: 1, Minute: 10, Seq: 4}, true},
		{"not before itself", MatchEvent{Period: 1, Minute: 10, Seq: 3}, MatchEvent{Period: 1, Minute: 10, Seq: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.OrderBefore(&tt.b))
		})
	}
}

func TestEventFilterMatches(t *testing.T) {
	teamID := uuid.New()
	playerID := uuid.New()
	period := 2

	goal := MatchEvent{Type: EventGoal, TeamID: &teamID, PlayerID: &playerID, Period: 2}

	assert.True(t, EventFilter{}.Matches(&goal))
	assert.True(t, EventFilter{Types: []EventType{EventGoal, EventOwnGoal}}.Matches(&goal))
	assert.False(t, EventFilter{Types: []EventType{EventRedCard}}.Matches(&goal))
	assert.True(t, EventFilter{TeamID: &teamID}.Matches(&goal))
	assert.True(t, EventFilter{PlayerID: &playerID, Period: &period}.Matches(&goal))

	other := uuid.New()
	assert.False(t, EventFilter{TeamID: &other}.Matches(&goal))

	lifecycle := MatchEvent{Type: EventPeriodStart, Period: 1}
	assert.False(t, EventFilter{TeamID: &teamID}.Matches(&lifecycle))
}

// --- Error Tests ---

func TestAppErrorCodes(t *testing.T) {
	invalid := ErrInvalidTransition(CmdPause, StatusScheduled)
	assert.Equal(t, "INVALID_TRANSITION", invalid.Code)
	assert.Equal(t, 409, invalid.Status)
	assert.Contains(t, invalid.Message, "pause")
	assert.Contains(t, invalid.Message, "scheduled")

	notFound := ErrNotFound("match", uuid.New().String())
	assert.Equal(t, 404, notFound.Status)

	conflict := ErrConflict("draws not allowed")
	assert.Equal(t, 409, conflict.Status)

	mismatch := ErrReferentialMismatch("player not on roster")
	assert.Equal(t, 422, mismatch.Status)
}

// --- Outbox Draft Tests ---

func TestNewMatchStatusChangedEvent(t *testing.T) {
	m, err := NewMatch(uuid.New(), uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)

	m.Status = StatusLive
	draft := NewMatchStatusChangedEvent(m, StatusScheduled, CmdStart)
	assert.Equal(t, OutboxMatchStatusChanged, draft.EventType)
	assert.Equal(t, AggregateMatch, draft.AggregateType)
	assert.Equal(t, m.ID.String(), draft.AggregateID)
	assert.Equal(t, m.ID.String(), draft.PartitionKey)

	m.Status = StatusFinished
	finished := NewMatchStatusChangedEvent(m, StatusLive, CmdFinish)
	assert.Equal(t, OutboxMatchFinished, finished.EventType)
}
