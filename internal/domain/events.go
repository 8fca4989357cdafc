package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEventType enumerates the integration events written to the outbox.
type OutboxEventType string

const (
	OutboxMatchStatusChanged  OutboxEventType = "match.status.changed"
	OutboxMatchEventAppended  OutboxEventType = "match.event.appended"
	OutboxMatchFinished       OutboxEventType = "match.finished"
	OutboxScoreAdjusted       OutboxEventType = "match.score.adjusted"
	OutboxStandingsRecomputed OutboxEventType = "standings.recomputed"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateMatch        AggregateType = "match"
	AggregateChampionship AggregateType = "championship"
)

// OutboxDraft is the payload written to the event_outbox table, in the same
// transaction as the state change it describes.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     OutboxEventType `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// NewMatchStatusChangedEvent records a state-machine transition. Transitions
// into finished get the dedicated match.finished type so downstream standings
// recomputation can subscribe narrowly.
func NewMatchStatusChangedEvent(m *Match, from MatchStatus, cmd Command) OutboxDraft {
	evtType := OutboxMatchStatusChanged
	if m.Status == StatusFinished {
		evtType = OutboxMatchFinished
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"match_id":        m.ID.String(),
		"championship_id": m.ChampionshipID.String(),
		"group":           m.Group,
		"command":         string(cmd),
		"from":            string(from),
		"to":              string(m.Status),
		"home_score":      m.HomeScore,
		"away_score":      m.AwayScore,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateMatch,
		AggregateID:   m.ID.String(),
		EventType:     evtType,
		PartitionKey:  m.ID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewMatchEventAppendedEvent records a ledger append.
func NewMatchEventAppendedEvent(e *MatchEvent) OutboxDraft {
	payload, _ := json.Marshal(e)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateMatch,
		AggregateID:   e.MatchID.String(),
		EventType:     OutboxMatchEventAppended,
		PartitionKey:  e.MatchID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewScoreAdjustedEvent records an administrative score correction. Emitted
// in addition to the compensating ledger entry so finished-match corrections
// can retrigger standings.
func NewScoreAdjustedEvent(m *Match, payloadEvent *MatchEvent) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"match_id":        m.ID.String(),
		"championship_id": m.ChampionshipID.String(),
		"group":           m.Group,
		"status":          string(m.Status),
		"home_score":      m.HomeScore,
		"away_score":      m.AwayScore,
		"ledger_event_id": payloadEvent.ID.String(),
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateMatch,
		AggregateID:   m.ID.String(),
		EventType:     OutboxScoreAdjusted,
		PartitionKey:  m.ID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewStandingsRecomputedEvent records a published standings table.
func NewStandingsRecomputedEvent(championshipID uuid.UUID, group string, generation uint64, rows int) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"championship_id": championshipID.String(),
		"group":           group,
		"generation":      generation,
		"rows":            rows,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateChampionship,
		AggregateID:   championshipID.String(),
		EventType:     OutboxStandingsRecomputed,
		PartitionKey:  championshipID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
