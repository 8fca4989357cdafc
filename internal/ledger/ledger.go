package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// Engine provides the append-only match event ledger:
//  1. Append: validated on-pitch event, with the score side effect
//  2. Record: state-machine lifecycle event, score already applied
//  3. ListEvents: the ordered, restartable ledger read path
type Engine struct {
	events repository.EventRepository
	outbox repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(events repository.EventRepository, outbox repository.OutboxRepository) *Engine {
	return &Engine{events: events, outbox: outbox}
}

// Append validates and stores one on-pitch event against a match the caller
// has locked. Goal-type events additionally advance the match's running score
// and the active period entry; the caller persists the match afterwards, in
// the same transaction. Lifecycle types are rejected here; they only enter
// the ledger through state-machine commands.
func (e *Engine) Append(ctx context.Context, tx pgx.Tx, m *domain.Match, roster *domain.Roster, cfg domain.ChampionshipConfig, ev domain.MatchEvent) (*domain.MatchEvent, error) {
	if ev.Type.IsLifecycle() {
		return nil, domain.ErrValidation(fmt.Sprintf("event type %s can only be produced by a match command", ev.Type))
	}
	if m.Status.IsTerminal() {
		return nil, domain.ErrConflict(fmt.Sprintf("match %s is %s; use adjustScore for corrections", m.ID, m.Status))
	}
	if ev.MatchID == uuid.Nil {
		ev.MatchID = m.ID
	}
	if ev.MatchID != m.ID {
		return nil, domain.ErrValidation("event match id does not match the target match")
	}
	ev.ChampionshipID = m.ChampionshipID
	if ev.Period == 0 {
		ev.Period = m.CurrentPeriod
	}

	if err := domain.ValidateEvent(&ev); err != nil {
		return nil, asDomainError(err)
	}
	if err := domain.ValidatePeriod(ev.Period, cfg.PeriodCeiling()); err != nil {
		return nil, asDomainError(err)
	}
	if err := checkRoster(roster, &ev); err != nil {
		return nil, err
	}

	stored, err := e.store(ctx, tx, &ev)
	if err != nil {
		return nil, err
	}

	if ev.Type.IsGoal() {
		applyGoalToMatch(m, stored)
	}
	return stored, nil
}

// Record stores a lifecycle event emitted by the state machine. The match
// state was already advanced by the transition, so no score side effect is
// applied here.
func (e *Engine) Record(ctx context.Context, tx pgx.Tx, m *domain.Match, ev domain.MatchEvent) (*domain.MatchEvent, error) {
	ev.MatchID = m.ID
	ev.ChampionshipID = m.ChampionshipID
	return e.store(ctx, tx, &ev)
}

// ListEvents returns the match ledger in canonical order, optionally
// filtered. The sequence is finite and restartable: re-running the query
// yields the same prefix plus any newer appends.
func (e *Engine) ListEvents(ctx context.Context, db repository.DBTX, matchID uuid.UUID, filter domain.EventFilter) ([]domain.MatchEvent, error) {
	events, err := e.events.ListByMatch(ctx, db, matchID, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// store assigns the sequence number, inserts the row and writes the outbox
// draft, all within the caller's transaction.
func (e *Engine) store(ctx context.Context, tx pgx.Tx, ev *domain.MatchEvent) (*domain.MatchEvent, error) {
	seq, err := e.events.NextSeq(ctx, tx, ev.MatchID)
	if err != nil {
		return nil, fmt.Errorf("next seq: %w", err)
	}
	ev.Seq = seq
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	stored, err := e.events.Insert(ctx, tx, ev)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewMatchEventAppendedEvent(stored)); err != nil {
		return nil, fmt.Errorf("insert outbox event: %w", err)
	}
	return stored, nil
}

// checkRoster enforces referential integrity: the event's team must be one
// of the match's two sides and every named player must be rostered on it.
func checkRoster(roster *domain.Roster, ev *domain.MatchEvent) error {
	if ev.TeamID == nil {
		return nil
	}
	if !roster.HasTeam(*ev.TeamID) {
		return domain.ErrReferentialMismatch(fmt.Sprintf("team %s is not playing this match", ev.TeamID))
	}
	if ev.PlayerID != nil && !roster.PlayerOn(*ev.TeamID, *ev.PlayerID) {
		return domain.ErrReferentialMismatch(fmt.Sprintf("player %s is not rostered for team %s", ev.PlayerID, ev.TeamID))
	}
	if ev.RelatedPlayerID != nil && !roster.PlayerOn(*ev.TeamID, *ev.RelatedPlayerID) {
		return domain.ErrReferentialMismatch(fmt.Sprintf("related player %s is not rostered for team %s", ev.RelatedPlayerID, ev.TeamID))
	}
	return nil
}

// applyGoalToMatch is the incremental arm of the score reducer: the same
// delta ReduceScore would produce for this event, applied in place.
func applyGoalToMatch(m *domain.Match, ev *domain.MatchEvent) {
	home := creditedToHome(m.HomeTeamID, ev)
	if home {
		m.HomeScore++
	} else {
		m.AwayScore++
	}
	m.PeriodScores = addPeriodGoal(m.PeriodScores, ev.Period, home)
}

func asDomainError(err error) error {
	if _, ok := err.(*domain.AppError); ok {
		return err
	}
	return domain.ErrValidation(err.Error())
}
