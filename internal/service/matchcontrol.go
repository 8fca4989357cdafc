package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchday/platform/internal/boxscore"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/ledger"
	"github.com/matchday/platform/internal/match"
	"github.com/matchday/platform/internal/repository"
	"github.com/matchday/platform/internal/standings"
)

// Broadcaster pushes live updates to subscribed clients.
type Broadcaster interface {
	Publish(room string, event string, data interface{})
}

// MatchControl is the command API for match control. Commands against the
// same match are serialized by the row lock taken at the start of each
// transaction; commands against different matches proceed in parallel.
type MatchControl struct {
	pool       *pgxpool.Pool
	matches    repository.MatchRepository
	champs     repository.ChampionshipRepository
	outbox     repository.OutboxRepository
	ledger     *ledger.Engine
	recomputer *standings.Recomputer
	store      boxscore.Store
	hub        Broadcaster
	logger     *slog.Logger
}

// NewMatchControl creates the match control service.
func NewMatchControl(
	pool *pgxpool.Pool,
	matches repository.MatchRepository,
	champs repository.ChampionshipRepository,
	outbox repository.OutboxRepository,
	eng *ledger.Engine,
	recomputer *standings.Recomputer,
	store boxscore.Store,
	hub Broadcaster,
	logger *slog.Logger,
) *MatchControl {
	return &MatchControl{
		pool:       pool,
		matches:    matches,
		champs:     champs,
		outbox:     outbox,
		ledger:     eng,
		recomputer: recomputer,
		store:      store,
		hub:        hub,
		logger:     logger,
	}
}

// ApplyCommand runs one state-machine command against a match. On rejection
// the match is untouched and the InvalidTransition error names the current
// status and the attempted command. On success the transition, its lifecycle
// ledger events and the outbox draft are committed atomically.
func (s *MatchControl) ApplyCommand(ctx context.Context, matchID uuid.UUID, cmd domain.Command, p domain.CommandPayload) (*domain.Match, error) {
	var updated *domain.Match
	var fromStatus domain.MatchStatus

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		m, err := s.matches.LockForUpdate(ctx, tx, matchID)
		if err != nil {
			return fmt.Errorf("lock match: %w", err)
		}
		if m == nil {
			return domain.ErrNotFound("match", matchID.String())
		}
		fromStatus = m.Status

		cfg, err := s.champs.Config(ctx, tx, m.ChampionshipID)
		if err != nil {
			return err
		}

		next, events, err := match.Apply(m, cfg, cmd, p)
		if err != nil {
			return err
		}

		updated, err = s.matches.Update(ctx, tx, next)
		if err != nil {
			return fmt.Errorf("update match: %w", err)
		}

		var adjustment *domain.MatchEvent
		for _, ev := range events {
			stored, err := s.ledger.Record(ctx, tx, updated, ev)
			if err != nil {
				return err
			}
			if stored.Type == domain.EventScoreAdjustment {
				adjustment = stored
			}
		}

		if updated.Status != fromStatus {
			if err := s.outbox.Insert(ctx, tx, domain.NewMatchStatusChangedEvent(updated, fromStatus, cmd)); err != nil {
				return fmt.Errorf("insert outbox event: %w", err)
			}
		}
		if adjustment != nil {
			if err := s.outbox.Insert(ctx, tx, domain.NewScoreAdjustedEvent(updated, adjustment)); err != nil {
				return fmt.Errorf("insert outbox event: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(updated, "match.updated")
	s.maybeRecompute(updated, cmd)
	return updated, nil
}

// AppendEvent records one on-pitch event. Returns the stored ledger entry and
// the match with the score side effect applied.
func (s *MatchControl) AppendEvent(ctx context.Context, matchID uuid.UUID, ev domain.MatchEvent) (*domain.MatchEvent, *domain.Match, error) {
	var stored *domain.MatchEvent
	var updated *domain.Match
	var cfg domain.ChampionshipConfig

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		m, err := s.matches.LockForUpdate(ctx, tx, matchID)
		if err != nil {
			return fmt.Errorf("lock match: %w", err)
		}
		if m == nil {
			return domain.ErrNotFound("match", matchID.String())
		}

		cfg, err = s.champs.Config(ctx, tx, m.ChampionshipID)
		if err != nil {
			return err
		}
		roster, err := s.champs.MatchRoster(ctx, tx, m)
		if err != nil {
			return fmt.Errorf("load roster: %w", err)
		}

		stored, err = s.ledger.Append(ctx, tx, m, roster, cfg, ev)
		if err != nil {
			return err
		}

		updated, err = s.matches.Update(ctx, tx, m)
		if err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// fold the new event into the warm projection; a failed write falls
	// back to dropping the cache so the next read rebuilds from the ledger
	err = boxscore.ApplyEventToProjection(ctx, s.store, updated.Status,
		updated.HomeTeamID, updated.AwayTeamID, counterSchema(cfg), stored)
	if err != nil {
		s.logger.Warn("box score projection update failed", "match_id", matchID, "error", err)
		if err := boxscore.InvalidateProjection(ctx, s.store, matchID.String()); err != nil {
			s.logger.Warn("box score cache invalidation failed", "match_id", matchID, "error", err)
		}
	}
	s.broadcast(updated, "match.event")
	return stored, updated, nil
}

// AdvanceClock adds ticked seconds to a running match clock. Outside the
// live-with-clock-running states the tick is dropped and reported as a
// warning, never an error: a tick racing a pause is expected clock drift.
func (s *MatchControl) AdvanceClock(ctx context.Context, matchID uuid.UUID, seconds int) (bool, error) {
	var applied bool
	var updated *domain.Match

	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		m, err := s.matches.LockForUpdate(ctx, tx, matchID)
		if err != nil {
			return fmt.Errorf("lock match: %w", err)
		}
		if m == nil {
			return domain.ErrNotFound("match", matchID.String())
		}

		applied = match.AdvanceClock(m, seconds)
		if !applied {
			return nil
		}

		updated, err = s.matches.Update(ctx, tx, m)
		if err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if !applied {
		s.logger.Warn("clock tick dropped", "match_id", matchID, "seconds", seconds)
		return false, nil
	}
	s.broadcast(updated, "match.clock")
	return true, nil
}

// GetMatch returns one match.
func (s *MatchControl) GetMatch(ctx context.Context, matchID uuid.UUID) (*domain.Match, error) {
	m, err := s.matches.FindByID(ctx, s.pool, matchID)
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	if m == nil {
		return nil, domain.ErrNotFound("match", matchID.String())
	}
	return m, nil
}

// CreateFixture registers a new scheduled match. Both teams must belong to
// the championship's roster.
func (s *MatchControl) CreateFixture(ctx context.Context, championshipID uuid.UUID, group string, homeTeamID, awayTeamID uuid.UUID, scheduledAt time.Time, venue string) (*domain.Match, error) {
	champ, err := s.champs.FindByID(ctx, s.pool, championshipID)
	if err != nil {
		return nil, fmt.Errorf("find championship: %w", err)
	}
	if champ == nil {
		return nil, domain.ErrNotFound("championship", championshipID.String())
	}

	teams, err := s.champs.ListTeams(ctx, s.pool, championshipID, group)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	enrolled := make(map[uuid.UUID]bool, len(teams))
	for _, t := range teams {
		enrolled[t.ID] = true
	}
	if !enrolled[homeTeamID] {
		return nil, domain.ErrUnknownTeam(homeTeamID.String())
	}
	if !enrolled[awayTeamID] {
		return nil, domain.ErrUnknownTeam(awayTeamID.String())
	}

	m, err := domain.NewMatch(championshipID, homeTeamID, awayTeamID, scheduledAt)
	if err != nil {
		return nil, err
	}
	m.Group = group
	m.Venue = venue

	if err := s.matches.Create(ctx, s.pool, m); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return m, nil
}

// ListMatches returns a championship's fixtures, optionally filtered by group
// and status.
func (s *MatchControl) ListMatches(ctx context.Context, championshipID uuid.UUID, group string, status *domain.MatchStatus) ([]domain.Match, error) {
	return s.matches.ListByChampionship(ctx, s.pool, championshipID, group, status)
}

// ListEvents returns the ordered ledger of a match.
func (s *MatchControl) ListEvents(ctx context.Context, matchID uuid.UUID, filter domain.EventFilter) ([]domain.MatchEvent, error) {
	return s.ledger.ListEvents(ctx, s.pool, matchID, filter)
}

// BoxScore returns the match box score, from cache when fresh, rebuilt from
// the ledger otherwise. Rebuild and incremental accumulation share one
// reducer, so a cache miss can never change the numbers.
func (s *MatchControl) BoxScore(ctx context.Context, matchID uuid.UUID) (*boxscore.BoxScore, error) {
	if cached, err := boxscore.GetProjection(ctx, s.store, matchID.String()); err == nil {
		return cached.BoxScore, nil
	}

	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.champs.Config(ctx, s.pool, m.ChampionshipID)
	if err != nil {
		return nil, err
	}
	events, err := s.ledger.ListEvents(ctx, s.pool, matchID, domain.EventFilter{})
	if err != nil {
		return nil, err
	}

	box := boxscore.Rebuild(m.ID, m.HomeTeamID, m.AwayTeamID, counterSchema(cfg), events)

	if err := boxscore.UpdateProjection(ctx, s.store, m.Status, box); err != nil {
		s.logger.Warn("box score cache update failed", "match_id", matchID, "error", err)
	}
	return box, nil
}

// Replay folds the full ledger and checks it against the stored match row,
// the recovery/consistency-repair path.
func (s *MatchControl) Replay(ctx context.Context, matchID uuid.UUID) (*ledger.ReplayResult, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	events, err := s.ledger.ListEvents(ctx, s.pool, matchID, domain.EventFilter{})
	if err != nil {
		return nil, err
	}
	result := ledger.Replay(m, events)
	return &result, nil
}

// maybeRecompute triggers standings recomputation after a finalize or a
// correction to an already-finished match. The trigger runs detached: the
// recomputer's generation counter makes concurrent triggers safe, and the
// outbox gives the standings worker a durable retry path.
func (s *MatchControl) maybeRecompute(m *domain.Match, cmd domain.Command) {
	if s.recomputer == nil {
		return
	}
	finalized := m.Status == domain.StatusFinished
	if !finalized && cmd != domain.CmdAdjustScore {
		return
	}
	if cmd == domain.CmdAdjustScore && !finalized {
		return
	}
	go func() {
		if err := s.recomputer.Trigger(context.Background(), m.ChampionshipID, m.Group); err != nil {
			s.logger.Error("standings recomputation trigger failed",
				"championship_id", m.ChampionshipID, "group", m.Group, "error", err)
		}
	}()
}

// counterSchema resolves the sport's counter schema, defaulting to football.
func counterSchema(cfg domain.ChampionshipConfig) domain.CounterSchema {
	if cfg.Counters != nil {
		return cfg.Counters
	}
	return domain.FootballCounterSchema()
}

func (s *MatchControl) broadcast(m *domain.Match, event string) {
	if s.hub == nil || m == nil {
		return
	}
	s.hub.Publish("match:"+m.ID.String(), event, m)
}
