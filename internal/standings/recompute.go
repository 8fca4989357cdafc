package standings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// Recomputer rebuilds and publishes the standings table for a
// championship/group. Any transition into finished, and any adjustScore on an
// already-finished match, triggers a full recomputation: incremental standings
// updates are rejected by design because tiebreak cascades are not
// associative under deltas.
//
// Concurrency: single-writer per championship/group key (keyed mutex), with a
// monotonically increasing generation per key. A computation that was
// overtaken by a newer trigger discards its result instead of overwriting the
// newer table (last-trigger-wins).
type Recomputer struct {
	pool      *pgxpool.Pool
	champs    repository.ChampionshipRepository
	matches   repository.MatchRepository
	events    repository.EventRepository
	standings repository.StandingRepository
	outbox    repository.OutboxRepository
	logger    *slog.Logger

	mu    sync.Mutex
	gens  map[string]uint64
	locks map[string]*sync.Mutex
}

// NewRecomputer creates a standings recomputer.
func NewRecomputer(
	pool *pgxpool.Pool,
	champs repository.ChampionshipRepository,
	matches repository.MatchRepository,
	events repository.EventRepository,
	standings repository.StandingRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *Recomputer {
	return &Recomputer{
		pool:      pool,
		champs:    champs,
		matches:   matches,
		events:    events,
		standings: standings,
		outbox:    outbox,
		logger:    logger,
		gens:      make(map[string]uint64),
		locks:     make(map[string]*sync.Mutex),
	}
}

// Trigger recomputes and publishes the table for one championship/group.
// Failures leave the previously published table intact.
func (r *Recomputer) Trigger(ctx context.Context, championshipID uuid.UUID, group string) error {
	key := fmt.Sprintf("%s/%s", championshipID, group)
	gen := r.bump(key)

	lock := r.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	if r.latest(key) != gen {
		r.logger.Info("standings recomputation superseded", "key", key, "generation", gen)
		return nil
	}

	table, err := r.compute(ctx, championshipID, group)
	if err != nil {
		r.logger.Error("standings recomputation failed, prior table retained",
			"key", key, "generation", gen, "error", err)
		return err
	}

	// A newer trigger may have arrived while we were computing.
	if r.latest(key) != gen {
		r.logger.Info("standings recomputation stale, discarding", "key", key, "generation", gen)
		return nil
	}

	err = pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if err := r.standings.Replace(ctx, tx, championshipID, group, table); err != nil {
			return err
		}
		return r.outbox.Insert(ctx, tx, domain.NewStandingsRecomputedEvent(championshipID, group, gen, len(table)))
	})
	if err != nil {
		return fmt.Errorf("publish standings: %w", err)
	}

	r.logger.Info("standings published", "key", key, "generation", gen, "rows", len(table))
	return nil
}

func (r *Recomputer) compute(ctx context.Context, championshipID uuid.UUID, group string) ([]domain.Standing, error) {
	cfg, err := r.champs.Config(ctx, r.pool, championshipID)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	teams, err := r.champs.ListTeams(ctx, r.pool, championshipID, group)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	finished := domain.StatusFinished
	matches, err := r.matches.ListByChampionship(ctx, r.pool, championshipID, group, &finished)
	if err != nil {
		return nil, fmt.Errorf("list finished matches: %w", err)
	}

	results := make([]domain.MatchResult, 0, len(matches))
	for i := range matches {
		res := matches[i].Result()
		if res == nil {
			continue
		}
		if needsCards(cfg.Tiebreakers) {
			if err := r.countCards(ctx, &matches[i], res); err != nil {
				return nil, err
			}
		}
		results = append(results, *res)
	}

	previous, err := r.standings.TableFor(ctx, r.pool, championshipID, group)
	if err != nil {
		return nil, fmt.Errorf("load previous table: %w", err)
	}

	return Compute(championshipID, group, cfg, teams, results, previous)
}

// countCards fills the per-side card totals from the match ledger.
func (r *Recomputer) countCards(ctx context.Context, m *domain.Match, res *domain.MatchResult) error {
	events, err := r.events.ListByMatch(ctx, r.pool, m.ID, domain.EventFilter{
		Types: []domain.EventType{domain.EventYellowCard, domain.EventRedCard},
	})
	if err != nil {
		return fmt.Errorf("count cards for match %s: %w", m.ID, err)
	}
	for i := range events {
		if events[i].TeamID == nil {
			continue
		}
		switch *events[i].TeamID {
		case m.HomeTeamID:
			res.HomeCards++
		case m.AwayTeamID:
			res.AwayCards++
		}
	}
	return nil
}

func needsCards(cascade []domain.TiebreakCriterion) bool {
	for _, c := range cascade {
		if c == domain.TiebreakFewestCards {
			return true
		}
	}
	return false
}

func (r *Recomputer) bump(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[key]++
	return r.gens[key]
}

func (r *Recomputer) latest(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gens[key]
}

func (r *Recomputer) keyLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks[key] == nil {
		r.locks[key] = &sync.Mutex{}
	}
	return r.locks[key]
}
