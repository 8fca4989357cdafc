package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/matchday/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// MatchRepository provides access to matches.
type MatchRepository interface {
	// FindByID returns a match by ID.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Match, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns
	// the match. This is the per-match single-writer serialization point.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Match, error)

	// Create inserts a new fixture.
	Create(ctx context.Context, db DBTX, m *domain.Match) error

	// Update persists the full mutable state of a match.
	Update(ctx context.Context, db DBTX, m *domain.Match) (*domain.Match, error)

	// ListByChampionship returns matches of a championship, optionally
	// scoped to a group and/or status. Ordered by scheduled time.
	ListByChampionship(ctx context.Context, db DBTX, championshipID uuid.UUID, group string, status *domain.MatchStatus) ([]domain.Match, error)
}

// EventRepository provides access to the append-only match_events ledger.
type EventRepository interface {
	// NextSeq returns the next per-match sequence number. Callers must hold
	// the match row lock so concurrent appends cannot collide.
	NextSeq(ctx context.Context, db DBTX, matchID uuid.UUID) (int64, error)

	// Insert appends one ledger entry. Returns the stored row.
	Insert(ctx context.Context, db DBTX, e *domain.MatchEvent) (*domain.MatchEvent, error)

	// ListByMatch returns the ledger ordered by
	// (period, minute, extra_minute, seq).
	ListByMatch(ctx context.Context, db DBTX, matchID uuid.UUID, filter domain.EventFilter) ([]domain.MatchEvent, error)
}

// ChampionshipRepository provides access to championships, teams and rosters.
type ChampionshipRepository interface {
	// FindByID returns a championship by ID.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Championship, error)

	// Config loads the championship's engine configuration.
	Config(ctx context.Context, db DBTX, championshipID uuid.UUID) (domain.ChampionshipConfig, error)

	// ListTeams returns the championship roster, optionally one group.
	ListTeams(ctx context.Context, db DBTX, championshipID uuid.UUID, group string) ([]domain.Team, error)

	// MatchRoster loads the two squads eligible for a match's ledger.
	MatchRoster(ctx context.Context, db DBTX, m *domain.Match) (*domain.Roster, error)
}

// StandingRepository provides access to the derived standings table.
type StandingRepository interface {
	// TableFor returns the published table ordered by position.
	TableFor(ctx context.Context, db DBTX, championshipID uuid.UUID, group string) ([]domain.Standing, error)

	// Replace atomically swaps the published table for a championship/group.
	// A failed replace must leave the prior table intact, so it always runs
	// inside one transaction.
	Replace(ctx context.Context, tx pgx.Tx, championshipID uuid.UUID, group string, rows []domain.Standing) error
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the
	// state change it describes).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublishedRows returns unpublished events for the poller.
	FetchUnpublishedRows(ctx context.Context, db DBTX, limit int) ([]OutboxRow, error)

	// MarkPublished removes published events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}

// OutboxRow is an outbox draft plus its poll cursor.
type OutboxRow struct {
	SeqID int64
	domain.OutboxDraft
}
