package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/matchday/platform/internal/domain"
)

type eventRepo struct{}

// NewEventRepository returns a pgx-backed EventRepository.
func NewEventRepository() EventRepository {
	return &eventRepo{}
}

const eventColumns = `id, match_id, championship_id, seq, type, team_id, player_id,
	       related_player_id, period, minute, extra_minute,
	       home_score_delta, away_score_delta, description, created_by, created_at`

// NextSeq is safe only while the caller holds the match row lock: the ledger
// is single-writer per match, so MAX+1 cannot race.
func (r *eventRepo) NextSeq(ctx context.Context, db DBTX, matchID uuid.UUID) (int64, error) {
	var seq int64
	err := db.QueryRow(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM match_events WHERE match_id = $1`,
		matchID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return seq, nil
}

func (r *eventRepo) Insert(ctx context.Context, db DBTX, e *domain.MatchEvent) (*domain.MatchEvent, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO match_events
		  (id, match_id, championship_id, seq, type, team_id, player_id,
		   related_player_id, period, minute, extra_minute,
		   home_score_delta, away_score_delta, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+eventColumns,
		e.ID, e.MatchID, e.ChampionshipID, e.Seq, string(e.Type), e.TeamID, e.PlayerID,
		e.RelatedPlayerID, e.Period, e.Minute, e.ExtraMinute,
		e.HomeScoreDelta, e.AwayScoreDelta, e.Description, e.CreatedBy,
	)
	return scanEvent(row)
}

func (r *eventRepo) ListByMatch(ctx context.Context, db DBTX, matchID uuid.UUID, filter domain.EventFilter) ([]domain.MatchEvent, error) {
	rows, err := db.Query(ctx, `
		SELECT `+eventColumns+`
		FROM match_events
		WHERE match_id = $1
		ORDER BY period ASC, minute ASC, extra_minute ASC, seq ASC`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.MatchEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		if filter.Matches(e) {
			events = append(events, *e)
		}
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*domain.MatchEvent, error) {
	var e domain.MatchEvent
	var typ string
	err := row.Scan(&e.ID, &e.MatchID, &e.ChampionshipID, &e.Seq, &typ, &e.TeamID, &e.PlayerID,
		&e.RelatedPlayerID, &e.Period, &e.Minute, &e.ExtraMinute,
		&e.HomeScoreDelta, &e.AwayScoreDelta, &e.Description, &e.CreatedBy, &e.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	e.Type = domain.EventType(typ)
	return &e, nil
}
