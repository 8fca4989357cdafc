package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/matchday/platform/internal/domain"
)

type matchRepo struct{}

// NewMatchRepository returns a pgx-backed MatchRepository.
func NewMatchRepository() MatchRepository {
	return &matchRepo{}
}

const matchColumns = `id, championship_id, group_label, home_team_id, away_team_id, status,
	       current_period, elapsed_seconds, clock_running, home_score, away_score,
	       period_scores, scheduled_at, venue, created_at, updated_at`

func (r *matchRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Match, error) {
	row := db.QueryRow(ctx, `
		SELECT `+matchColumns+`
		FROM matches WHERE id = $1`, id)
	return scanMatch(row)
}

func (r *matchRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Match, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+matchColumns+`
		FROM matches WHERE id = $1
		FOR UPDATE`, id)
	return scanMatch(row)
}

func (r *matchRepo) Create(ctx context.Context, db DBTX, m *domain.Match) error {
	periodScores, err := json.Marshal(m.PeriodScores)
	if err != nil {
		return fmt.Errorf("marshal period scores: %w", err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO matches
		  (id, championship_id, group_label, home_team_id, away_team_id, status,
		   current_period, elapsed_seconds, clock_running, home_score, away_score,
		   period_scores, scheduled_at, venue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.ID, m.ChampionshipID, m.Group, m.HomeTeamID, m.AwayTeamID, string(m.Status),
		m.CurrentPeriod, m.ElapsedSeconds, m.ClockRunning, m.HomeScore, m.AwayScore,
		periodScores, m.ScheduledAt, m.Venue,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (r *matchRepo) Update(ctx context.Context, db DBTX, m *domain.Match) (*domain.Match, error) {
	periodScores, err := json.Marshal(m.PeriodScores)
	if err != nil {
		return nil, fmt.Errorf("marshal period scores: %w", err)
	}
	row := db.QueryRow(ctx, `
		UPDATE matches
		SET status = $2, current_period = $3, elapsed_seconds = $4, clock_running = $5,
		    home_score = $6, away_score = $7, period_scores = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+matchColumns, m.ID, string(m.Status), m.CurrentPeriod, m.ElapsedSeconds,
		m.ClockRunning, m.HomeScore, m.AwayScore, periodScores)
	return scanMatch(row)
}

func (r *matchRepo) ListByChampionship(ctx context.Context, db DBTX, championshipID uuid.UUID, group string, status *domain.MatchStatus) ([]domain.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE championship_id = $1
		  AND ($2 = '' OR group_label = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY scheduled_at ASC, id ASC`
	statusArg := ""
	if status != nil {
		statusArg = string(*status)
	}

	rows, err := db.Query(ctx, query, championshipID, group, statusArg)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

func scanMatch(row pgx.Row) (*domain.Match, error) {
	var m domain.Match
	var status string
	var periodScores []byte
	err := row.Scan(&m.ID, &m.ChampionshipID, &m.Group, &m.HomeTeamID, &m.AwayTeamID, &status,
		&m.CurrentPeriod, &m.ElapsedSeconds, &m.ClockRunning, &m.HomeScore, &m.AwayScore,
		&periodScores, &m.ScheduledAt, &m.Venue, &m.CreatedAt, &m.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan match: %w", err)
	}
	m.Status = domain.MatchStatus(status)
	if len(periodScores) > 0 {
		if err := json.Unmarshal(periodScores, &m.PeriodScores); err != nil {
			return nil, fmt.Errorf("unmarshal period scores: %w", err)
		}
	}
	return &m, nil
}
