package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/matchday/platform/internal/domain"
)

type standingRepo struct{}

// NewStandingRepository returns a pgx-backed StandingRepository.
func NewStandingRepository() StandingRepository {
	return &standingRepo{}
}

func (r *standingRepo) TableFor(ctx context.Context, db DBTX, championshipID uuid.UUID, group string) ([]domain.Standing, error) {
	rows, err := db.Query(ctx, `
		SELECT championship_id, team_id, group_label, position, previous_position,
		       played, won, drawn, lost, goals_for, goals_against, goal_difference,
		       points, form, cards_against, updated_at
		FROM standings
		WHERE championship_id = $1 AND group_label = $2
		ORDER BY position ASC`, championshipID, group)
	if err != nil {
		return nil, fmt.Errorf("load standings: %w", err)
	}
	defer rows.Close()

	var table []domain.Standing
	for rows.Next() {
		s, err := scanStanding(rows)
		if err != nil {
			return nil, err
		}
		table = append(table, *s)
	}
	return table, rows.Err()
}

// Replace swaps the published table inside the caller's transaction, so a
// failure can never leave a partial table behind.
func (r *standingRepo) Replace(ctx context.Context, tx pgx.Tx, championshipID uuid.UUID, group string, table []domain.Standing) error {
	_, err := tx.Exec(ctx, `
		DELETE FROM standings WHERE championship_id = $1 AND group_label = $2`,
		championshipID, group)
	if err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}

	for i := range table {
		s := &table[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO standings
			  (championship_id, team_id, group_label, position, previous_position,
			   played, won, drawn, lost, goals_for, goals_against, goal_difference,
			   points, form, cards_against, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			s.ChampionshipID, s.TeamID, s.Group, s.Position, s.PreviousPosition,
			s.Played, s.Won, s.Drawn, s.Lost, s.GoalsFor, s.GoalsAgainst, s.GoalDifference,
			s.Points, encodeForm(s.Form), s.CardsAgainst, s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert standing row: %w", err)
		}
	}
	return nil
}

func scanStanding(row pgx.Row) (*domain.Standing, error) {
	var s domain.Standing
	var form string
	err := row.Scan(&s.ChampionshipID, &s.TeamID, &s.Group, &s.Position, &s.PreviousPosition,
		&s.Played, &s.Won, &s.Drawn, &s.Lost, &s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference,
		&s.Points, &form, &s.CardsAgainst, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan standing: %w", err)
	}
	s.Form = decodeForm(form)
	return &s, nil
}

// Form is stored as a compact letter string, e.g. "WDLWW".
func encodeForm(form []domain.Outcome) string {
	out := make([]byte, 0, len(form))
	for _, o := range form {
		out = append(out, o[0])
	}
	return string(out)
}

func decodeForm(s string) []domain.Outcome {
	if s == "" {
		return nil
	}
	form := make([]domain.Outcome, 0, len(s))
	for i := 0; i < len(s); i++ {
		form = append(form, domain.Outcome(s[i:i+1]))
	}
	return form
}
