package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/matchday/platform/internal/domain"
)

type championshipRepo struct{}

// NewChampionshipRepository returns a pgx-backed ChampionshipRepository.
func NewChampionshipRepository() ChampionshipRepository {
	return &championshipRepo{}
}

func (r *championshipRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Championship, error) {
	row := db.QueryRow(ctx, `
		SELECT id, name, sport, season, created_at, updated_at
		FROM championships WHERE id = $1`, id)

	var c domain.Championship
	err := row.Scan(&c.ID, &c.Name, &c.Sport, &c.Season, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan championship: %w", err)
	}
	return &c, nil
}

// Config loads the championship's engine configuration from its config
// document. A missing row surfaces as IncompleteConfiguration downstream via
// the zero config (nil point rules, empty cascade).
func (r *championshipRepo) Config(ctx context.Context, db DBTX, championshipID uuid.UUID) (domain.ChampionshipConfig, error) {
	var raw []byte
	err := db.QueryRow(ctx, `
		SELECT config FROM championships WHERE id = $1`, championshipID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return domain.ChampionshipConfig{}, domain.ErrNotFound("championship", championshipID.String())
	}
	if err != nil {
		return domain.ChampionshipConfig{}, fmt.Errorf("load championship config: %w", err)
	}

	var cfg domain.ChampionshipConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return domain.ChampionshipConfig{}, fmt.Errorf("unmarshal championship config: %w", err)
		}
	}
	return cfg, nil
}

func (r *championshipRepo) ListTeams(ctx context.Context, db DBTX, championshipID uuid.UUID, group string) ([]domain.Team, error) {
	rows, err := db.Query(ctx, `
		SELECT id, championship_id, name, group_label, created_at
		FROM teams
		WHERE championship_id = $1
		  AND ($2 = '' OR group_label = $2)
		ORDER BY name ASC`, championshipID, group)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.ChampionshipID, &t.Name, &t.Group, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *championshipRepo) MatchRoster(ctx context.Context, db DBTX, m *domain.Match) (*domain.Roster, error) {
	home, err := listPlayers(ctx, db, m.HomeTeamID)
	if err != nil {
		return nil, err
	}
	away, err := listPlayers(ctx, db, m.AwayTeamID)
	if err != nil {
		return nil, err
	}
	return domain.NewRoster(m.HomeTeamID, m.AwayTeamID, home, away), nil
}

func listPlayers(ctx context.Context, db DBTX, teamID uuid.UUID) ([]domain.Player, error) {
	rows, err := db.Query(ctx, `
		SELECT id, team_id, name, number, position, created_at
		FROM players WHERE team_id = $1`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Number, &p.Position, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
