package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
	"github.com/matchday/platform/internal/standings"
)

// Standings is the read API over the derived table plus the manual
// recomputation entry point.
type Standings struct {
	pool       *pgxpool.Pool
	standings  repository.StandingRepository
	champs     repository.ChampionshipRepository
	recomputer *standings.Recomputer
}

// NewStandings creates the standings service.
func NewStandings(pool *pgxpool.Pool, repo repository.StandingRepository, champs repository.ChampionshipRepository, recomputer *standings.Recomputer) *Standings {
	return &Standings{pool: pool, standings: repo, champs: champs, recomputer: recomputer}
}

// Get returns the published table for a championship, optionally one group,
// ordered by position.
func (s *Standings) Get(ctx context.Context, championshipID uuid.UUID, group string) ([]domain.Standing, error) {
	champ, err := s.champs.FindByID(ctx, s.pool, championshipID)
	if err != nil {
		return nil, fmt.Errorf("find championship: %w", err)
	}
	if champ == nil {
		return nil, domain.ErrNotFound("championship", championshipID.String())
	}

	table, err := s.standings.TableFor(ctx, s.pool, championshipID, group)
	if err != nil {
		return nil, fmt.Errorf("load standings: %w", err)
	}
	return table, nil
}

// Recompute forces a full rebuild of the table, the consistency-repair path
// for operators.
func (s *Standings) Recompute(ctx context.Context, championshipID uuid.UUID, group string) error {
	return s.recomputer.Trigger(ctx, championshipID, group)
}
