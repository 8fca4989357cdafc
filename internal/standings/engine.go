package standings

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matchday/platform/internal/domain"
)

// Compute derives the ranked table for a championship/group from finished
// match results. It is a pure function of its inputs: configuration is
// passed explicitly, nothing is read from ambient state, and identical
// inputs always yield an identical table.
//
// previous is the last published table; its positions become the new rows'
// PreviousPosition for movement display.
func Compute(championshipID uuid.UUID, group string, cfg domain.ChampionshipConfig, teams []domain.Team, results []domain.MatchResult, previous []domain.Standing) ([]domain.Standing, error) {
	if err := cfg.ValidateForStandings(); err != nil {
		return nil, err
	}
	if err := validateCascade(cfg.Tiebreakers); err != nil {
		return nil, err
	}

	rows := make(map[uuid.UUID]*domain.Standing, len(teams))
	for _, t := range teams {
		rows[t.ID] = &domain.Standing{
			ChampionshipID: championshipID,
			TeamID:         t.ID,
			Group:          group,
		}
	}

	// Chronological order so the bounded form history reads oldest-first.
	ordered := make([]domain.MatchResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].FinishedAt.Equal(ordered[j].FinishedAt) {
			return ordered[i].FinishedAt.Before(ordered[j].FinishedAt)
		}
		return ordered[i].MatchID.String() < ordered[j].MatchID.String()
	})

	for i := range ordered {
		res := &ordered[i]
		home, ok := rows[res.HomeTeamID]
		if !ok {
			return nil, domain.ErrUnknownTeam(res.HomeTeamID.String())
		}
		away, ok := rows[res.AwayTeamID]
		if !ok {
			return nil, domain.ErrUnknownTeam(res.AwayTeamID.String())
		}

		homeOutcome, awayOutcome, err := classify(res, cfg.AllowDraws)
		if err != nil {
			return nil, err
		}

		home.RecordResult(res.HomeScore, res.AwayScore, homeOutcome, *cfg.Points)
		away.RecordResult(res.AwayScore, res.HomeScore, awayOutcome, *cfg.Points)
		home.CardsAgainst += res.HomeCards
		away.CardsAgainst += res.AwayCards
	}

	table := make([]domain.Standing, 0, len(rows))
	for _, row := range rows {
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		table = append(table, *row)
	}

	sortTable(table, cfg.Tiebreakers, ordered, *cfg.Points)

	prevPositions := make(map[uuid.UUID]int, len(previous))
	for _, p := range previous {
		prevPositions[p.TeamID] = p.Position
	}

	now := time.Now().UTC()
	for i := range table {
		table[i].Position = i + 1
		table[i].PreviousPosition = prevPositions[table[i].TeamID]
		table[i].UpdatedAt = now
	}
	return table, nil
}

// classify resolves a finished result into per-side outcomes. Sports with
// allowDraws=false must never see an equal finished score: that is a
// data-integrity error, not something to resolve silently.
func classify(res *domain.MatchResult, allowDraws bool) (home, away domain.Outcome, err error) {
	switch {
	case res.HomeScore > res.AwayScore:
		return domain.OutcomeWin, domain.OutcomeLoss, nil
	case res.HomeScore < res.AwayScore:
		return domain.OutcomeLoss, domain.OutcomeWin, nil
	case allowDraws:
		return domain.OutcomeDraw, domain.OutcomeDraw, nil
	default:
		return "", "", domain.ErrConflict(fmt.Sprintf(
			"finished match %s has equal scores %d-%d but this sport does not allow draws",
			res.MatchID, res.HomeScore, res.AwayScore))
	}
}
