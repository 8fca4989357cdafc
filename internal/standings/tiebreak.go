package standings

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/matchday/platform/internal/domain"
)

// criterionKey maps one row to its scalar rank value under c; a larger key
// ranks ahead. head_to_head has no row-local key and is resolved group-wise
// in rankGroup.
func criterionKey(c domain.TiebreakCriterion, row *domain.Standing) int {
	switch c {
	case domain.TiebreakPoints:
		return row.Points
	case domain.TiebreakGoalDifference:
		return row.GoalDifference
	case domain.TiebreakGoalsFor:
		return row.GoalsFor
	case domain.TiebreakWins:
		return row.Won
	case domain.TiebreakFewestCards:
		return -row.CardsAgainst
	}
	return 0
}

// miniTablePoints sums, per team in group, the points earned in finished
// matches where both sides belong to the group. Matches against teams outside
// the group never influence the comparison (mini-table policy, see DESIGN.md).
func miniTablePoints(group []domain.Standing, results []domain.MatchResult, pts domain.PointRules) map[uuid.UUID]int {
	members := make(map[uuid.UUID]bool, len(group))
	for i := range group {
		members[group[i].TeamID] = true
	}

	mini := make(map[uuid.UUID]int, len(group))
	for i := range results {
		res := &results[i]
		if !members[res.HomeTeamID] || !members[res.AwayTeamID] {
			continue
		}
		switch {
		case res.HomeScore > res.AwayScore:
			mini[res.HomeTeamID] += pts.Win
			mini[res.AwayTeamID] += pts.Loss
		case res.HomeScore < res.AwayScore:
			mini[res.HomeTeamID] += pts.Loss
			mini[res.AwayTeamID] += pts.Win
		default:
			mini[res.HomeTeamID] += pts.Draw
			mini[res.AwayTeamID] += pts.Draw
		}
	}
	return mini
}

// sortTable orders the table by the configured cascade. Criteria resolve
// group-wise: each one only reorders teams still tied on everything before
// it, and every criterion compares scalar keys, so the order is total. The
// table is first placed in team-ID order and each pass is stable, which makes
// identical input always yield the identical table.
func sortTable(table []domain.Standing, cascade []domain.TiebreakCriterion, results []domain.MatchResult, pts domain.PointRules) {
	sort.Slice(table, func(i, j int) bool {
		return table[i].TeamID.String() < table[j].TeamID.String()
	})
	rankGroup(table, cascade, results, pts)
}

// rankGroup sorts one still-tied group by the head of the cascade, then
// recurses into each run of equal keys with the remaining criteria. For
// head_to_head the key is the team's points in the mini-table over matches
// played among exactly the teams of this group.
func rankGroup(group []domain.Standing, cascade []domain.TiebreakCriterion, results []domain.MatchResult, pts domain.PointRules) {
	if len(group) < 2 || len(cascade) == 0 {
		return
	}

	c := cascade[0]
	key := func(row *domain.Standing) int { return criterionKey(c, row) }
	if c == domain.TiebreakHeadToHead {
		mini := miniTablePoints(group, results, pts)
		key = func(row *domain.Standing) int { return mini[row.TeamID] }
	}

	sort.SliceStable(group, func(i, j int) bool { return key(&group[i]) > key(&group[j]) })

	start := 0
	for i := 1; i <= len(group); i++ {
		if i == len(group) || key(&group[i]) != key(&group[start]) {
			rankGroup(group[start:i], cascade[1:], results, pts)
			start = i
		}
	}
}

func validateCascade(cascade []domain.TiebreakCriterion) error {
	for _, c := range cascade {
		switch c {
		case domain.TiebreakPoints, domain.TiebreakGoalDifference, domain.TiebreakGoalsFor,
			domain.TiebreakWins, domain.TiebreakHeadToHead, domain.TiebreakFewestCards:
		default:
			return domain.ErrIncompleteConfiguration(fmt.Sprintf("unknown tiebreak criterion %q", c))
		}
	}
	return nil
}
