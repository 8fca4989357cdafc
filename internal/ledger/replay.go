package ledger

import (
	"fmt"
	"sort"

	"github.com/matchday/platform/internal/domain"
)

// ReplayResult holds the outcome of a consistency-check replay.
type ReplayResult struct {
	MatchID    string
	EventCount int
	Rebuilt    ScoreState
	Invariants []InvariantCheck
	AllPassed  bool
}

// InvariantCheck records a single invariant validation.
type InvariantCheck struct {
	Name   string
	Passed bool
	Detail string
}

// Replay folds the full ledger of a match and validates the derived state
// against the stored match row.
//
// Invariants:
//  1. Score reconstruction: match totals equal the ledger fold
//  2. Period-score reconstruction: per-period entries agree
//  3. Sequence integrity: sequence numbers are unique and gap-free
//  4. Period monotonicity: periods never decrease in append order
func Replay(m *domain.Match, events []domain.MatchEvent) ReplayResult {
	rebuilt := ReduceScore(m.HomeTeamID, events)

	checks := []InvariantCheck{
		checkScore(m, rebuilt),
		checkPeriodScores(m, rebuilt),
		checkSequence(events),
		checkPeriodMonotonic(events),
	}

	allPassed := true
	for _, c := range checks {
		if !c.Passed {
			allPassed = false
		}
	}

	return ReplayResult{
		MatchID:    m.ID.String(),
		EventCount: len(events),
		Rebuilt:    rebuilt,
		Invariants: checks,
		AllPassed:  allPassed,
	}
}

func checkScore(m *domain.Match, rebuilt ScoreState) InvariantCheck {
	passed := m.HomeScore == rebuilt.HomeScore && m.AwayScore == rebuilt.AwayScore
	return InvariantCheck{
		Name:   "score_reconstruction",
		Passed: passed,
		Detail: fmt.Sprintf("match=%d-%d rebuilt=%d-%d", m.HomeScore, m.AwayScore, rebuilt.HomeScore, rebuilt.AwayScore),
	}
}

func checkPeriodScores(m *domain.Match, rebuilt ScoreState) InvariantCheck {
	// The match may carry scoreless period entries opened by period_start
	// that the fold never sees; only scored periods must agree.
	byPeriod := make(map[int]domain.PeriodScore, len(m.PeriodScores))
	for _, ps := range m.PeriodScores {
		byPeriod[ps.Period] = ps
	}
	for _, ps := range rebuilt.PeriodScores {
		got, ok := byPeriod[ps.Period]
		if !ok || got.HomeScore != ps.HomeScore || got.AwayScore != ps.AwayScore {
			return InvariantCheck{
				Name:   "period_score_reconstruction",
				Passed: false,
				Detail: fmt.Sprintf("period %d: match=%+v rebuilt=%+v", ps.Period, got, ps),
			}
		}
	}
	return InvariantCheck{Name: "period_score_reconstruction", Passed: true, Detail: fmt.Sprintf("%d periods", len(rebuilt.PeriodScores))}
}

func checkSequence(events []domain.MatchEvent) InvariantCheck {
	seen := make(map[int64]bool, len(events))
	var maxSeq int64
	for i := range events {
		seq := events[i].Seq
		if seq < 1 || seen[seq] {
			return InvariantCheck{
				Name:   "sequence_integrity",
				Passed: false,
				Detail: fmt.Sprintf("duplicate or invalid seq %d", seq),
			}
		}
		seen[seq] = true
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	if int64(len(events)) != maxSeq && len(events) > 0 {
		return InvariantCheck{
			Name:   "sequence_integrity",
			Passed: false,
			Detail: fmt.Sprintf("%d events but max seq %d", len(events), maxSeq),
		}
	}
	return InvariantCheck{Name: "sequence_integrity", Passed: true, Detail: fmt.Sprintf("max seq %d", maxSeq)}
}

func checkPeriodMonotonic(events []domain.MatchEvent) InvariantCheck {
	bySeq := make([]domain.MatchEvent, len(events))
	copy(bySeq, events)
	sort.Slice(bySeq, func(i, j int) bool { return bySeq[i].Seq < bySeq[j].Seq })
	last := 0
	for i := range bySeq {
		if bySeq[i].Period < last {
			return InvariantCheck{
				Name:   "period_monotonicity",
				Passed: false,
				Detail: fmt.Sprintf("seq %d period %d after period %d", bySeq[i].Seq, bySeq[i].Period, last),
			}
		}
		last = bySeq[i].Period
	}
	return InvariantCheck{Name: "period_monotonicity", Passed: true, Detail: fmt.Sprintf("final period %d", last)}
}
