package match

import (
	"github.com/matchday/platform/internal/domain"
)

// allowedSources maps each command to the statuses it may be issued from.
// adjustScore is handled separately: it is legal from every state except
// cancelled and postponed, including finished.
var allowedSources = map[domain.Command][]domain.MatchStatus{
	domain.CmdBeginWarmup:    {domain.StatusScheduled},
	domain.CmdStart:          {domain.StatusScheduled, domain.StatusWarmup},
	domain.CmdPause:          {domain.StatusLive, domain.StatusOvertime},
	domain.CmdResume:         {domain.StatusLive, domain.StatusOvertime, domain.StatusHalftime, domain.StatusBreak, domain.StatusSuspended},
	domain.CmdEndPeriod:      {domain.StatusLive, domain.StatusOvertime},
	domain.CmdStartOvertime:  {domain.StatusBreak},
	domain.CmdStartPenalties: {domain.StatusBreak, domain.StatusOvertime},
	domain.CmdFinish:         {domain.StatusLive, domain.StatusHalftime, domain.StatusBreak, domain.StatusOvertime, domain.StatusPenalties, domain.StatusSuspended},
	domain.CmdSuspend:        {domain.StatusScheduled, domain.StatusWarmup, domain.StatusLive, domain.StatusHalftime, domain.StatusBreak, domain.StatusOvertime, domain.StatusPenalties},
	domain.CmdCancel:         {domain.StatusScheduled, domain.StatusWarmup, domain.StatusLive, domain.StatusHalftime, domain.StatusBreak, domain.StatusOvertime, domain.StatusPenalties, domain.StatusSuspended},
	domain.CmdPostpone:       {domain.StatusScheduled, domain.StatusWarmup, domain.StatusLive, domain.StatusHalftime, domain.StatusBreak, domain.StatusOvertime, domain.StatusPenalties, domain.StatusSuspended},
}

// Allowed reports whether cmd may be issued from status.
func Allowed(cmd domain.Command, status domain.MatchStatus) bool {
	if cmd == domain.CmdAdjustScore {
		return status != domain.StatusCancelled && status != domain.StatusPostponed
	}
	for _, s := range allowedSources[cmd] {
		if s == status {
			return true
		}
	}
	return false
}

// Apply is the pure transition function of the match state machine. It never
// mutates its input: on success it returns the next match state plus the
// lifecycle ledger events the transition emits; on failure the caller's match
// is untouched and the error identifies the rejected command and the current
// status.
func Apply(m *domain.Match, cfg domain.ChampionshipConfig, cmd domain.Command, p domain.CommandPayload) (*domain.Match, []domain.MatchEvent, error) {
	if !domain.KnownCommand(cmd) {
		return nil, nil, domain.ErrValidation("unknown command: " + string(cmd))
	}
	if !Allowed(cmd, m.Status) {
		return nil, nil, domain.ErrInvalidTransition(cmd, m.Status)
	}

	next := m.Clone()
	var events []domain.MatchEvent

	switch cmd {
	case domain.CmdBeginWarmup:
		next.Status = domain.StatusWarmup

	case domain.CmdStart:
		next.Status = domain.StatusLive
		next.ClockRunning = true
		openPeriod(next, 1)
		events = append(events,
			lifecycleEvent(next, domain.EventMatchStart, p),
			lifecycleEvent(next, domain.EventPeriodStart, p),
		)

	case domain.CmdPause:
		next.ClockRunning = false

	case domain.CmdResume:
		switch m.Status {
		case domain.StatusHalftime, domain.StatusBreak:
			if err := checkCeiling(cfg, next.CurrentPeriod+1); err != nil {
				return nil, nil, err
			}
			next.Status = domain.StatusLive
			openPeriod(next, next.CurrentPeriod+1)
			events = append(events, lifecycleEvent(next, domain.EventPeriodStart, p))
		case domain.StatusSuspended:
			if next.CurrentPeriod < 1 {
				// suspended before kickoff: back to the calendar, not to play
				next.Status = domain.StatusScheduled
				return next, events, nil
			}
			next.Status = domain.StatusLive
		}
		next.ClockRunning = true

	case domain.CmdEndPeriod:
		next.ClockRunning = false
		events = append(events, lifecycleEvent(next, domain.EventPeriodEnd, p))
		if m.Status == domain.StatusOvertime {
			next.Status = domain.StatusBreak
		} else if cfg.RegulationPeriods > 0 && next.CurrentPeriod*2 == cfg.RegulationPeriods {
			next.Status = domain.StatusHalftime
		} else {
			next.Status = domain.StatusBreak
		}

	case domain.CmdStartOvertime:
		if cfg.RegulationPeriods > 0 && next.CurrentPeriod < cfg.RegulationPeriods {
			return nil, nil, domain.ErrInvalidTransition(cmd, m.Status)
		}
		if err := checkCeiling(cfg, next.CurrentPeriod+1); err != nil {
			return nil, nil, err
		}
		next.Status = domain.StatusOvertime
		next.ClockRunning = true
		openPeriod(next, next.CurrentPeriod+1)
		events = append(events, lifecycleEvent(next, domain.EventPeriodStart, p))

	case domain.CmdStartPenalties:
		if m.Status == domain.StatusOvertime {
			events = append(events, lifecycleEvent(next, domain.EventPeriodEnd, p))
		}
		next.Status = domain.StatusPenalties
		next.ClockRunning = false

	case domain.CmdFinish:
		next.Status = domain.StatusFinished
		next.ClockRunning = false
		events = append(events, lifecycleEvent(next, domain.EventMatchEnd, p))

	case domain.CmdSuspend:
		next.Status = domain.StatusSuspended
		next.ClockRunning = false

	case domain.CmdCancel:
		next.Status = domain.StatusCancelled
		next.ClockRunning = false

	case domain.CmdPostpone:
		next.Status = domain.StatusPostponed
		next.ClockRunning = false

	case domain.CmdAdjustScore:
		ev, err := adjustScore(next, p)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, ev)
	}

	return next, events, nil
}

// adjustScore sets the running totals directly and emits the compensating
// ledger entry that keeps the score reconstructible by replay.
func adjustScore(next *domain.Match, p domain.CommandPayload) (domain.MatchEvent, error) {
	if p.HomeScore == nil || p.AwayScore == nil {
		return domain.MatchEvent{}, domain.ErrValidation("adjustScore requires home_score and away_score")
	}
	if *p.HomeScore < 0 || *p.AwayScore < 0 {
		return domain.MatchEvent{}, domain.ErrValidation("scores must be >= 0")
	}

	homeDelta := *p.HomeScore - next.HomeScore
	awayDelta := *p.AwayScore - next.AwayScore
	if homeDelta == 0 && awayDelta == 0 {
		return domain.MatchEvent{}, domain.ErrValidation("adjustScore must change at least one side")
	}

	next.HomeScore = *p.HomeScore
	next.AwayScore = *p.AwayScore
	if n := len(next.PeriodScores); n > 0 {
		next.PeriodScores[n-1].HomeScore += homeDelta
		next.PeriodScores[n-1].AwayScore += awayDelta
	} else {
		// pre-start adjustment: record it under period 1, where the
		// compensating event is stamped, so replay reconciles
		next.PeriodScores = append(next.PeriodScores, domain.PeriodScore{
			Period:    1,
			HomeScore: homeDelta,
			AwayScore: awayDelta,
		})
	}

	ev := lifecycleEvent(next, domain.EventScoreAdjustment, p)
	ev.HomeScoreDelta = homeDelta
	ev.AwayScoreDelta = awayDelta
	return ev, nil
}

func openPeriod(m *domain.Match, period int) {
	m.CurrentPeriod = period
	for i := range m.PeriodScores {
		// a pre-start adjustment may have created this entry already
		if m.PeriodScores[i].Period == period {
			return
		}
	}
	m.PeriodScores = append(m.PeriodScores, domain.PeriodScore{Period: period})
}

func checkCeiling(cfg domain.ChampionshipConfig, period int) error {
	if ceiling := cfg.PeriodCeiling(); ceiling > 0 && period > ceiling {
		return domain.ErrInvalidPeriod(period, ceiling)
	}
	return nil
}

func lifecycleEvent(m *domain.Match, t domain.EventType, p domain.CommandPayload) domain.MatchEvent {
	period := m.CurrentPeriod
	if period < 1 {
		period = 1
	}
	return domain.MatchEvent{
		MatchID:        m.ID,
		ChampionshipID: m.ChampionshipID,
		Type:           t,
		Period:         period,
		Minute:         p.Minute,
		ExtraMinute:    p.ExtraMinute,
		Description:    p.Reason,
		CreatedBy:      p.IssuedBy,
	}
}
