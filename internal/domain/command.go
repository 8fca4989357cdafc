package domain

// Command enumerates the match-control commands accepted by the state machine.
type Command string

const (
	CmdBeginWarmup    Command = "beginWarmup"
	CmdStart          Command = "start"
	CmdPause          Command = "pause"
	CmdResume         Command = "resume"
	CmdEndPeriod      Command = "endPeriod"
	CmdStartOvertime  Command = "startOvertime"
	CmdStartPenalties Command = "startPenalties"
	CmdFinish         Command = "finish"
	CmdSuspend        Command = "suspend"
	CmdCancel         Command = "cancel"
	CmdPostpone       Command = "postpone"
	CmdAdjustScore    Command = "adjustScore"
)

// KnownCommand reports whether cmd is part of the command set.
func KnownCommand(cmd Command) bool {
	switch cmd {
	case CmdBeginWarmup, CmdStart, CmdPause, CmdResume, CmdEndPeriod,
		CmdStartOvertime, CmdStartPenalties, CmdFinish, CmdSuspend,
		CmdCancel, CmdPostpone, CmdAdjustScore:
		return true
	}
	return false
}

// CommandPayload carries the optional arguments of a match command.
type CommandPayload struct {
	// Minute/ExtraMinute stamp the lifecycle event the command emits.
	Minute      int `json:"minute,omitempty"`
	ExtraMinute int `json:"extra_minute,omitempty"`
	// HomeScore/AwayScore are the corrected totals for adjustScore.
	HomeScore *int `json:"home_score,omitempty"`
	AwayScore *int `json:"away_score,omitempty"`
	// Reason is recorded on the emitted ledger event (suspension cause,
	// adjustment justification).
	Reason   string `json:"reason,omitempty"`
	IssuedBy string `json:"issued_by,omitempty"`
}
