package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateMinute checks the minute stamp of a ledger event.
func ValidateMinute(minute, extraMinute int) error {
	if minute < 0 {
		return fmt.Errorf("minute must be >= 0, got %d", minute)
	}
	if extraMinute < 0 {
		return fmt.Errorf("extra minute must be >= 0, got %d", extraMinute)
	}
	return nil
}

// ValidatePeriod checks an event period against the sport's ceiling.
func ValidatePeriod(period, ceiling int) error {
	if period < 1 {
		return fmt.Errorf("period must be >= 1, got %d", period)
	}
	if ceiling > 0 && period > ceiling {
		return ErrInvalidPeriod(period, ceiling)
	}
	return nil
}

// ValidateEvent checks the structural fields of a ledger entry before it is
// admitted. Referential checks against the roster live in the ledger engine.
func ValidateEvent(e *MatchEvent) error {
	if e.MatchID == uuid.Nil {
		return fmt.Errorf("match id is required")
	}
	if e.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if err := ValidateMinute(e.Minute, e.ExtraMinute); err != nil {
		return err
	}
	if !e.Type.IsLifecycle() {
		if e.TeamID == nil {
			return fmt.Errorf("event type %s requires a team", e.Type)
		}
		if e.PlayerID == nil {
			return fmt.Errorf("event type %s requires a player", e.Type)
		}
	}
	if e.Type == EventScoreAdjustment && e.HomeScoreDelta == 0 && e.AwayScoreDelta == 0 {
		return fmt.Errorf("score adjustment must change at least one side")
	}
	return nil
}
