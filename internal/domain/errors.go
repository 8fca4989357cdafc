package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

// ErrInvalidTransition reports a match command issued from a state outside
// its allowed source set. The match is left unchanged.
func ErrInvalidTransition(cmd Command, from MatchStatus) *AppError {
	return &AppError{
		Code:    "INVALID_TRANSITION",
		Message: fmt.Sprintf("command %s not allowed from status %s", cmd, from),
		Status:  409,
	}
}

// ErrReferentialMismatch reports a ledger event whose player/team does not
// belong to either roster of the target match.
func ErrReferentialMismatch(msg string) *AppError {
	return &AppError{Code: "REFERENTIAL_MISMATCH", Message: msg, Status: 422}
}

// ErrInvalidPeriod reports an event period beyond the sport's period ceiling.
func ErrInvalidPeriod(period, ceiling int) *AppError {
	return &AppError{
		Code:    "INVALID_PERIOD",
		Message: fmt.Sprintf("period %d exceeds ceiling %d", period, ceiling),
		Status:  422,
	}
}

// ErrUnknownTeam reports a finished match referencing a team absent from the
// championship roster during standings aggregation.
func ErrUnknownTeam(teamID string) *AppError {
	return &AppError{Code: "UNKNOWN_TEAM", Message: fmt.Sprintf("team %s is not in the championship roster", teamID), Status: 422}
}

// ErrIncompleteConfiguration reports missing championship settings (point
// rules or tiebreak cascade). Standings computation is aborted and the prior
// table retained.
func ErrIncompleteConfiguration(msg string) *AppError {
	return &AppError{Code: "INCOMPLETE_CONFIGURATION", Message: msg, Status: 422}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}
