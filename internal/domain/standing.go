package domain

import (
	"time"

	"github.com/google/uuid"
)

// FormLength bounds the recent-result history kept per standing row.
const FormLength = 5

// Outcome is one result letter in a team's form history.
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeDraw Outcome = "D"
	OutcomeLoss Outcome = "L"
)

// Standing is one row of a championship/group table. It is fully derived,
// never the source of truth, and is regenerated whenever a member match's
// result finalizes.
type Standing struct {
	ChampionshipID   uuid.UUID `json:"championship_id"`
	TeamID           uuid.UUID `json:"team_id"`
	Group            string    `json:"group,omitempty"`
	Position         int       `json:"position"`
	PreviousPosition int       `json:"previous_position"`
	Played           int       `json:"played"`
	Won              int       `json:"won"`
	Drawn            int       `json:"drawn"`
	Lost             int       `json:"lost"`
	GoalsFor         int       `json:"goals_for"`
	GoalsAgainst     int       `json:"goals_against"`
	GoalDifference   int       `json:"goal_difference"`
	Points           int       `json:"points"`
	Form             []Outcome `json:"form"`
	CardsAgainst     int       `json:"cards_against,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RecordResult applies one finished-match outcome to the row's counters.
func (s *Standing) RecordResult(goalsFor, goalsAgainst int, outcome Outcome, rules PointRules) {
	s.Played++
	s.GoalsFor += goalsFor
	s.GoalsAgainst += goalsAgainst
	switch outcome {
	case OutcomeWin:
		s.Won++
		s.Points += rules.Win
	case OutcomeDraw:
		s.Drawn++
		s.Points += rules.Draw
	case OutcomeLoss:
		s.Lost++
		s.Points += rules.Loss
	}
	s.Form = append(s.Form, outcome)
	if len(s.Form) > FormLength {
		s.Form = s.Form[len(s.Form)-FormLength:]
	}
}
