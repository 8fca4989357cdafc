package domain

import (
	"time"

	"github.com/google/uuid"
)

// Championship is a competition season owning teams, fixtures and a derived
// standings table.
type Championship struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Sport     string    `json:"sport"`
	Season    string    `json:"season"`
	Groups    []string  `json:"groups,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Team is a championship participant.
type Team struct {
	ID             uuid.UUID `json:"id"`
	ChampionshipID uuid.UUID `json:"championship_id"`
	Name           string    `json:"name"`
	Group          string    `json:"group,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Player is a rostered team member.
type Player struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Name      string    `json:"name"`
	Number    int       `json:"number,omitempty"`
	Position  string    `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Roster groups the two squads eligible to appear in a match's ledger.
type Roster struct {
	HomeTeamID  uuid.UUID
	AwayTeamID  uuid.UUID
	HomePlayers map[uuid.UUID]struct{}
	AwayPlayers map[uuid.UUID]struct{}
}

// NewRoster builds a roster from the two squads.
func NewRoster(homeTeamID, awayTeamID uuid.UUID, home, away []Player) *Roster {
	r := &Roster{
		HomeTeamID:  homeTeamID,
		AwayTeamID:  awayTeamID,
		HomePlayers: make(map[uuid.UUID]struct{}, len(home)),
		AwayPlayers: make(map[uuid.UUID]struct{}, len(away)),
	}
	for _, p := range home {
		r.HomePlayers[p.ID] = struct{}{}
	}
	for _, p := range away {
		r.AwayPlayers[p.ID] = struct{}{}
	}
	return r
}

// HasTeam reports whether teamID is one of the roster's two sides.
func (r *Roster) HasTeam(teamID uuid.UUID) bool {
	return teamID == r.HomeTeamID || teamID == r.AwayTeamID
}

// PlayerOn reports whether playerID is rostered for teamID.
func (r *Roster) PlayerOn(teamID, playerID uuid.UUID) bool {
	switch teamID {
	case r.HomeTeamID:
		_, ok := r.HomePlayers[playerID]
		return ok
	case r.AwayTeamID:
		_, ok := r.AwayPlayers[playerID]
		return ok
	}
	return false
}
