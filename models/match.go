package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusForfeited  MatchStatus = "forfeited"
	MatchStatusBye        MatchStatus = "bye"
)

// SetScore holds one set's games (or points, for express scoring). A 7-6 set
// carries its tiebreak sub-score.
type SetScore struct {
	Team1         int  `json:"team1"`
	Team2         int  `json:"team2"`
	TiebreakTeam1 *int `json:"tiebreak_team1,omitempty"`
	TiebreakTeam2 *int `json:"tiebreak_team2,omitempty"`
}

// SetScores is stored as a JSONB column.
type SetScores []SetScore

func (s SetScores) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *SetScores) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into SetScores", src)
	}
	return json.Unmarshal(b, s)
}

// Match is one node of a bracket's match graph. Team slots are nil for byes
// and for slots still waiting on a feeder match. NextMatchID/NextMatchPosition
// form the forward edge the winner advances along; LoserNextMatchID feeds a
// third-place match from a semifinal.
type Match struct {
	ID                int         `json:"id" db:"id"`
	BracketID         int         `json:"bracket_id" db:"bracket_id"`
	UID               string      `json:"uid" db:"uid"`
	RoundNumber       int         `json:"round_number" db:"round_number"`
	MatchNumber       int         `json:"match_number" db:"match_number"`
	RoundName         *string     `json:"round_name,omitempty" db:"round_name"`
	Team1ID           *int        `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID           *int        `json:"team2_id,omitempty" db:"team2_id"`
	Sets              SetScores   `json:"sets,omitempty" db:"sets"`
	WinnerTeam        *int        `json:"winner_team,omitempty" db:"winner_team"`
	Status            MatchStatus `json:"status" db:"status"`
	NextMatchID       *int        `json:"next_match_id,omitempty" db:"next_match_id"`
	NextMatchPosition *int        `json:"next_match_position,omitempty" db:"next_match_position"`
	LoserNextMatchID  *int        `json:"loser_next_match_id,omitempty" db:"loser_next_match_id"`
	GroupNumber       *int        `json:"group_number,omitempty" db:"group_number"`
	IsBye             bool        `json:"is_bye" db:"is_bye"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
}

// WinnerTeamID resolves the winner slot (1 or 2) to a team id. Returns nil
// while the match is undecided.
func (m *Match) WinnerTeamID() *int {
	if m.WinnerTeam == nil {
		return nil
	}
	switch *m.WinnerTeam {
	case 1:
		return m.Team1ID
	case 2:
		return m.Team2ID
	}
	return nil
}

// LoserTeamID resolves the losing side's team id, nil while undecided.
func (m *Match) LoserTeamID() *int {
	if m.WinnerTeam == nil {
		return nil
	}
	switch *m.WinnerTeam {
	case 1:
		return m.Team2ID
	case 2:
		return m.Team1ID
	}
	return nil
}

// IsDecided reports whether the match has a final result.
func (m *Match) IsDecided() bool {
	switch m.Status {
	case MatchStatusCompleted, MatchStatusForfeited, MatchStatusBye:
		return true
	}
	return false
}

// HasTeam reports whether teamID occupies either slot.
func (m *Match) HasTeam(teamID int) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) || (m.Team2ID != nil && *m.Team2ID == teamID)
}
