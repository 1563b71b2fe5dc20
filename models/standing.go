package models

import "time"

// StandingEntry is a derived ranking row for a team within a bracket (or a
// group of a bracket). Entries are recomputed wholesale from completed
// matches, never patched in place.
type StandingEntry struct {
	ID              int       `json:"id" db:"id"`
	BracketID       int       `json:"bracket_id" db:"bracket_id"`
	TeamID          int       `json:"team_id" db:"team_id"`
	GroupNumber     *int      `json:"group_number,omitempty" db:"group_number"`
	Position        int       `json:"position" db:"position"`
	TotalPoints     int       `json:"total_points" db:"total_points"`
	MatchesPlayed   int       `json:"matches_played" db:"matches_played"`
	MatchesWon      int       `json:"matches_won" db:"matches_won"`
	MatchesLost     int       `json:"matches_lost" db:"matches_lost"`
	GamesWon        int       `json:"games_won" db:"games_won"`
	GamesLost       int       `json:"games_lost" db:"games_lost"`
	PointDifference int       `json:"point_difference" db:"point_difference"`
	RoundReached    *int      `json:"round_reached,omitempty" db:"round_reached"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
