package models

import (
	"time"

	"github.com/padelpoint/padel-system/scoring"
)

// Category is one competitive division of a tournament (e.g. "Men 3rd",
// "Mixed open"). It carries the scoring format all of its matches use.
type Category struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	ScoringJSON  *string   `json:"-" db:"scoring_json"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Teams []Team `json:"teams,omitempty" db:"-"`
}

// ScoringConfig decodes the category's scoring blob, falling back to classic
// best-of-three when none is stored.
func (c *Category) ScoringConfig() (scoring.Config, error) {
	raw := ""
	if c.ScoringJSON != nil {
		raw = *c.ScoringJSON
	}
	return scoring.ParseConfig(raw)
}
