package models

import "time"

// Team is a registered pair competing in one category. Bracket logic treats
// it as an opaque token.
type Team struct {
	ID            int       `json:"id" db:"id"`
	CategoryID    int       `json:"category_id" db:"category_id"`
	Name          string    `json:"name" db:"name"`
	Player1ID     int       `json:"player1_id" db:"player1_id"`
	Player2ID     *int      `json:"player2_id,omitempty" db:"player2_id"`
	RankingPoints float64   `json:"ranking_points" db:"ranking_points"`
	Withdrawn     bool      `json:"withdrawn" db:"withdrawn"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Player1 *Player `json:"player1,omitempty" db:"-"`
	Player2 *Player `json:"player2,omitempty" db:"-"`
}
