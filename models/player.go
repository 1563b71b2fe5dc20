package models

import "time"

type Player struct {
	ID            int       `json:"id" db:"id"`
	UserID        *int      `json:"user_id,omitempty" db:"user_id"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	RankingPoints float64   `json:"ranking_points" db:"ranking_points"`
	PhotoKey      *string   `json:"-" db:"photo_key"`
	PhotoURL      *string   `json:"photo_url,omitempty" db:"-"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
