package models

import "time"

// TournamentStatus mirrors the ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusDraft        TournamentStatus = "draft"
	TournamentStatusRegistration TournamentStatus = "registration"
	TournamentStatusActive       TournamentStatus = "active"
	TournamentStatusCompleted    TournamentStatus = "completed"
	TournamentStatusCanceled     TournamentStatus = "canceled"
)

type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description *string          `json:"description,omitempty" db:"description"`
	ClubName    *string          `json:"club_name,omitempty" db:"club_name"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	StartDate   time.Time        `json:"start_date" db:"start_date"`
	EndDate     time.Time        `json:"end_date" db:"end_date"`
	Status      TournamentStatus `json:"status" db:"status"`
	PosterKey   *string          `json:"-" db:"poster_key"`
	PosterURL   *string          `json:"poster_url,omitempty" db:"-"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`

	Categories []Category `json:"categories,omitempty" db:"-"`
}
