package models

import "time"

// Score is the running total for one (person, game) pair. The composite
// unique index is what keeps concurrent first actions from creating two rows.
type Score struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PersonID  uint      `json:"person_id" gorm:"not null;uniqueIndex:uq_person_game"`
	GameID    uint      `json:"game_id" gorm:"not null;uniqueIndex:uq_person_game"`
	Total     float64   `json:"total" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Person Person `json:"-"`
	Game   Game   `json:"-"`
}
