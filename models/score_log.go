package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScoreLog is an append-only record of an applied delta. Rows are only
// written for games whose rule marks them as logged.
type ScoreLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	PersonID  uint           `json:"person_id" gorm:"index;not null"`
	GameID    uint           `json:"game_id" gorm:"index;not null"`
	Delta     float64        `json:"delta" gorm:"not null"`
	Meta      datatypes.JSON `json:"meta"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null"`

	// Relationships
	Person Person `json:"-"`
	Game   Game   `json:"-"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&Person{},
		&Game{},
		&Score{},
		&ScoreLog{},
	}
}
