package models

import "time"

type Game struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"size:32;uniqueIndex;not null"`
	Label     string    `json:"label" gorm:"size:64;not null"`
	CreatedAt time.Time `json:"created_at"`
}
