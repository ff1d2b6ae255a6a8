package models

import "time"

type Person struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}
