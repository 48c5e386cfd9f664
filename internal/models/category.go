package models

import (
	"time"
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"size:64;not null" json:"label"`
	Value     string    `gorm:"size:64;uniqueIndex;not null" json:"value"` // slug
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
