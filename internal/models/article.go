package models

import (
	"time"
)

type Article struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Summary    string    `gorm:"size:500" json:"summary"`
	Content    string    `gorm:"type:text" json:"content"`
	Status     string    `gorm:"size:20;default:'draft'" json:"status"` // draft, publish
	Views      int       `gorm:"default:0" json:"views"`
	Comments   int       `gorm:"default:0;not null" json:"comments"` // number of comments, kept by the comment service
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Tags       []Tag     `gorm:"many2many:article_tags;" json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
