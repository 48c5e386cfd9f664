package models

import (
	"time"
)

// Comment is left by an anonymous reader on an article (or on the site when
// ArticleID is nil). A nil ParentID marks a top-level comment.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Email     string    `gorm:"size:128;not null" json:"email"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Site      string    `gorm:"size:255" json:"site"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Browser   string    `gorm:"size:64" json:"browser"`
	OS        string    `gorm:"column:os;size:64" json:"os"`
	IP        string    `gorm:"column:ip;size:64" json:"ip"`
	Address   string    `gorm:"size:128" json:"address"`
	ArticleID *uint     `gorm:"index" json:"article_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Status    string    `gorm:"size:8;default:'0';not null;index" json:"status"` // 0: pending, 1: published
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	CommentPending   = "0"
	CommentPublished = "1"
)
