package models

import (
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleVisitor = "visitor"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Email     string    `gorm:"size:128" json:"email"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Role      string    `gorm:"size:20;default:'visitor';not null" json:"role"` // visitor, admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
