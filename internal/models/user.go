package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	// UserID is the business identity linking the account to its policies
	// and claims. Distinct from the auth record primary key.
	UserID    int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
