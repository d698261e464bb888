package models

import "time"

type Policy struct {
	PolicyID     uint    `gorm:"primaryKey"`
	PolicyNumber string  `gorm:"size:64;uniqueIndex;not null"`
	CustomerName string  `gorm:"size:120;not null"`
	Type         string  `gorm:"size:40;not null"`
	Premium      float64 `gorm:"not null;default:0"`
	StartDate    string  `gorm:"size:20;not null"` // ISO date
	EndDate      string  `gorm:"size:20;not null"` // ISO date
	UserID       int     `gorm:"index;not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
