package models

import "time"

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "Pending"
	ClaimStatusApproved ClaimStatus = "Approved"
	ClaimStatusRejected ClaimStatus = "Rejected"
)

type Claim struct {
	ClaimID uint `gorm:"primaryKey"`
	// PolicyNumber is a string reference to the policy the claim was filed
	// against. The policy may have been deleted since, so lookups through it
	// are fallible.
	PolicyNumber string      `gorm:"size:64;index;not null"`
	Description  string      `gorm:"size:500;not null"`
	Status       ClaimStatus `gorm:"size:20;not null"`
	Remarks      string      `gorm:"size:500"`
	Attachment   string      `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
