package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID         string
	Role       string
	TeamLeadID *string
	RepCode    string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Job struct {
	ID                    string
	Status                string
	AssignedTo            *string
	DealType              string
	Priority              string
	InternalNotes         string
	CustomerStatusMessage string
	ProjectCompletedAt    *time.Time
	LienRightsStatus      string
	LienRightsExpiresAt   *time.Time
	AmountPaid            decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type EditHistoryEntry struct {
	ID        uint
	JobID     string
	FieldName string
	OldValue  *string
	NewValue  *string
	EditType  string
	ActorID   string
	CreatedAt time.Time
}

type CommissionRequest struct {
	ID           uint
	JobID        string
	CheckAmount  decimal.Decimal
	Status       string
	DenialReason *string
	SubmittedBy  string
	CreatedAt    time.Time
}

type BonusTier struct {
	RequiredDeals int
	BonusAmount   decimal.Decimal
}
