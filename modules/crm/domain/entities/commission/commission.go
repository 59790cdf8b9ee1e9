package commission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDuplicateSubmission is returned by repositories when an active
// (non-denied) request already exists for the job. The guarantee comes from
// a partial unique index at the store, not from a pre-check, so it holds
// under concurrent submissions.
var ErrDuplicateSubmission = errors.New("active commission request already exists for job")

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
)

type CommissionRequest struct {
	ID           uint
	JobID        uuid.UUID
	CheckAmount  decimal.Decimal
	Status       RequestStatus
	DenialReason *string
	SubmittedBy  uuid.UUID
	CreatedAt    time.Time
}

type FindParams struct {
	JobID       *uuid.UUID
	SubmittedBy *uuid.UUID
	Status      RequestStatus
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

type Repository interface {
	// Create inserts a pending request. Returns ErrDuplicateSubmission when
	// the job already has a non-denied request.
	Create(ctx context.Context, req *CommissionRequest) error
	List(ctx context.Context, params *FindParams) ([]*CommissionRequest, error)
	// CountApproved counts approved requests submitted by the actor inside
	// [from, to].
	CountApproved(ctx context.Context, submittedBy uuid.UUID, from, to time.Time) (int64, error)
	Review(ctx context.Context, id uint, status RequestStatus, denialReason *string) error
	ListTiers(ctx context.Context) ([]BonusTier, error)
}
