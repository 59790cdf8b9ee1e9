package job

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Job is the pipeline aggregate. Assignment is a weak reference to a user;
// deleting a user never cascades into jobs.
type Job struct {
	id                    uuid.UUID
	status                Status
	assignedTo            *uuid.UUID
	dealType              string
	priority              string
	internalNotes         string
	customerStatusMessage string
	projectCompletedAt    *time.Time
	lienRightsStatus      LienStatus
	lienRightsExpiresAt   *time.Time
	amountPaid            decimal.Decimal
	createdAt             time.Time
	updatedAt             time.Time
}

func New(dealType string) Job {
	return Job{
		id:               uuid.New(),
		status:           StatusLead,
		dealType:         strings.TrimSpace(dealType),
		lienRightsStatus: LienNotApplicable,
		amountPaid:       decimal.Zero,
	}
}

func Hydrate(
	id uuid.UUID,
	status Status,
	assignedTo *uuid.UUID,
	dealType string,
	priority string,
	internalNotes string,
	customerStatusMessage string,
	projectCompletedAt *time.Time,
	lienRightsStatus LienStatus,
	lienRightsExpiresAt *time.Time,
	amountPaid decimal.Decimal,
	createdAt time.Time,
	updatedAt time.Time,
) Job {
	return Job{
		id:                    id,
		status:                status,
		assignedTo:            assignedTo,
		dealType:              dealType,
		priority:              priority,
		internalNotes:         internalNotes,
		customerStatusMessage: customerStatusMessage,
		projectCompletedAt:    projectCompletedAt,
		lienRightsStatus:      lienRightsStatus,
		lienRightsExpiresAt:   lienRightsExpiresAt,
		amountPaid:            amountPaid,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

func (j Job) ID() uuid.UUID                  { return j.id }
func (j Job) Status() Status                 { return j.status }
func (j Job) AssignedTo() *uuid.UUID         { return j.assignedTo }
func (j Job) DealType() string               { return j.dealType }
func (j Job) Priority() string               { return j.priority }
func (j Job) InternalNotes() string          { return j.internalNotes }
func (j Job) CustomerStatusMessage() string  { return j.customerStatusMessage }
func (j Job) ProjectCompletedAt() *time.Time { return j.projectCompletedAt }
func (j Job) LienRightsStatus() LienStatus   { return j.lienRightsStatus }
func (j Job) LienRightsExpiresAt() *time.Time { return j.lienRightsExpiresAt }
func (j Job) AmountPaid() decimal.Decimal    { return j.amountPaid }
func (j Job) CreatedAt() time.Time           { return j.createdAt }
func (j Job) UpdatedAt() time.Time           { return j.updatedAt }
func (j Job) IsZero() bool                   { return j.id == uuid.Nil }

// IsAssignedTo reports whether the job is assigned to the given user.
func (j Job) IsAssignedTo(userID uuid.UUID) bool {
	return j.assignedTo != nil && *j.assignedTo == userID
}

// WorkOrder is the read-only projection exposed to field crews and the
// customer portal. It deliberately carries no financials, notes or history.
type WorkOrder struct {
	JobID                 uuid.UUID
	Status                Status
	StatusLabel           string
	DealType              string
	Priority              string
	CustomerStatusMessage string
	ProjectCompletedAt    *time.Time
}

func (j Job) WorkOrder() WorkOrder {
	return WorkOrder{
		JobID:                 j.id,
		Status:                j.status,
		StatusLabel:           j.status.Label(),
		DealType:              j.dealType,
		Priority:              j.priority,
		CustomerStatusMessage: j.customerStatusMessage,
		ProjectCompletedAt:    j.projectCompletedAt,
	}
}
