package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/access"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/commission"
	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence"
	"github.com/nextdoorextsolutions/roofline/pkg/composables"
	"github.com/nextdoorextsolutions/roofline/pkg/eventbus"
	"github.com/nextdoorextsolutions/roofline/pkg/types"
)

// CommissionService evaluates weekly bonus-tier progress and accepts bonus
// submissions. Progress stays per-individual; team aggregation for leads is
// deliberately not offered.
type CommissionService struct {
	commissions commission.Repository
	jobs        job.Repository
	access      *AccessService
	publisher   eventbus.EventBus
	clock       types.Clock
	location    *time.Location
}

func NewCommissionService(
	commissions commission.Repository,
	jobs job.Repository,
	access *AccessService,
	publisher eventbus.EventBus,
	clock types.Clock,
	location *time.Location,
) *CommissionService {
	return &CommissionService{
		commissions: commissions,
		jobs:        jobs,
		access:      access,
		publisher:   publisher,
		clock:       clock,
		location:    location,
	}
}

// WeeklyProgress reports the actor's standing against the bonus ladder for
// the current Monday-to-Sunday week in the deployment timezone. The window
// is fixed to the calendar week, never sliding.
func (s *CommissionService) WeeklyProgress(ctx context.Context, actor user.User) (commission.Progress, error) {
	if !actor.IsActive() {
		return commission.Progress{}, ErrForbidden
	}

	now := s.clock.Now().In(s.location)
	weekStart, weekEnd := commission.WeekWindow(now)

	approved, err := s.commissions.CountApproved(ctx, actor.ID(), weekStart, weekEnd)
	if err != nil {
		return commission.Progress{}, err
	}
	tiers, err := s.commissions.ListTiers(ctx)
	if err != nil {
		return commission.Progress{}, err
	}

	progress := commission.EvaluateTiers(tiers, approved)
	progress.WeekStart = weekStart
	progress.WeekEnd = weekEnd
	return progress, nil
}

// SubmitForBonus files a pending commission request for a job the actor can
// edit. Idempotency is enforced by the store's partial unique index, so two
// concurrent submissions yield exactly one success and one AlreadySubmitted.
func (s *CommissionService) SubmitForBonus(ctx context.Context, actor user.User, jobID uuid.UUID, checkAmount decimal.Decimal) (*commission.CommissionRequest, error) {
	req, err := composables.InTxResult(ctx, func(txCtx context.Context) (*commission.CommissionRequest, error) {
		j, err := s.jobs.GetByID(txCtx, jobID)
		if err != nil {
			return nil, mapRepoErr(err, persistence.ErrJobNotFound, ErrJobNotFound)
		}
		if err := s.access.guardJob(txCtx, actor, &j, func(c access.Capabilities) bool { return c.Edit }); err != nil {
			return nil, err
		}

		req := &commission.CommissionRequest{
			JobID:       jobID,
			CheckAmount: checkAmount,
			Status:      commission.StatusPending,
			SubmittedBy: actor.ID(),
			CreatedAt:   s.clock.Now(),
		}
		if err := s.commissions.Create(txCtx, req); err != nil {
			if errors.Is(err, commission.ErrDuplicateSubmission) {
				commissionConflicts.Inc()
				return nil, ErrAlreadySubmitted
			}
			return nil, err
		}
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(commission.SubmittedEvent{Request: *req})
	return req, nil
}

// Review approves or denies a pending request. Back-office only.
func (s *CommissionService) Review(ctx context.Context, actor user.User, requestID uint, approve bool, denialReason *string) error {
	if !actor.IsActive() {
		return ErrForbidden
	}
	switch actor.Role() {
	case user.RoleOwner, user.RoleAdmin, user.RoleOffice:
	default:
		return ErrForbidden
	}

	status := commission.StatusApproved
	if !approve {
		status = commission.StatusDenied
	} else {
		denialReason = nil
	}
	err := s.commissions.Review(ctx, requestID, status, denialReason)
	if err != nil {
		return mapRepoErr(err, persistence.ErrCommissionRequestNotFound, ErrCommissionRequestNotFound)
	}

	s.publisher.Publish(commission.ReviewedEvent{RequestID: requestID, Status: status})
	return nil
}
