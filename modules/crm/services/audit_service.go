package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/access"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence"
)

// AuditService exposes the edit-history read and correction surface.
// History visibility is strictly narrower than edit visibility: only roles
// holding viewHistory see it, team or assignment scope never grants it.
type AuditService struct {
	history edithistory.Repository
	jobs    job.Repository
	access  *AccessService
}

func NewAuditService(
	history edithistory.Repository,
	jobs job.Repository,
	access *AccessService,
) *AuditService {
	return &AuditService{
		history: history,
		jobs:    jobs,
		access:  access,
	}
}

func (s *AuditService) GetHistory(ctx context.Context, actor user.User, jobID uuid.UUID, params *edithistory.FindParams) ([]*edithistory.EditHistoryEntry, int64, error) {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, 0, mapRepoErr(err, persistence.ErrJobNotFound, ErrJobNotFound)
	}
	err = s.access.guardJob(ctx, actor, &j, func(c access.Capabilities) bool { return c.ViewHistory })
	if err != nil {
		return nil, 0, err
	}

	if params == nil {
		params = &edithistory.FindParams{}
	}
	scoped := *params
	scoped.JobID = jobID

	entries, err := s.history.List(ctx, &scoped)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.history.Count(ctx, &scoped)
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

// DeleteEntry removes an erroneous audit row. Owner only. The deletion is
// not itself audited; this is a known limitation carried over from the
// original system, not an oversight.
func (s *AuditService) DeleteEntry(ctx context.Context, actor user.User, entryID uint) error {
	if !actor.IsActive() || actor.Role() != user.RoleOwner {
		return ErrForbidden
	}

	if _, err := s.history.GetByID(ctx, entryID); err != nil {
		return mapRepoErr(err, persistence.ErrHistoryEntryNotFound, ErrHistoryEntryNotFound)
	}
	return mapRepoErr(
		s.history.Delete(ctx, entryID),
		persistence.ErrHistoryEntryNotFound,
		ErrHistoryEntryNotFound,
	)
}
