package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/access"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence"
	"github.com/nextdoorextsolutions/roofline/pkg/composables"
	"github.com/nextdoorextsolutions/roofline/pkg/eventbus"
	"github.com/nextdoorextsolutions/roofline/pkg/types"
)

// JobService owns the mutation path: authorize, apply, diff, persist the job
// row and its audit rows in one transaction, then publish.
type JobService struct {
	jobs       job.Repository
	history    edithistory.Repository
	access     *AccessService
	publisher  eventbus.EventBus
	clock      types.Clock
	lienWindow time.Duration
}

func NewJobService(
	jobs job.Repository,
	history edithistory.Repository,
	access *AccessService,
	publisher eventbus.EventBus,
	clock types.Clock,
	lienWindow time.Duration,
) *JobService {
	return &JobService{
		jobs:       jobs,
		history:    history,
		access:     access,
		publisher:  publisher,
		clock:      clock,
		lienWindow: lienWindow,
	}
}

type CreateJobDTO struct {
	DealType   string
	Priority   string
	AssignedTo *uuid.UUID
}

// jobCreatedField marks the audit row recording a job's creation.
const jobCreatedField = "job"

func (s *JobService) Create(ctx context.Context, actor user.User, dto CreateJobDTO) (job.Job, error) {
	if !actor.IsActive() {
		return job.Job{}, ErrForbidden
	}
	switch actor.Role() {
	case user.RoleOwner, user.RoleAdmin, user.RoleOffice, user.RoleTeamLead, user.RoleSalesRep:
	default:
		return job.Job{}, ErrForbidden
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (job.Job, error) {
		draft := job.New(dto.DealType)
		patch := job.Patch{Priority: &dto.Priority}
		if dto.AssignedTo != nil {
			patch.AssignedTo = dto.AssignedTo
		} else if actor.Role() == user.RoleSalesRep {
			// Reps intake their own leads.
			self := actor.ID()
			patch.AssignedTo = &self
		}
		draft = patch.ApplyTo(draft)

		persisted, err := s.jobs.Create(txCtx, draft)
		if err != nil {
			return job.Job{}, err
		}

		entry := &edithistory.EditHistoryEntry{
			JobID:     persisted.ID(),
			FieldName: jobCreatedField,
			NewValue:  edithistory.EncodeUUID(ptr(persisted.ID())),
			EditType:  edithistory.EditTypeCreate,
			ActorID:   actor.ID(),
			CreatedAt: s.clock.Now(),
		}
		if err := s.history.CreateBatch(txCtx, []*edithistory.EditHistoryEntry{entry}); err != nil {
			return job.Job{}, err
		}
		auditEntriesWritten.Inc()
		return persisted, nil
	})
	if err != nil {
		return job.Job{}, err
	}

	s.publisher.Publish(job.CreatedEvent{ActorID: actor.ID(), Result: created})
	return created, nil
}

func (s *JobService) GetByID(ctx context.Context, actor user.User, id uuid.UUID) (job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return job.Job{}, mapRepoErr(err, persistence.ErrJobNotFound, ErrJobNotFound)
	}
	if err := s.access.guardJob(ctx, actor, &j, func(c access.Capabilities) bool { return c.View }); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

// GetPaginated lists jobs visible to the actor. The access filter is applied
// inside the query, never after the fact.
func (s *JobService) GetPaginated(ctx context.Context, actor user.User, params *job.FindParams) ([]job.Job, error) {
	filter, err := s.access.ResolveFilter(ctx, actor)
	if err != nil {
		return nil, err
	}
	if filter.Empty() {
		return []job.Job{}, nil
	}
	if params == nil {
		params = &job.FindParams{}
	}
	scoped := *params
	scoped.Unrestricted = filter.All
	scoped.AssignedToAny = filter.AssignedToAny
	return s.jobs.GetPaginated(ctx, &scoped)
}

// Update applies a patch to the job. The job row and one edit-history row
// per changed field commit in the same transaction; a failure in either
// rolls both back.
func (s *JobService) Update(ctx context.Context, actor user.User, id uuid.UUID, patch job.Patch) (job.Job, error) {
	type txOut struct {
		prev    job.Job
		next    job.Job
		changes []edithistory.FieldChange
	}

	out, err := composables.InTxResult(ctx, func(txCtx context.Context) (txOut, error) {
		prev, err := s.jobs.GetByID(txCtx, id)
		if err != nil {
			return txOut{}, mapRepoErr(err, persistence.ErrJobNotFound, ErrJobNotFound)
		}
		if err := s.access.guardJob(txCtx, actor, &prev, func(c access.Capabilities) bool { return c.Edit }); err != nil {
			return txOut{}, err
		}

		next := patch.ApplyTo(prev)
		next = s.activateLienWindow(next)

		changes := job.Diff(prev, next)
		if len(changes) == 0 {
			return txOut{prev: prev, next: prev}, nil
		}

		if err := s.jobs.Update(txCtx, next); err != nil {
			return txOut{}, mapRepoErr(err, persistence.ErrJobNotFound, ErrJobNotFound)
		}

		now := s.clock.Now()
		entries := make([]*edithistory.EditHistoryEntry, 0, len(changes))
		for _, change := range changes {
			entries = append(entries, &edithistory.EditHistoryEntry{
				JobID:     next.ID(),
				FieldName: change.Field,
				OldValue:  change.Old,
				NewValue:  change.New,
				EditType:  change.EditType,
				ActorID:   actor.ID(),
				CreatedAt: now,
			})
		}
		if err := s.history.CreateBatch(txCtx, entries); err != nil {
			return txOut{}, err
		}
		auditEntriesWritten.Add(float64(len(entries)))
		return txOut{prev: prev, next: next, changes: changes}, nil
	})
	if err != nil {
		return job.Job{}, err
	}

	if len(out.changes) > 0 {
		s.publisher.Publish(job.UpdatedEvent{ActorID: actor.ID(), Result: out.next, Changes: out.changes})
		if out.prev.Status() != job.StatusCompleted && out.next.Status() == job.StatusCompleted {
			s.publisher.Publish(job.CompletedEvent{ActorID: actor.ID(), Result: out.next})
		}
	}
	return out.next, nil
}

// Delete hard-deletes a job. Owner only; the delete itself is recorded in
// edit history, which survives the job row.
func (s *JobService) Delete(ctx context.Context, actor user.User, id uuid.UUID) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		j, err := s.jobs.GetByID(txCtx, id)
		if err != nil {
			return mapRepoErr(err, persistence.ErrJobNotFound, ErrJobNotFound)
		}
		if err := s.access.guardJob(txCtx, actor, &j, func(c access.Capabilities) bool { return c.Delete }); err != nil {
			return err
		}

		entry := &edithistory.EditHistoryEntry{
			JobID:     j.ID(),
			FieldName: jobCreatedField,
			OldValue:  edithistory.EncodeUUID(ptr(j.ID())),
			EditType:  edithistory.EditTypeDelete,
			ActorID:   actor.ID(),
			CreatedAt: s.clock.Now(),
		}
		if err := s.history.CreateBatch(txCtx, []*edithistory.EditHistoryEntry{entry}); err != nil {
			return err
		}
		auditEntriesWritten.Inc()
		return s.jobs.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(job.DeletedEvent{ActorID: actor.ID(), JobID: id})
	return nil
}

// WorkOrder returns the read-only projection a field crew or the customer
// portal is allowed to see.
func (s *JobService) WorkOrder(ctx context.Context, actor user.User, id uuid.UUID) (job.WorkOrder, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return job.WorkOrder{}, mapRepoErr(err, persistence.ErrJobNotFound, ErrJobNotFound)
	}
	err = s.access.guardJob(ctx, actor, &j, func(c access.Capabilities) bool {
		return c.View || c.UploadPhotos
	})
	if err != nil {
		return job.WorkOrder{}, err
	}
	return j.WorkOrder(), nil
}

// activateLienWindow starts the lien clock the moment a job sits at
// completed with a completion date and no lien state yet. Sent and waived
// are never set here; those take an explicit actor action.
func (s *JobService) activateLienWindow(next job.Job) job.Job {
	if next.Status() != job.StatusCompleted {
		return next
	}
	if next.LienRightsStatus() != job.LienNotApplicable {
		return next
	}
	completedAt := next.ProjectCompletedAt()
	if completedAt == nil {
		lienIntegrityWarnings.Inc()
		return next
	}
	expiresAt := completedAt.Add(s.lienWindow)
	pending := job.LienPending
	return job.Patch{
		LienRightsStatus:    &pending,
		LienRightsExpiresAt: &expiresAt,
	}.ApplyTo(next)
}

func ptr[T any](v T) *T {
	return &v
}
