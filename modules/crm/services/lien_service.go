package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/pkg/composables"
	"github.com/nextdoorextsolutions/roofline/pkg/types"
)

// LienService derives lien-rights state from elapsed time. Derivation is
// read-side only; the stored status moves to sent or waived exclusively
// through the explicit actor operations below.
type LienService struct {
	jobs    job.Repository
	jobsSvc *JobService
	access  *AccessService
	clock   types.Clock
	window  time.Duration
}

func NewLienService(
	jobs job.Repository,
	jobsSvc *JobService,
	access *AccessService,
	clock types.Clock,
	window time.Duration,
) *LienService {
	return &LienService{
		jobs:    jobs,
		jobsSvc: jobsSvc,
		access:  access,
		clock:   clock,
		window:  window,
	}
}

// DeriveState computes the current lien-rights view of a job.
func (s *LienService) DeriveState(ctx context.Context, j job.Job) job.LienState {
	state := job.DeriveLienState(j, s.clock.Now(), s.window)
	if state.IntegrityWarning {
		lienIntegrityWarnings.Inc()
		if logger, err := composables.UseLogger(ctx); err == nil {
			logger.WithField("job_id", j.ID()).Warn("completed job has no completion date")
		}
	}
	return state
}

// CriticalLienJob pairs a job with its derived state for alert views.
type CriticalLienJob struct {
	Job   job.Job
	State job.LienState
}

// CriticalJobs lists jobs whose lien window is critical or already expired,
// restricted to the actor's visibility scope before counting. A team lead
// only ever sees criticality alerts for their own team's jobs.
func (s *LienService) CriticalJobs(ctx context.Context, actor user.User) ([]CriticalLienJob, error) {
	filter, err := s.access.ResolveFilter(ctx, actor)
	if err != nil {
		return nil, err
	}
	if filter.Empty() {
		return []CriticalLienJob{}, nil
	}

	candidates, err := s.jobs.GetPaginated(ctx, &job.FindParams{
		Unrestricted:  filter.All,
		AssignedToAny: filter.AssignedToAny,
		LienStatuses:  []job.LienStatus{job.LienPending, job.LienExpired},
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	results := []CriticalLienJob{}
	for _, candidate := range candidates {
		state := job.DeriveLienState(candidate, now, s.window)
		if state.IntegrityWarning {
			lienIntegrityWarnings.Inc()
			if logger, lErr := composables.UseLogger(ctx); lErr == nil {
				logger.WithField("job_id", candidate.ID()).Warn("completed job has no completion date")
			}
			continue
		}
		if state.Urgency >= job.LienUrgencyCritical {
			results = append(results, CriticalLienJob{Job: candidate, State: state})
		}
	}
	return results, nil
}

// MarkSent records that a lien notice was filed. Routed through the normal
// mutation path so it is authorized and audited like any other edit.
func (s *LienService) MarkSent(ctx context.Context, actor user.User, jobID uuid.UUID) (job.Job, error) {
	sent := job.LienSent
	return s.jobsSvc.Update(ctx, actor, jobID, job.Patch{LienRightsStatus: &sent})
}

// Waive records that lien rights were deliberately given up.
func (s *LienService) Waive(ctx context.Context, actor user.User, jobID uuid.UUID) (job.Job, error) {
	waived := job.LienWaived
	return s.jobsSvc.Update(ctx, actor, jobID, job.Patch{LienRightsStatus: &waived})
}
