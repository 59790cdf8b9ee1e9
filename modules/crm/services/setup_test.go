package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/commission"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence"
	"github.com/nextdoorextsolutions/roofline/pkg/composables"
)

// fakeTx satisfies pgx.Tx so service transactions run against the in-memory
// repositories below. None of its methods are ever reached.
type fakeTx struct {
	pgx.Tx
}

func txContext() context.Context {
	return composables.WithTx(context.Background(), fakeTx{})
}

type eventRecorder struct {
	mu     sync.Mutex
	events []any
}

func (r *eventRecorder) Publish(args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, args...)
}

func (r *eventRecorder) Subscribe(handler any)   {}
func (r *eventRecorder) Unsubscribe(handler any) {}
func (r *eventRecorder) SubscribersCount() int   { return 0 }

func (r *eventRecorder) published() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.events))
	copy(out, r.events)
	return out
}

type userRepoMock struct {
	users map[uuid.UUID]user.User
	teams map[uuid.UUID][]uuid.UUID
}

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{
		users: map[uuid.UUID]user.User{},
		teams: map[uuid.UUID][]uuid.UUID{},
	}
}

func (m *userRepoMock) add(u user.User) user.User {
	m.users[u.ID()] = u
	return u
}

func (m *userRepoMock) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, persistence.ErrUserNotFound
	}
	return u, nil
}

func (m *userRepoMock) GetPaginated(_ context.Context, params *user.FindParams) ([]user.User, error) {
	out := []user.User{}
	for _, u := range m.users {
		if params.Role != "" && u.Role() != params.Role {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *userRepoMock) TeamMemberIDs(_ context.Context, teamLeadID uuid.UUID) ([]uuid.UUID, error) {
	return m.teams[teamLeadID], nil
}

func (m *userRepoMock) Create(_ context.Context, u user.User) (user.User, error) {
	m.users[u.ID()] = u
	return u, nil
}

func (m *userRepoMock) Update(_ context.Context, u user.User) error {
	m.users[u.ID()] = u
	return nil
}

type jobRepoMock struct {
	jobs map[uuid.UUID]job.Job
}

func newJobRepoMock() *jobRepoMock {
	return &jobRepoMock{jobs: map[uuid.UUID]job.Job{}}
}

func (m *jobRepoMock) add(j job.Job) job.Job {
	m.jobs[j.ID()] = j
	return j
}

func (m *jobRepoMock) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return job.Job{}, persistence.ErrJobNotFound
	}
	return j, nil
}

func (m *jobRepoMock) matches(j job.Job, params *job.FindParams) bool {
	if !params.Unrestricted {
		assigned := false
		for _, id := range params.AssignedToAny {
			if j.IsAssignedTo(id) {
				assigned = true
				break
			}
		}
		if !assigned {
			return false
		}
	}
	if params.Status != "" && j.Status() != params.Status {
		return false
	}
	if len(params.LienStatuses) > 0 {
		found := false
		for _, status := range params.LienStatuses {
			if j.LienRightsStatus() == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if params.CompletedOnly && j.Status() != job.StatusCompleted {
		return false
	}
	return true
}

func (m *jobRepoMock) GetPaginated(_ context.Context, params *job.FindParams) ([]job.Job, error) {
	out := []job.Job{}
	for _, j := range m.jobs {
		if m.matches(j, params) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *jobRepoMock) Count(_ context.Context, params *job.FindParams) (int64, error) {
	found, _ := m.GetPaginated(context.Background(), params)
	return int64(len(found)), nil
}

func (m *jobRepoMock) Create(_ context.Context, j job.Job) (job.Job, error) {
	m.jobs[j.ID()] = j
	return j, nil
}

func (m *jobRepoMock) Update(_ context.Context, j job.Job) error {
	if _, ok := m.jobs[j.ID()]; !ok {
		return persistence.ErrJobNotFound
	}
	m.jobs[j.ID()] = j
	return nil
}

func (m *jobRepoMock) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.jobs[id]; !ok {
		return persistence.ErrJobNotFound
	}
	delete(m.jobs, id)
	return nil
}

type historyRepoMock struct {
	nextID  uint
	entries []*edithistory.EditHistoryEntry
	failing bool
}

func newHistoryRepoMock() *historyRepoMock {
	return &historyRepoMock{nextID: 1}
}

var errHistoryWriteFailed = errors.New("history write failed")

func (m *historyRepoMock) CreateBatch(_ context.Context, entries []*edithistory.EditHistoryEntry) error {
	if m.failing {
		return errHistoryWriteFailed
	}
	for _, entry := range entries {
		entry.ID = m.nextID
		m.nextID++
		m.entries = append(m.entries, entry)
	}
	return nil
}

func (m *historyRepoMock) List(_ context.Context, params *edithistory.FindParams) ([]*edithistory.EditHistoryEntry, error) {
	out := []*edithistory.EditHistoryEntry{}
	for _, entry := range m.entries {
		if entry.JobID != params.JobID {
			continue
		}
		if params.ActorID != nil && entry.ActorID != *params.ActorID {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (m *historyRepoMock) Count(ctx context.Context, params *edithistory.FindParams) (int64, error) {
	found, _ := m.List(ctx, params)
	return int64(len(found)), nil
}

func (m *historyRepoMock) GetByID(_ context.Context, id uint) (*edithistory.EditHistoryEntry, error) {
	for _, entry := range m.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, persistence.ErrHistoryEntryNotFound
}

func (m *historyRepoMock) Delete(_ context.Context, id uint) error {
	for i, entry := range m.entries {
		if entry.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return persistence.ErrHistoryEntryNotFound
}

func (m *historyRepoMock) forJob(jobID uuid.UUID) []*edithistory.EditHistoryEntry {
	out, _ := m.List(context.Background(), &edithistory.FindParams{JobID: jobID})
	return out
}

type commissionRepoMock struct {
	nextID   uint
	requests []*commission.CommissionRequest
	tiers    []commission.BonusTier
}

func newCommissionRepoMock(tiers []commission.BonusTier) *commissionRepoMock {
	return &commissionRepoMock{nextID: 1, tiers: tiers}
}

func (m *commissionRepoMock) Create(_ context.Context, req *commission.CommissionRequest) error {
	for _, existing := range m.requests {
		if existing.JobID == req.JobID && existing.Status != commission.StatusDenied {
			return commission.ErrDuplicateSubmission
		}
	}
	req.ID = m.nextID
	m.nextID++
	stored := *req
	m.requests = append(m.requests, &stored)
	return nil
}

func (m *commissionRepoMock) List(_ context.Context, params *commission.FindParams) ([]*commission.CommissionRequest, error) {
	out := []*commission.CommissionRequest{}
	for _, req := range m.requests {
		if params.JobID != nil && req.JobID != *params.JobID {
			continue
		}
		if params.SubmittedBy != nil && req.SubmittedBy != *params.SubmittedBy {
			continue
		}
		if params.Status != "" && req.Status != params.Status {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (m *commissionRepoMock) CountApproved(_ context.Context, submittedBy uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	for _, req := range m.requests {
		if req.SubmittedBy != submittedBy || req.Status != commission.StatusApproved {
			continue
		}
		if req.CreatedAt.Before(from) || req.CreatedAt.After(to) {
			continue
		}
		count++
	}
	return count, nil
}

func (m *commissionRepoMock) Review(_ context.Context, id uint, status commission.RequestStatus, denialReason *string) error {
	for _, req := range m.requests {
		if req.ID == id {
			req.Status = status
			req.DenialReason = denialReason
			return nil
		}
	}
	return persistence.ErrCommissionRequestNotFound
}

func (m *commissionRepoMock) ListTiers(_ context.Context) ([]commission.BonusTier, error) {
	return m.tiers, nil
}
