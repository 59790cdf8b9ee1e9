package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/commission"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
	"github.com/nextdoorextsolutions/roofline/modules/crm/services"
	"github.com/nextdoorextsolutions/roofline/pkg/types"
)

const lienWindow = 90 * 24 * time.Hour

var testNow = time.Date(2025, 6, 12, 15, 30, 0, 0, time.UTC)

type fixture struct {
	users       *userRepoMock
	jobs        *jobRepoMock
	history     *historyRepoMock
	commissions *commissionRepoMock
	events      *eventRecorder
	clock       types.FixedClock

	access        *services.AccessService
	jobSvc        *services.JobService
	audit         *services.AuditService
	lien          *services.LienService
	commissionSvc *services.CommissionService
}

func newFixture(tiers []commission.BonusTier) *fixture {
	f := &fixture{
		users:       newUserRepoMock(),
		jobs:        newJobRepoMock(),
		history:     newHistoryRepoMock(),
		commissions: newCommissionRepoMock(tiers),
		events:      &eventRecorder{},
		clock:       types.FixedClock{Time: testNow},
	}
	f.access = services.NewAccessService(f.users)
	f.jobSvc = services.NewJobService(f.jobs, f.history, f.access, f.events, f.clock, lienWindow)
	f.audit = services.NewAuditService(f.history, f.jobs, f.access)
	f.lien = services.NewLienService(f.jobs, f.jobSvc, f.access, f.clock, lienWindow)
	f.commissionSvc = services.NewCommissionService(
		f.commissions, f.jobs, f.access, f.events, f.clock, time.UTC)
	return f
}

func (f *fixture) addJobAssignedTo(assignee uuid.UUID) job.Job {
	j := job.New("roof_replacement")
	j = job.Patch{AssignedTo: &assignee}.ApplyTo(j)
	return f.jobs.add(j)
}

func TestJobService_CreateSalesRepSelfAssigns(t *testing.T) {
	f := newFixture(nil)
	rep := f.users.add(user.New(user.RoleSalesRep, "REP-7"))

	created, err := f.jobSvc.Create(txContext(), rep, services.CreateJobDTO{
		DealType: "roof_replacement",
		Priority: "high",
	})
	require.NoError(t, err)

	require.True(t, created.IsAssignedTo(rep.ID()))
	require.Equal(t, job.StatusLead, created.Status())

	entries := f.history.forJob(created.ID())
	require.Len(t, entries, 1)
	require.Equal(t, edithistory.EditTypeCreate, entries[0].EditType)
	require.Equal(t, rep.ID(), entries[0].ActorID)

	events := f.events.published()
	require.Len(t, events, 1)
	require.IsType(t, job.CreatedEvent{}, events[0])
}

func TestJobService_CreateForbiddenForFieldCrew(t *testing.T) {
	f := newFixture(nil)
	crew := f.users.add(user.New(user.RoleFieldCrew, ""))

	_, err := f.jobSvc.Create(txContext(), crew, services.CreateJobDTO{DealType: "siding"})

	require.ErrorIs(t, err, services.ErrForbidden)
	require.Empty(t, f.events.published())
}

func TestJobService_UpdateWritesOneAuditRowPerField(t *testing.T) {
	f := newFixture(nil)
	office := f.users.add(user.New(user.RoleOffice, ""))
	j := f.addJobAssignedTo(uuid.New())

	status := job.StatusApproved
	notes := "materials ordered"
	amount := decimal.NewFromInt(1200)
	updated, err := f.jobSvc.Update(txContext(), office, j.ID(), job.Patch{
		Status:        &status,
		InternalNotes: &notes,
		AmountPaid:    &amount,
	})
	require.NoError(t, err)
	require.Equal(t, job.StatusApproved, updated.Status())

	entries := f.history.forJob(j.ID())
	require.Len(t, entries, 3)
	for _, entry := range entries {
		require.Equal(t, office.ID(), entry.ActorID)
		require.Equal(t, testNow, entry.CreatedAt, "all rows of one mutation share a timestamp")
	}

	events := f.events.published()
	require.Len(t, events, 1)
	update, ok := events[0].(job.UpdatedEvent)
	require.True(t, ok)
	require.Len(t, update.Changes, 3)
}

func TestJobService_UpdateNoChangesWritesNothing(t *testing.T) {
	f := newFixture(nil)
	office := f.users.add(user.New(user.RoleOffice, ""))
	j := f.addJobAssignedTo(uuid.New())

	_, err := f.jobSvc.Update(txContext(), office, j.ID(), job.Patch{})
	require.NoError(t, err)

	require.Empty(t, f.history.forJob(j.ID()))
	require.Empty(t, f.events.published())
}

func TestJobService_UpdateRollsBackWhenAuditWriteFails(t *testing.T) {
	f := newFixture(nil)
	office := f.users.add(user.New(user.RoleOffice, ""))
	j := f.addJobAssignedTo(uuid.New())
	f.history.failing = true

	status := job.StatusApproved
	_, err := f.jobSvc.Update(txContext(), office, j.ID(), job.Patch{Status: &status})

	require.ErrorIs(t, err, errHistoryWriteFailed)
	require.Empty(t, f.events.published())
}

func TestJobService_CompletionActivatesLienWindow(t *testing.T) {
	f := newFixture(nil)
	office := f.users.add(user.New(user.RoleOffice, ""))
	j := f.addJobAssignedTo(uuid.New())

	status := job.StatusCompleted
	completedAt := testNow.Add(-24 * time.Hour)
	updated, err := f.jobSvc.Update(txContext(), office, j.ID(), job.Patch{
		Status:             &status,
		ProjectCompletedAt: &completedAt,
	})
	require.NoError(t, err)

	require.Equal(t, job.LienPending, updated.LienRightsStatus())
	require.NotNil(t, updated.LienRightsExpiresAt())
	require.Equal(t, completedAt.Add(lienWindow), *updated.LienRightsExpiresAt())

	// Both the field edits and the derived lien fields land in the trail.
	fields := map[string]bool{}
	for _, entry := range f.history.forJob(j.ID()) {
		fields[entry.FieldName] = true
	}
	require.True(t, fields[job.FieldStatus])
	require.True(t, fields[job.FieldLienRightsStatus])
	require.True(t, fields[job.FieldLienRightsExpiresAt])

	events := f.events.published()
	require.Len(t, events, 2)
	require.IsType(t, job.UpdatedEvent{}, events[0])
	require.IsType(t, job.CompletedEvent{}, events[1])
}

func TestJobService_UpdateMasksInvisibleJobAsNotFound(t *testing.T) {
	f := newFixture(nil)
	rep := f.users.add(user.New(user.RoleSalesRep, "REP-1"))
	j := f.addJobAssignedTo(uuid.New())

	notes := "probe"
	_, err := f.jobSvc.Update(txContext(), rep, j.ID(), job.Patch{InternalNotes: &notes})

	require.ErrorIs(t, err, services.ErrJobNotFound)
}

func TestJobService_GetPaginatedScopesTeamLead(t *testing.T) {
	f := newFixture(nil)
	lead := f.users.add(user.New(user.RoleTeamLead, "LEAD-1"))
	rep1 := f.users.add(user.New(user.RoleSalesRep, "REP-1"))
	rep2 := f.users.add(user.New(user.RoleSalesRep, "REP-2"))
	f.users.teams[lead.ID()] = []uuid.UUID{rep1.ID(), rep2.ID()}

	j1 := f.addJobAssignedTo(rep1.ID())
	j2 := f.addJobAssignedTo(rep1.ID())
	j3 := f.addJobAssignedTo(rep2.ID())
	f.addJobAssignedTo(uuid.New())
	f.jobs.add(job.New("unassigned"))

	found, err := f.jobSvc.GetPaginated(txContext(), lead, nil)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(found))
	for _, j := range found {
		ids = append(ids, j.ID())
	}
	require.ElementsMatch(t, []uuid.UUID{j1.ID(), j2.ID(), j3.ID()}, ids)
}

func TestJobService_GetPaginatedEmptyScopeShortCircuits(t *testing.T) {
	f := newFixture(nil)
	crew := f.users.add(user.New(user.RoleFieldCrew, ""))
	f.addJobAssignedTo(uuid.New())

	found, err := f.jobSvc.GetPaginated(txContext(), crew, nil)
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestJobService_DeleteOwnerOnly(t *testing.T) {
	f := newFixture(nil)
	owner := f.users.add(user.New(user.RoleOwner, ""))
	admin := f.users.add(user.New(user.RoleAdmin, ""))
	j := f.addJobAssignedTo(uuid.New())

	err := f.jobSvc.Delete(txContext(), admin, j.ID())
	require.ErrorIs(t, err, services.ErrForbidden)

	err = f.jobSvc.Delete(txContext(), owner, j.ID())
	require.NoError(t, err)

	// The audit trail outlives the job row.
	entries := f.history.forJob(j.ID())
	require.Len(t, entries, 1)
	require.Equal(t, edithistory.EditTypeDelete, entries[0].EditType)

	events := f.events.published()
	require.Len(t, events, 1)
	require.IsType(t, job.DeletedEvent{}, events[0])
}

func TestJobService_WorkOrderVisibleToFieldCrew(t *testing.T) {
	f := newFixture(nil)
	crew := f.users.add(user.New(user.RoleFieldCrew, ""))
	j := f.addJobAssignedTo(uuid.New())

	// The full job is masked as missing for a field crew.
	_, err := f.jobSvc.GetByID(txContext(), crew, j.ID())
	require.ErrorIs(t, err, services.ErrJobNotFound)

	wo, err := f.jobSvc.WorkOrder(txContext(), crew, j.ID())
	require.NoError(t, err)
	require.Equal(t, j.ID(), wo.JobID)
}
