package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/services"
)

func TestAuditService_HistoryRequiresViewHistory(t *testing.T) {
	f := newFixture(nil)
	office := f.users.add(user.New(user.RoleOffice, ""))
	rep := f.users.add(user.New(user.RoleSalesRep, "REP-1"))
	j := f.addJobAssignedTo(rep.ID())

	notes := "updated after inspection"
	_, err := f.jobSvc.Update(txContext(), rep, j.ID(), job.Patch{InternalNotes: &notes})
	require.NoError(t, err)

	// The rep edited the job but cannot read its history.
	_, _, err = f.audit.GetHistory(txContext(), rep, j.ID(), nil)
	require.ErrorIs(t, err, services.ErrForbidden)

	entries, total, err := f.audit.GetHistory(txContext(), office, j.ID(), nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	require.Equal(t, job.FieldInternalNotes, entries[0].FieldName)
}

func TestAuditService_HistoryMaskedOutsideScope(t *testing.T) {
	f := newFixture(nil)
	rep := f.users.add(user.New(user.RoleSalesRep, "REP-1"))
	j := f.addJobAssignedTo(uuid.New())

	_, _, err := f.audit.GetHistory(txContext(), rep, j.ID(), nil)

	require.ErrorIs(t, err, services.ErrJobNotFound)
}

func TestAuditService_DeleteEntryOwnerOnly(t *testing.T) {
	f := newFixture(nil)
	owner := f.users.add(user.New(user.RoleOwner, ""))
	admin := f.users.add(user.New(user.RoleAdmin, ""))
	j := f.addJobAssignedTo(uuid.New())

	notes := "typo"
	_, err := f.jobSvc.Update(txContext(), admin, j.ID(), job.Patch{InternalNotes: &notes})
	require.NoError(t, err)
	entry := f.history.forJob(j.ID())[0]

	err = f.audit.DeleteEntry(txContext(), admin, entry.ID)
	require.ErrorIs(t, err, services.ErrForbidden)

	err = f.audit.DeleteEntry(txContext(), owner, entry.ID)
	require.NoError(t, err)
	require.Empty(t, f.history.forJob(j.ID()))

	err = f.audit.DeleteEntry(txContext(), owner, entry.ID)
	require.ErrorIs(t, err, services.ErrHistoryEntryNotFound)
}
