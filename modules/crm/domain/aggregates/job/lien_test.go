package job_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
)

const lienWindow = 90 * 24 * time.Hour

func completedJob(completedAt time.Time) job.Job {
	j := job.New("roof_replacement")
	status := job.StatusCompleted
	lien := job.LienPending
	expiresAt := completedAt.Add(lienWindow)
	return job.Patch{
		Status:              &status,
		ProjectCompletedAt:  &completedAt,
		LienRightsStatus:    &lien,
		LienRightsExpiresAt: &expiresAt,
	}.ApplyTo(j)
}

func TestDeriveLienState_UrgencyBoundaries(t *testing.T) {
	completedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := completedAt.Add(lienWindow)
	j := completedJob(completedAt)

	cases := []struct {
		name string
		now  time.Time
		want job.LienUrgency
	}{
		{"far out", expiresAt.Add(-60 * 24 * time.Hour), job.LienUrgencyNormal},
		{"exactly 30 days", expiresAt.Add(-30 * 24 * time.Hour), job.LienUrgencyNormal},
		{"just under 30 days", expiresAt.Add(-30*24*time.Hour + time.Second), job.LienUrgencyWarning},
		{"exactly 14 days", expiresAt.Add(-14 * 24 * time.Hour), job.LienUrgencyWarning},
		{"just under 14 days", expiresAt.Add(-14*24*time.Hour + time.Second), job.LienUrgencyCritical},
		{"one hour left", expiresAt.Add(-time.Hour), job.LienUrgencyCritical},
		{"at expiry", expiresAt, job.LienUrgencyCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := job.DeriveLienState(j, tc.now, lienWindow)
			require.Equal(t, tc.want, state.Urgency)
			require.Equal(t, job.LienPending, state.Status)
			require.Equal(t, expiresAt, *state.ExpiresAt)
		})
	}
}

func TestDeriveLienState_ExpiredAfterWindow(t *testing.T) {
	completedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	j := completedJob(completedAt)
	now := completedAt.Add(lienWindow + time.Second)

	state := job.DeriveLienState(j, now, lienWindow)

	require.Equal(t, job.LienExpired, state.Status)
	require.Equal(t, job.LienUrgencyExpired, state.Urgency)
}

func TestDeriveLienState_SeverityIsMonotonic(t *testing.T) {
	completedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	j := completedJob(completedAt)

	last := job.LienUrgencyNormal
	for now := completedAt; now.Before(completedAt.Add(lienWindow + 48*time.Hour)); now = now.Add(6 * time.Hour) {
		state := job.DeriveLienState(j, now, lienWindow)
		require.GreaterOrEqual(t, state.Urgency, last, "urgency regressed at %s", now)
		last = state.Urgency
	}
	require.Equal(t, job.LienUrgencyExpired, last)
}

func TestDeriveLienState_SentAndWaivedAreTerminal(t *testing.T) {
	completedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	longPast := completedAt.Add(lienWindow * 3)

	for _, terminal := range []job.LienStatus{job.LienSent, job.LienWaived} {
		j := completedJob(completedAt)
		j = job.Patch{LienRightsStatus: &terminal}.ApplyTo(j)

		state := job.DeriveLienState(j, longPast, lienWindow)

		require.Equal(t, terminal, state.Status)
		require.Equal(t, job.LienUrgencyNormal, state.Urgency)
	}
}

func TestDeriveLienState_CompletedWithoutDateFlagsIntegrity(t *testing.T) {
	j := job.New("gutters")
	status := job.StatusCompleted
	j = job.Patch{Status: &status}.ApplyTo(j)

	state := job.DeriveLienState(j, time.Now(), lienWindow)

	require.True(t, state.IntegrityWarning)
	require.Equal(t, job.LienNotApplicable, state.Status)
}

func TestDeriveLienState_NotCompletedStaysNotApplicable(t *testing.T) {
	j := job.New("roof_repair")

	state := job.DeriveLienState(j, time.Now(), lienWindow)

	require.Equal(t, job.LienNotApplicable, state.Status)
	require.False(t, state.IntegrityWarning)
	require.Nil(t, state.ExpiresAt)
}
