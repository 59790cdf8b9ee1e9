package job

import "time"

// LienStatus tracks where a job stands in its lien-rights lifecycle.
// Pending and expired are derived from time; sent and waived are only ever
// set by an explicit actor action.
type LienStatus string

const (
	LienNotApplicable LienStatus = "not_applicable"
	LienPending       LienStatus = "pending"
	LienSent          LienStatus = "sent"
	LienExpired       LienStatus = "expired"
	LienWaived        LienStatus = "waived"
)

func (s LienStatus) Valid() bool {
	switch s {
	case LienNotApplicable, LienPending, LienSent, LienExpired, LienWaived:
		return true
	}
	return false
}

// LienUrgency orders how close a pending lien window is to closing. The
// ordering is severity: Normal < Warning < Critical < Expired.
type LienUrgency int

const (
	LienUrgencyNormal LienUrgency = iota
	LienUrgencyWarning
	LienUrgencyCritical
	LienUrgencyExpired
)

func (u LienUrgency) String() string {
	switch u {
	case LienUrgencyWarning:
		return "warning"
	case LienUrgencyCritical:
		return "critical"
	case LienUrgencyExpired:
		return "expired"
	default:
		return "normal"
	}
}

const (
	lienCriticalWindow = 14 * 24 * time.Hour
	lienWarningWindow  = 30 * 24 * time.Hour
)

// LienState is the derived lien-rights view of a job at a point in time.
// IntegrityWarning flags a completed job with no completion date; that is a
// data problem to report, not an error to fail on.
type LienState struct {
	Status           LienStatus
	ExpiresAt        *time.Time
	Urgency          LienUrgency
	IntegrityWarning bool
}

// DeriveLienState computes the lien-rights state of a job as of now. The
// window is the statutory filing window configured per deployment.
//
// Urgency boundaries are strict: exactly 14 days remaining is a warning,
// anything under 14 days is critical.
func DeriveLienState(j Job, now time.Time, window time.Duration) LienState {
	switch j.LienRightsStatus() {
	case LienSent, LienWaived:
		return LienState{Status: j.LienRightsStatus(), ExpiresAt: j.LienRightsExpiresAt()}
	}

	completedAt := j.ProjectCompletedAt()
	if completedAt == nil {
		if j.Status() == StatusCompleted {
			return LienState{Status: LienNotApplicable, IntegrityWarning: true}
		}
		return LienState{Status: LienNotApplicable}
	}
	if j.Status() != StatusCompleted && j.LienRightsStatus() == LienNotApplicable {
		return LienState{Status: LienNotApplicable}
	}

	expiresAt := j.LienRightsExpiresAt()
	if expiresAt == nil {
		at := completedAt.Add(window)
		expiresAt = &at
	}

	if now.After(*expiresAt) {
		return LienState{Status: LienExpired, ExpiresAt: expiresAt, Urgency: LienUrgencyExpired}
	}

	state := LienState{Status: LienPending, ExpiresAt: expiresAt}
	switch remaining := expiresAt.Sub(now); {
	case remaining < lienCriticalWindow:
		state.Urgency = LienUrgencyCritical
	case remaining < lienWarningWindow:
		state.Urgency = LienUrgencyWarning
	default:
		state.Urgency = LienUrgencyNormal
	}
	return state
}
