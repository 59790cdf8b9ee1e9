package access

import (
	"github.com/google/uuid"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
)

// Capabilities is the closed set of operations an actor holds on a job. The
// zero value grants nothing, so a missed branch always fails closed.
type Capabilities struct {
	View         bool
	Edit         bool
	Delete       bool
	ViewHistory  bool
	ManageTeam   bool
	UploadPhotos bool
}

func (c Capabilities) None() bool {
	return c == Capabilities{}
}

func fullAccess() Capabilities {
	return Capabilities{
		View:         true,
		Edit:         true,
		Delete:       true,
		ViewHistory:  true,
		ManageTeam:   true,
		UploadPhotos: true,
	}
}

func backOfficeAccess() Capabilities {
	return Capabilities{
		View:         true,
		Edit:         true,
		ViewHistory:  true,
		UploadPhotos: true,
	}
}

func assignedAccess() Capabilities {
	return Capabilities{
		View:         true,
		Edit:         true,
		UploadPhotos: true,
	}
}

func fieldCrewAccess() Capabilities {
	// No job view: field crews only ever see the work-order projection.
	return Capabilities{UploadPhotos: true}
}

// Resolve returns the capabilities actor holds on j. teamIDs is the actor's
// team-membership snapshot, only consulted for team leads; callers resolve
// it fresh per request. Rules are evaluated in precedence order and the
// first match wins. An unknown role resolves like field_crew.
func Resolve(actor user.User, j *job.Job, teamIDs []uuid.UUID) Capabilities {
	if !actor.IsActive() {
		return Capabilities{}
	}

	switch actor.Role() {
	case user.RoleOwner:
		return fullAccess()
	case user.RoleAdmin, user.RoleOffice:
		return backOfficeAccess()
	case user.RoleTeamLead:
		if j == nil {
			return Capabilities{}
		}
		if j.IsAssignedTo(actor.ID()) {
			return assignedAccess()
		}
		for _, id := range teamIDs {
			if j.IsAssignedTo(id) {
				return assignedAccess()
			}
		}
		return Capabilities{}
	case user.RoleSalesRep:
		if j != nil && j.IsAssignedTo(actor.ID()) {
			return assignedAccess()
		}
		return Capabilities{}
	default:
		return fieldCrewAccess()
	}
}
