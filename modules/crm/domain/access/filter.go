package access

import (
	"github.com/google/uuid"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
)

// Filter is the collection-level counterpart of Resolve: the visibility
// predicate applied to list queries before any rows are counted or returned.
type Filter struct {
	All           bool
	AssignedToAny []uuid.UUID
}

// Matches reports whether a job with the given assignee passes the filter.
func (f Filter) Matches(assignedTo *uuid.UUID) bool {
	if f.All {
		return true
	}
	if assignedTo == nil {
		return false
	}
	for _, id := range f.AssignedToAny {
		if *assignedTo == id {
			return true
		}
	}
	return false
}

// Empty reports whether the filter can never match anything.
func (f Filter) Empty() bool {
	return !f.All && len(f.AssignedToAny) == 0
}

// ResolveFilter builds the visibility filter for list operations. teamIDs is
// only consulted for team leads. Field crews and inactive users get an empty
// filter.
func ResolveFilter(actor user.User, teamIDs []uuid.UUID) Filter {
	if !actor.IsActive() {
		return Filter{}
	}

	switch actor.Role() {
	case user.RoleOwner, user.RoleAdmin, user.RoleOffice:
		return Filter{All: true}
	case user.RoleTeamLead:
		scope := make([]uuid.UUID, 0, len(teamIDs)+1)
		scope = append(scope, teamIDs...)
		scope = append(scope, actor.ID())
		return Filter{AssignedToAny: scope}
	case user.RoleSalesRep:
		return Filter{AssignedToAny: []uuid.UUID{actor.ID()}}
	default:
		return Filter{}
	}
}
