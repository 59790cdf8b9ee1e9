package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/access"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
)

// AccessService is the single entry point for capability resolution. Every
// surface (list filters, detail views, mutation guards) goes through it so
// there is exactly one place the rules can drift from.
type AccessService struct {
	users user.Repository
}

func NewAccessService(users user.Repository) *AccessService {
	return &AccessService{users: users}
}

// ResolveCapabilities returns what actor may do to j. The team-membership
// snapshot is resolved fresh on every call; it is never cached across a
// team_lead_id change.
func (s *AccessService) ResolveCapabilities(ctx context.Context, actor user.User, j *job.Job) (access.Capabilities, error) {
	teamIDs, err := s.teamScope(ctx, actor)
	if err != nil {
		return access.Capabilities{}, err
	}
	caps := access.Resolve(actor, j, teamIDs)
	if caps.None() {
		authzDenials.Inc()
	}
	return caps, nil
}

// ResolveFilter returns the visibility predicate for collection operations.
func (s *AccessService) ResolveFilter(ctx context.Context, actor user.User) (access.Filter, error) {
	teamIDs, err := s.teamScope(ctx, actor)
	if err != nil {
		return access.Filter{}, err
	}
	return access.ResolveFilter(actor, teamIDs), nil
}

// TeamMemberIDs resolves the one-level team under a lead. Requesting another
// lead's team requires the manage-team capability.
func (s *AccessService) TeamMemberIDs(ctx context.Context, actor user.User, teamLeadID uuid.UUID) ([]uuid.UUID, error) {
	if !actor.IsActive() {
		return nil, ErrForbidden
	}
	if actor.ID() != teamLeadID {
		caps, err := s.ResolveCapabilities(ctx, actor, nil)
		if err != nil {
			return nil, err
		}
		if !caps.ManageTeam {
			return nil, ErrForbidden
		}
	}
	return s.users.TeamMemberIDs(ctx, teamLeadID)
}

func (s *AccessService) teamScope(ctx context.Context, actor user.User) ([]uuid.UUID, error) {
	if !actor.IsActive() || actor.Role() != user.RoleTeamLead {
		return nil, nil
	}
	return s.users.TeamMemberIDs(ctx, actor.ID())
}

// guardJob authorizes actor against the capability selected by pick. When
// the actor cannot even view the job, the failure reads as not-found so a
// scoped actor cannot probe which job IDs exist.
func (s *AccessService) guardJob(ctx context.Context, actor user.User, j *job.Job, pick func(access.Capabilities) bool) error {
	caps, err := s.ResolveCapabilities(ctx, actor, j)
	if err != nil {
		return err
	}
	if pick(caps) {
		return nil
	}
	if !caps.View {
		return ErrJobNotFound
	}
	return ErrForbidden
}

// mapRepoErr converts a repository not-found sentinel into the given
// service error, passing everything else through.
func mapRepoErr(err, sentinel, mapped error) error {
	if errors.Is(err, sentinel) {
		return mapped
	}
	return err
}
