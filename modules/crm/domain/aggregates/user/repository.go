package user

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Role   Role
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]User, error)
	// TeamMemberIDs returns the active users reporting to the given team
	// lead. The lead itself is never part of the result; the hierarchy is
	// exactly one level deep.
	TeamMemberIDs(ctx context.Context, teamLeadID uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) error
}
