package job

import (
	"context"

	"github.com/google/uuid"
)

// FindParams scopes list queries. Unrestricted lists everything; otherwise
// only jobs assigned to one of AssignedToAny match, and an empty slice
// matches nothing. Services translate an access filter into these fields.
type FindParams struct {
	Unrestricted  bool
	AssignedToAny []uuid.UUID
	Status        Status
	LienStatuses  []LienStatus
	CompletedOnly bool
	Limit         int
	Offset        int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Job, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, j Job) (Job, error)
	Update(ctx context.Context, j Job) error
	Delete(ctx context.Context, id uuid.UUID) error
}
