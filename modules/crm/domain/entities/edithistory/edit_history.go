package edithistory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EditType classifies what kind of mutation produced an entry.
type EditType string

const (
	EditTypeCreate       EditType = "create"
	EditTypeUpdate       EditType = "update"
	EditTypeDelete       EditType = "delete"
	EditTypeAssign       EditType = "assign"
	EditTypeStatusChange EditType = "status_change"
)

// EditHistoryEntry is one field-level change on a job. Entries are written
// in the same transaction as the job row and never updated afterwards.
// OldValue/NewValue are canonical strings; nil represents SQL NULL and is
// distinguishable from the literal string "null".
type EditHistoryEntry struct {
	ID        uint
	JobID     uuid.UUID
	FieldName string
	OldValue  *string
	NewValue  *string
	EditType  EditType
	ActorID   uuid.UUID
	CreatedAt time.Time
}

// FieldChange is a single diffed field heading into the audit trail, values
// already canonicalized.
type FieldChange struct {
	Field    string
	Old      *string
	New      *string
	EditType EditType
}

type FindParams struct {
	JobID    uuid.UUID
	ActorID  *uuid.UUID
	EditType EditType
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type Repository interface {
	// CreateBatch inserts all entries of one mutation. Callers are expected
	// to run it inside the same transaction as the job update.
	CreateBatch(ctx context.Context, entries []*EditHistoryEntry) error
	List(ctx context.Context, params *FindParams) ([]*EditHistoryEntry, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uint) (*EditHistoryEntry, error)
	Delete(ctx context.Context, id uint) error
}
