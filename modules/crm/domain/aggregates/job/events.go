package job

import (
	"github.com/google/uuid"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
)

// Domain events published after the owning transaction commits. Handlers
// must treat them as notifications, not as a write channel.

type CreatedEvent struct {
	ActorID uuid.UUID
	Result  Job
}

type UpdatedEvent struct {
	ActorID uuid.UUID
	Result  Job
	Changes []edithistory.FieldChange
}

type CompletedEvent struct {
	ActorID uuid.UUID
	Result  Job
}

type DeletedEvent struct {
	ActorID uuid.UUID
	JobID   uuid.UUID
}
