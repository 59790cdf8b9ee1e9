package job

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
)

// Patch is a partial update to a job. Nil pointer fields are left untouched.
// ClearAssignee and ClearProjectCompletedAt exist because "set to nothing"
// must stay distinguishable from "leave alone".
type Patch struct {
	Status                  *Status
	AssignedTo              *uuid.UUID
	ClearAssignee           bool
	DealType                *string
	Priority                *string
	InternalNotes           *string
	CustomerStatusMessage   *string
	ProjectCompletedAt      *time.Time
	ClearProjectCompletedAt bool
	LienRightsStatus        *LienStatus
	LienRightsExpiresAt     *time.Time
	AmountPaid              *decimal.Decimal
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil &&
		p.AssignedTo == nil && !p.ClearAssignee &&
		p.DealType == nil &&
		p.Priority == nil &&
		p.InternalNotes == nil &&
		p.CustomerStatusMessage == nil &&
		p.ProjectCompletedAt == nil && !p.ClearProjectCompletedAt &&
		p.LienRightsStatus == nil &&
		p.LienRightsExpiresAt == nil &&
		p.AmountPaid == nil
}

// ApplyTo returns a copy of j with the patch applied.
func (p Patch) ApplyTo(j Job) Job {
	if p.Status != nil {
		j.status = *p.Status
	}
	if p.ClearAssignee {
		j.assignedTo = nil
	} else if p.AssignedTo != nil {
		id := *p.AssignedTo
		j.assignedTo = &id
	}
	if p.DealType != nil {
		j.dealType = *p.DealType
	}
	if p.Priority != nil {
		j.priority = *p.Priority
	}
	if p.InternalNotes != nil {
		j.internalNotes = *p.InternalNotes
	}
	if p.CustomerStatusMessage != nil {
		j.customerStatusMessage = *p.CustomerStatusMessage
	}
	if p.ClearProjectCompletedAt {
		j.projectCompletedAt = nil
	} else if p.ProjectCompletedAt != nil {
		at := *p.ProjectCompletedAt
		j.projectCompletedAt = &at
	}
	if p.LienRightsStatus != nil {
		j.lienRightsStatus = *p.LienRightsStatus
	}
	if p.LienRightsExpiresAt != nil {
		at := *p.LienRightsExpiresAt
		j.lienRightsExpiresAt = &at
	}
	if p.AmountPaid != nil {
		j.amountPaid = *p.AmountPaid
	}
	return j
}

// Field names as they appear in edit history. These are part of the audit
// record format; renaming one breaks historical queries.
const (
	FieldStatus                = "status"
	FieldAssignedTo            = "assigned_to"
	FieldDealType              = "deal_type"
	FieldPriority              = "priority"
	FieldInternalNotes         = "internal_notes"
	FieldCustomerStatusMessage = "customer_status_message"
	FieldProjectCompletedAt    = "project_completed_at"
	FieldLienRightsStatus      = "lien_rights_status"
	FieldLienRightsExpiresAt   = "lien_rights_expires_at"
	FieldAmountPaid            = "amount_paid"
)

// Diff lists every field that differs between prev and next, one change per
// field, values canonicalized for the audit trail. Status and assignment
// changes carry their own edit types.
func Diff(prev, next Job) []edithistory.FieldChange {
	var changes []edithistory.FieldChange

	add := func(field string, old, new *string, editType edithistory.EditType) {
		if edithistory.Equal(old, new) {
			return
		}
		changes = append(changes, edithistory.FieldChange{
			Field:    field,
			Old:      old,
			New:      new,
			EditType: editType,
		})
	}

	add(FieldStatus,
		edithistory.EncodeString(string(prev.status)),
		edithistory.EncodeString(string(next.status)),
		edithistory.EditTypeStatusChange)
	add(FieldAssignedTo,
		edithistory.EncodeUUID(prev.assignedTo),
		edithistory.EncodeUUID(next.assignedTo),
		edithistory.EditTypeAssign)
	add(FieldDealType,
		edithistory.EncodeString(prev.dealType),
		edithistory.EncodeString(next.dealType),
		edithistory.EditTypeUpdate)
	add(FieldPriority,
		edithistory.EncodeString(prev.priority),
		edithistory.EncodeString(next.priority),
		edithistory.EditTypeUpdate)
	add(FieldInternalNotes,
		edithistory.EncodeString(prev.internalNotes),
		edithistory.EncodeString(next.internalNotes),
		edithistory.EditTypeUpdate)
	add(FieldCustomerStatusMessage,
		edithistory.EncodeString(prev.customerStatusMessage),
		edithistory.EncodeString(next.customerStatusMessage),
		edithistory.EditTypeUpdate)
	add(FieldProjectCompletedAt,
		edithistory.EncodeTime(prev.projectCompletedAt),
		edithistory.EncodeTime(next.projectCompletedAt),
		edithistory.EditTypeUpdate)
	add(FieldLienRightsStatus,
		edithistory.EncodeString(string(prev.lienRightsStatus)),
		edithistory.EncodeString(string(next.lienRightsStatus)),
		edithistory.EditTypeUpdate)
	add(FieldLienRightsExpiresAt,
		edithistory.EncodeTime(prev.lienRightsExpiresAt),
		edithistory.EncodeTime(next.lienRightsExpiresAt),
		edithistory.EditTypeUpdate)
	if !prev.amountPaid.Equal(next.amountPaid) {
		add(FieldAmountPaid,
			edithistory.EncodeDecimal(prev.amountPaid),
			edithistory.EncodeDecimal(next.amountPaid),
			edithistory.EditTypeUpdate)
	}

	return changes
}
