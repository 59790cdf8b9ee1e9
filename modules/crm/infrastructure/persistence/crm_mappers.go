package persistence

import (
	"github.com/google/uuid"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/commission"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence/models"
)

func parseOptionalUUID(v *string) (*uuid.UUID, error) {
	if v == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalUUIDString(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func toDomainUser(row *models.User) (user.User, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return user.User{}, err
	}
	teamLeadID, err := parseOptionalUUID(row.TeamLeadID)
	if err != nil {
		return user.User{}, err
	}
	return user.Hydrate(
		id,
		user.ParseRole(row.Role),
		teamLeadID,
		row.RepCode,
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDBUser(u user.User) *models.User {
	return &models.User{
		ID:         u.ID().String(),
		Role:       string(u.Role()),
		TeamLeadID: optionalUUIDString(u.TeamLeadID()),
		RepCode:    u.RepCode(),
		IsActive:   u.IsActive(),
		CreatedAt:  u.CreatedAt(),
		UpdatedAt:  u.UpdatedAt(),
	}
}

func toDomainJob(row *models.Job) (job.Job, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return job.Job{}, err
	}
	assignedTo, err := parseOptionalUUID(row.AssignedTo)
	if err != nil {
		return job.Job{}, err
	}
	return job.Hydrate(
		id,
		job.Status(row.Status),
		assignedTo,
		row.DealType,
		row.Priority,
		row.InternalNotes,
		row.CustomerStatusMessage,
		row.ProjectCompletedAt,
		job.LienStatus(row.LienRightsStatus),
		row.LienRightsExpiresAt,
		row.AmountPaid,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDBJob(j job.Job) *models.Job {
	return &models.Job{
		ID:                    j.ID().String(),
		Status:                string(j.Status()),
		AssignedTo:            optionalUUIDString(j.AssignedTo()),
		DealType:              j.DealType(),
		Priority:              j.Priority(),
		InternalNotes:         j.InternalNotes(),
		CustomerStatusMessage: j.CustomerStatusMessage(),
		ProjectCompletedAt:    j.ProjectCompletedAt(),
		LienRightsStatus:      string(j.LienRightsStatus()),
		LienRightsExpiresAt:   j.LienRightsExpiresAt(),
		AmountPaid:            j.AmountPaid(),
		CreatedAt:             j.CreatedAt(),
		UpdatedAt:             j.UpdatedAt(),
	}
}

func toDomainEditHistoryEntry(row *models.EditHistoryEntry) (*edithistory.EditHistoryEntry, error) {
	jobID, err := uuid.Parse(row.JobID)
	if err != nil {
		return nil, err
	}
	actorID, err := uuid.Parse(row.ActorID)
	if err != nil {
		return nil, err
	}
	return &edithistory.EditHistoryEntry{
		ID:        row.ID,
		JobID:     jobID,
		FieldName: row.FieldName,
		OldValue:  row.OldValue,
		NewValue:  row.NewValue,
		EditType:  edithistory.EditType(row.EditType),
		ActorID:   actorID,
		CreatedAt: row.CreatedAt,
	}, nil
}

func toDomainCommissionRequest(row *models.CommissionRequest) (*commission.CommissionRequest, error) {
	jobID, err := uuid.Parse(row.JobID)
	if err != nil {
		return nil, err
	}
	submittedBy, err := uuid.Parse(row.SubmittedBy)
	if err != nil {
		return nil, err
	}
	return &commission.CommissionRequest{
		ID:           row.ID,
		JobID:        jobID,
		CheckAmount:  row.CheckAmount,
		Status:       commission.RequestStatus(row.Status),
		DenialReason: row.DenialReason,
		SubmittedBy:  submittedBy,
		CreatedAt:    row.CreatedAt,
	}, nil
}
