package viewmodels

import (
	"time"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/commission"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
)

type Job struct {
	ID                    string     `json:"id"`
	Status                string     `json:"status"`
	StatusLabel           string     `json:"statusLabel"`
	AssignedTo            *string    `json:"assignedTo,omitempty"`
	DealType              string     `json:"dealType"`
	Priority              string     `json:"priority"`
	InternalNotes         string     `json:"internalNotes"`
	CustomerStatusMessage string     `json:"customerStatusMessage"`
	ProjectCompletedAt    *time.Time `json:"projectCompletedAt,omitempty"`
	LienRightsStatus      string     `json:"lienRightsStatus"`
	LienRightsExpiresAt   *time.Time `json:"lienRightsExpiresAt,omitempty"`
	AmountPaid            string     `json:"amountPaid"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func JobFromDomain(j job.Job) Job {
	vm := Job{
		ID:                    j.ID().String(),
		Status:                string(j.Status()),
		StatusLabel:           j.Status().Label(),
		DealType:              j.DealType(),
		Priority:              j.Priority(),
		InternalNotes:         j.InternalNotes(),
		CustomerStatusMessage: j.CustomerStatusMessage(),
		ProjectCompletedAt:    j.ProjectCompletedAt(),
		LienRightsStatus:      string(j.LienRightsStatus()),
		LienRightsExpiresAt:   j.LienRightsExpiresAt(),
		AmountPaid:            j.AmountPaid().String(),
		CreatedAt:             j.CreatedAt(),
		UpdatedAt:             j.UpdatedAt(),
	}
	if assignee := j.AssignedTo(); assignee != nil {
		s := assignee.String()
		vm.AssignedTo = &s
	}
	return vm
}

func JobsFromDomain(jobs []job.Job) []Job {
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobFromDomain(j))
	}
	return out
}

type WorkOrder struct {
	JobID                 string     `json:"jobId"`
	Status                string     `json:"status"`
	StatusLabel           string     `json:"statusLabel"`
	DealType              string     `json:"dealType"`
	Priority              string     `json:"priority"`
	CustomerStatusMessage string     `json:"customerStatusMessage"`
	ProjectCompletedAt    *time.Time `json:"projectCompletedAt,omitempty"`
}

func WorkOrderFromDomain(wo job.WorkOrder) WorkOrder {
	return WorkOrder{
		JobID:                 wo.JobID.String(),
		Status:                string(wo.Status),
		StatusLabel:           wo.StatusLabel,
		DealType:              wo.DealType,
		Priority:              wo.Priority,
		CustomerStatusMessage: wo.CustomerStatusMessage,
		ProjectCompletedAt:    wo.ProjectCompletedAt,
	}
}

type HistoryEntry struct {
	ID        uint      `json:"id"`
	JobID     string    `json:"jobId"`
	FieldName string    `json:"fieldName"`
	OldValue  *string   `json:"oldValue"`
	NewValue  *string   `json:"newValue"`
	EditType  string    `json:"editType"`
	ActorID   string    `json:"actorId"`
	CreatedAt time.Time `json:"createdAt"`
}

func HistoryEntryFromDomain(e *edithistory.EditHistoryEntry) HistoryEntry {
	return HistoryEntry{
		ID:        e.ID,
		JobID:     e.JobID.String(),
		FieldName: e.FieldName,
		OldValue:  e.OldValue,
		NewValue:  e.NewValue,
		EditType:  string(e.EditType),
		ActorID:   e.ActorID.String(),
		CreatedAt: e.CreatedAt,
	}
}

type LienState struct {
	Status           string     `json:"status"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	Urgency          string     `json:"urgency"`
	IntegrityWarning bool       `json:"integrityWarning,omitempty"`
}

func LienStateFromDomain(state job.LienState) LienState {
	return LienState{
		Status:           string(state.Status),
		ExpiresAt:        state.ExpiresAt,
		Urgency:          state.Urgency.String(),
		IntegrityWarning: state.IntegrityWarning,
	}
}

type BonusTier struct {
	RequiredDeals int    `json:"requiredDeals"`
	BonusAmount   string `json:"bonusAmount"`
	Achieved      bool   `json:"achieved"`
}

type CommissionProgress struct {
	WeekStart      time.Time   `json:"weekStart"`
	WeekEnd        time.Time   `json:"weekEnd"`
	ApprovedDeals  int64       `json:"approvedDeals"`
	CurrentBonus   *string     `json:"currentBonus,omitempty"`
	NextTierDeals  *int        `json:"nextTierDeals,omitempty"`
	DealsRemaining int         `json:"dealsRemaining"`
	Tiers          []BonusTier `json:"tiers"`
}

func CommissionProgressFromDomain(p commission.Progress) CommissionProgress {
	vm := CommissionProgress{
		WeekStart:      p.WeekStart,
		WeekEnd:        p.WeekEnd,
		ApprovedDeals:  p.ApprovedDeals,
		DealsRemaining: p.DealsRemaining,
		Tiers:          make([]BonusTier, 0, len(p.AllTiers)),
	}
	if p.CurrentTier != nil {
		bonus := p.CurrentTier.BonusAmount.String()
		vm.CurrentBonus = &bonus
	}
	if p.NextTier != nil {
		deals := p.NextTier.RequiredDeals
		vm.NextTierDeals = &deals
	}
	for _, tier := range p.AllTiers {
		vm.Tiers = append(vm.Tiers, BonusTier{
			RequiredDeals: tier.Tier.RequiredDeals,
			BonusAmount:   tier.Tier.BonusAmount.String(),
			Achieved:      tier.Achieved,
		})
	}
	return vm
}

type CommissionRequest struct {
	ID           uint      `json:"id"`
	JobID        string    `json:"jobId"`
	CheckAmount  string    `json:"checkAmount"`
	Status       string    `json:"status"`
	DenialReason *string   `json:"denialReason,omitempty"`
	SubmittedBy  string    `json:"submittedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

func CommissionRequestFromDomain(req *commission.CommissionRequest) CommissionRequest {
	return CommissionRequest{
		ID:           req.ID,
		JobID:        req.JobID.String(),
		CheckAmount:  req.CheckAmount.String(),
		Status:       string(req.Status),
		DenialReason: req.DenialReason,
		SubmittedBy:  req.SubmittedBy.String(),
		CreatedAt:    req.CreatedAt,
	}
}
