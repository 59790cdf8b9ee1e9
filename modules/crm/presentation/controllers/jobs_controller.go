package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
	"github.com/nextdoorextsolutions/roofline/modules/crm/presentation/viewmodels"
	"github.com/nextdoorextsolutions/roofline/modules/crm/services"
	"github.com/nextdoorextsolutions/roofline/pkg/httpapi"
)

type JobsController struct {
	jobs  *services.JobService
	audit *services.AuditService
	users user.Repository
}

func NewJobsController(
	jobs *services.JobService,
	audit *services.AuditService,
	users user.Repository,
) *JobsController {
	return &JobsController{jobs: jobs, audit: audit, users: users}
}

func (c *JobsController) Key() string {
	return "/jobs"
}

func (c *JobsController) Register(r *mux.Router) {
	r.HandleFunc("/pipeline", c.Pipeline).Methods(http.MethodGet)
	r.HandleFunc("/jobs", c.List).Methods(http.MethodGet)
	r.HandleFunc("/jobs", c.Create).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}", c.GetByID).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}", c.Update).Methods(http.MethodPatch)
	r.HandleFunc("/jobs/{id}", c.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/jobs/{id}/work-order", c.WorkOrder).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}/history", c.History).Methods(http.MethodGet)
	r.HandleFunc("/history/{entryID}", c.DeleteHistoryEntry).Methods(http.MethodDelete)
}

// Pipeline returns the ordered status catalog for board rendering. Public
// metadata, no actor required.
func (c *JobsController) Pipeline(w http.ResponseWriter, r *http.Request) {
	type statusVM struct {
		Status string `json:"status"`
		Label  string `json:"label"`
		Order  int    `json:"order"`
	}
	catalog := job.Pipeline()
	out := make([]statusVM, 0, len(catalog))
	for _, info := range catalog {
		out = append(out, statusVM{Status: string(info.Status), Label: info.Label, Order: info.Order})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *JobsController) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}

	params := &job.FindParams{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !job.Status(status).Valid() {
			writeBadRequest(w, "unknown status")
			return
		}
		params.Status = job.Status(status)
	}
	params.Limit, params.Offset = pageParams(r)

	found, err := c.jobs.GetPaginated(r.Context(), actor, params)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.JobsFromDomain(found))
}

type createJobRequest struct {
	DealType   string  `json:"dealType"`
	Priority   string  `json:"priority"`
	AssignedTo *string `json:"assignedTo"`
}

func (c *JobsController) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}

	var body createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	dto := services.CreateJobDTO{DealType: body.DealType, Priority: body.Priority}
	if body.AssignedTo != nil {
		id, err := uuid.Parse(*body.AssignedTo)
		if err != nil {
			writeBadRequest(w, "malformed assignedTo")
			return
		}
		dto.AssignedTo = &id
	}

	created, err := c.jobs.Create(r.Context(), actor, dto)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, viewmodels.JobFromDomain(created))
}

func (c *JobsController) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequest(w, "malformed job id")
		return
	}

	j, err := c.jobs.GetByID(r.Context(), actor, id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.JobFromDomain(j))
}

type updateJobRequest struct {
	Status                  *string    `json:"status"`
	AssignedTo              *string    `json:"assignedTo"`
	ClearAssignee           bool       `json:"clearAssignee"`
	DealType                *string    `json:"dealType"`
	Priority                *string    `json:"priority"`
	InternalNotes           *string    `json:"internalNotes"`
	CustomerStatusMessage   *string    `json:"customerStatusMessage"`
	ProjectCompletedAt      *time.Time `json:"projectCompletedAt"`
	ClearProjectCompletedAt bool       `json:"clearProjectCompletedAt"`
	LienRightsStatus        *string    `json:"lienRightsStatus"`
	AmountPaid              *string    `json:"amountPaid"`
}

func (b updateJobRequest) toPatch() (job.Patch, string) {
	patch := job.Patch{
		DealType:                b.DealType,
		Priority:                b.Priority,
		InternalNotes:           b.InternalNotes,
		CustomerStatusMessage:   b.CustomerStatusMessage,
		ProjectCompletedAt:      b.ProjectCompletedAt,
		ClearAssignee:           b.ClearAssignee,
		ClearProjectCompletedAt: b.ClearProjectCompletedAt,
	}
	if b.Status != nil {
		status := job.Status(*b.Status)
		if !status.Valid() {
			return job.Patch{}, "unknown status"
		}
		patch.Status = &status
	}
	if b.AssignedTo != nil {
		id, err := uuid.Parse(*b.AssignedTo)
		if err != nil {
			return job.Patch{}, "malformed assignedTo"
		}
		patch.AssignedTo = &id
	}
	if b.LienRightsStatus != nil {
		status := job.LienStatus(*b.LienRightsStatus)
		if !status.Valid() {
			return job.Patch{}, "unknown lienRightsStatus"
		}
		patch.LienRightsStatus = &status
	}
	if b.AmountPaid != nil {
		amount, err := decimal.NewFromString(*b.AmountPaid)
		if err != nil {
			return job.Patch{}, "malformed amountPaid"
		}
		patch.AmountPaid = &amount
	}
	return patch, ""
}

func (c *JobsController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequest(w, "malformed job id")
		return
	}

	var body updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	patch, problem := body.toPatch()
	if problem != "" {
		writeBadRequest(w, problem)
		return
	}

	updated, err := c.jobs.Update(r.Context(), actor, id, patch)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.JobFromDomain(updated))
}

func (c *JobsController) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequest(w, "malformed job id")
		return
	}

	if err := c.jobs.Delete(r.Context(), actor, id); err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

func (c *JobsController) WorkOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequest(w, "malformed job id")
		return
	}

	wo, err := c.jobs.WorkOrder(r.Context(), actor, id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.WorkOrderFromDomain(wo))
}

func (c *JobsController) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequest(w, "malformed job id")
		return
	}

	params := &edithistory.FindParams{}
	params.Limit, params.Offset = pageParams(r)
	if actorID := r.URL.Query().Get("actorId"); actorID != "" {
		parsed, err := uuid.Parse(actorID)
		if err != nil {
			writeBadRequest(w, "malformed actorId")
			return
		}
		params.ActorID = &parsed
	}

	entries, total, err := c.audit.GetHistory(r.Context(), actor, id, params)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}

	out := struct {
		Total   int64                     `json:"total"`
		Entries []viewmodels.HistoryEntry `json:"entries"`
	}{Total: total, Entries: make([]viewmodels.HistoryEntry, 0, len(entries))}
	for _, entry := range entries {
		out.Entries = append(out.Entries, viewmodels.HistoryEntryFromDomain(entry))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *JobsController) DeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}
	entryID, err := strconv.ParseUint(mux.Vars(r)["entryID"], 10, 64)
	if err != nil {
		writeBadRequest(w, "malformed entry id")
		return
	}

	if err := c.audit.DeleteEntry(r.Context(), actor, uint(entryID)); err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

func pageParams(r *http.Request) (limit, offset int) {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}
	return limit, offset
}
