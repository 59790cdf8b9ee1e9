package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/presentation/viewmodels"
	"github.com/nextdoorextsolutions/roofline/modules/crm/services"
	"github.com/nextdoorextsolutions/roofline/pkg/httpapi"
)

type CommissionsController struct {
	commissions *services.CommissionService
	users       user.Repository
}

func NewCommissionsController(
	commissions *services.CommissionService,
	users user.Repository,
) *CommissionsController {
	return &CommissionsController{commissions: commissions, users: users}
}

func (c *CommissionsController) Key() string {
	return "/commissions"
}

func (c *CommissionsController) Register(r *mux.Router) {
	r.HandleFunc("/commissions/progress", c.Progress).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}/commission", c.Submit).Methods(http.MethodPost)
	r.HandleFunc("/commissions/{id}/review", c.Review).Methods(http.MethodPost)
}

// Progress reports the actor's own standing for the current week. There is no
// way to request another rep's progress.
func (c *CommissionsController) Progress(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}

	progress, err := c.commissions.WeeklyProgress(r.Context(), actor)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.CommissionProgressFromDomain(progress))
}

type submitRequest struct {
	CheckAmount string `json:"checkAmount"`
}

func (c *CommissionsController) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}
	jobID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequest(w, "malformed job id")
		return
	}

	var body submitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	amount, err := decimal.NewFromString(body.CheckAmount)
	if err != nil || amount.IsNegative() {
		writeBadRequest(w, "malformed checkAmount")
		return
	}

	req, err := c.commissions.SubmitForBonus(r.Context(), actor, jobID, amount)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, viewmodels.CommissionRequestFromDomain(req))
}

type reviewRequest struct {
	Approve      bool    `json:"approve"`
	DenialReason *string `json:"denialReason"`
}

func (c *CommissionsController) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}
	requestID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeBadRequest(w, "malformed request id")
		return
	}

	var body reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	err = c.commissions.Review(r.Context(), actor, uint(requestID), body.Approve, body.DenialReason)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
