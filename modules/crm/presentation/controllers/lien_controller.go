package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/presentation/viewmodels"
	"github.com/nextdoorextsolutions/roofline/modules/crm/services"
	"github.com/nextdoorextsolutions/roofline/pkg/httpapi"
)

type LienController struct {
	liens *services.LienService
	jobs  *services.JobService
	users user.Repository
}

func NewLienController(
	liens *services.LienService,
	jobs *services.JobService,
	users user.Repository,
) *LienController {
	return &LienController{liens: liens, jobs: jobs, users: users}
}

func (c *LienController) Key() string {
	return "/liens"
}

func (c *LienController) Register(r *mux.Router) {
	r.HandleFunc("/liens/critical", c.Critical).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}/lien", c.State).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}/lien/sent", c.MarkSent).Methods(http.MethodPost)
	r.HandleFunc("/jobs/{id}/lien/waive", c.Waive).Methods(http.MethodPost)
}

// Critical lists lien windows at critical urgency or already expired within
// the actor's visibility scope.
func (c *LienController) Critical(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}

	critical, err := c.liens.CriticalJobs(r.Context(), actor)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}

	type criticalVM struct {
		Job  viewmodels.Job       `json:"job"`
		Lien viewmodels.LienState `json:"lien"`
	}
	out := make([]criticalVM, 0, len(critical))
	for _, item := range critical {
		out = append(out, criticalVM{
			Job:  viewmodels.JobFromDomain(item.Job),
			Lien: viewmodels.LienStateFromDomain(item.State),
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *LienController) State(w http.ResponseWriter, r *http.Request) {
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
	state := c.liens.DeriveState(r.Context(), j)
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.LienStateFromDomain(state))
}

func (c *LienController) MarkSent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.liens.MarkSent)
}

func (c *LienController) Waive(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.liens.Waive)
}

func (c *LienController) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, actor user.User, jobID uuid.UUID) (job.Job, error),
) {
	actor, ok := resolveActor(w, r, c.users)
	if !ok {
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeBadRequest(w, "malformed job id")
		return
	}

	updated, err := apply(r.Context(), actor, id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.JobFromDomain(updated))
}
