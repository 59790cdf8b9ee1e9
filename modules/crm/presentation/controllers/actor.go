package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence"
	"github.com/nextdoorextsolutions/roofline/pkg/httpapi"
)

// actorHeader carries the authenticated user's ID, set by the gateway in
// front of this service. There is no session handling here.
const actorHeader = "X-User-Id"

// resolveActor loads the acting user from the request. A missing or unknown
// ID is reported as unauthenticated; deactivated actors are rejected by the
// services, not here.
func resolveActor(w http.ResponseWriter, r *http.Request, users user.Repository) (user.User, bool) {
	raw := r.Header.Get(actorHeader)
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing or malformed actor id", nil)
		return user.User{}, false
	}
	actor, err := users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrUserNotFound) {
			_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "unknown actor", nil)
		} else {
			_ = httpapi.WriteServiceError(w, err)
		}
		return user.User{}, false
	}
	return actor, true
}

func writeBadRequest(w http.ResponseWriter, message string) {
	_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}
