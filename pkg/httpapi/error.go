package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nextdoorextsolutions/roofline/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// StatusForCode maps service error codes to HTTP status codes. Unknown codes
// fall back to 500 so new failures never fail open as success.
func StatusForCode(code string) int {
	switch code {
	case "AUTHZ_FORBIDDEN":
		return http.StatusForbidden
	case "JOB_NOT_FOUND", "USER_NOT_FOUND", "HISTORY_ENTRY_NOT_FOUND", "COMMISSION_REQUEST_NOT_FOUND":
		return http.StatusNotFound
	case "COMMISSION_ALREADY_SUBMITTED":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError renders a serrors.BaseError; any other error becomes an
// opaque 500.
func WriteServiceError(w http.ResponseWriter, err error) error {
	var base *serrors.BaseError
	if errors.As(err, &base) {
		return WriteError(w, StatusForCode(base.Code), base.Code, base.Message, base.TemplateData)
	}
	return WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error", nil)
}
