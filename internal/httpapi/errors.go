package httpapi

import (
	"encoding/json"
	"net/http"

	"footin-engine/internal/apperr"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteAppError maps the error taxonomy onto HTTP statuses: validation
// problems are the client's fault, provider failures are upstream, and
// storage failures are ours.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperr.IsValidation(err):
		WriteError(w, r, http.StatusBadRequest, "validation_error", err.Error())
	case apperr.IsProvider(err):
		WriteError(w, r, http.StatusBadGateway, "provider_error", err.Error())
	case apperr.IsStorage(err):
		WriteError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
