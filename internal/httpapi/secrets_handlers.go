package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"footin-engine/internal/secrets"
)

type SecretsHandler struct{}

type setAPIKeyReq struct {
	Key string `json:"key"`
}

func (h SecretsHandler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !secrets.KnownProvider(provider) {
		WriteError(w, r, http.StatusNotFound, "unknown_provider", "no such provider: "+provider)
		return
	}

	var req setAPIKeyReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := secrets.SetAPIKey(provider, req.Key); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_failed", "failed to store key: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !secrets.KnownProvider(provider) {
		WriteError(w, r, http.StatusNotFound, "unknown_provider", "no such provider: "+provider)
		return
	}
	if err := secrets.DeleteAPIKey(provider); err != nil {
		WriteError(w, r, http.StatusBadRequest, "keyring_failed", "failed to delete key: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
