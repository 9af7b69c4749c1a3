package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
)

// runCtx backs async provider runs. Request contexts cancel as soon as
// the 202 goes out, so background work gets its own context.
func runCtx() context.Context {
	return context.Background()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
