package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires the full HTTP surface. main() may still mount extra
// routes (shutdown needs the server handle).
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID, Cors, Recover(d.Log), AccessLog(d.Log))

	// Sessions drive the funnel
	sh := SessionsHandler{Controller: d.Controller, Log: d.Log}
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sh.Create)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", sh.Get)
			r.Put("/targets", sh.SetTargets)
			r.Post("/discover", sh.Discover)
			r.Post("/jobs/{jobID}/select", sh.SelectJob)
			r.Post("/extract", sh.Extract)
			r.Post("/contacts/{contactID}/select", sh.SelectContact)
			r.Post("/back", sh.Back)
			r.Post("/reset", sh.Reset)
		})
	})

	// Direct cache queries
	jh := JobsHandler{DB: d.DB, OwnerID: func() string { return d.cfg().Owner.ID }}
	r.Get("/jobs", jh.List)

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	r.Get("/config", ch.Get)
	r.Put("/config", ch.Put)
	r.Get("/config/path", ch.Path)
	r.Get("/config/validate", ch.Validate)

	// Secrets (keychain only, keys never round-trip through config)
	var sec SecretsHandler
	r.Post("/api/secrets/{provider}", sec.SetAPIKey)
	r.Delete("/api/secrets/{provider}", sec.DeleteAPIKey)

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	r.Get("/events", eh.ServeSSE)

	var hh HealthHandler
	r.Get("/health", hh.Health)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}
