package httpapi

import (
	"database/sql"
	"net/http"
	"strings"

	"footin-engine/internal/domain"
	"footin-engine/internal/store"
)

type JobsHandler struct {
	DB      *sql.DB
	OwnerID func() string
}

// List queries the persisted postings directly, outside any session.
// Keywords are comma separated.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var keywords []string
	for _, k := range strings.Split(q.Get("keywords"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	jobs, err := store.Query(r.Context(), h.DB, h.OwnerID(), store.QueryOpts{
		Keywords: keywords,
		Location: q.Get("location"),
	})
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []domain.JobView{}
	}
	writeJSON(w, jobs)
}
