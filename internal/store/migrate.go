package store

import (
	"database/sql"

	"footin-engine/internal/apperr"
)

// Migrate brings the schema up to the current version. Versions are
// tracked with PRAGMA user_version so reruns are cheap no-ops.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return apperr.Storage("migrate", err)
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return apperr.Storage("migrate", err)
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS job_postings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  owner_id TEXT NOT NULL,
  source TEXT NOT NULL,
  source_job_key TEXT NOT NULL,
  title TEXT NOT NULL,
  company_name TEXT,
  location TEXT,
  job_url TEXT,
  apply_url TEXT,
  published_at TEXT,
  description TEXT,
  raw_payload TEXT,
  search_params TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return apperr.Storage("migrate", err)
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_job_postings_identity
ON job_postings(owner_id, source, source_job_key);
`); err != nil {
		return apperr.Storage("migrate", err)
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_job_postings_owner
ON job_postings(owner_id);
`); err != nil {
		return apperr.Storage("migrate", err)
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_job_postings_published
ON job_postings(published_at DESC);
`); err != nil {
		return apperr.Storage("migrate", err)
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS company_domains (
  company TEXT PRIMARY KEY,
  domain TEXT NOT NULL,
  fetched_at TEXT NOT NULL
);
`); err != nil {
		return apperr.Storage("migrate", err)
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return apperr.Storage("migrate", err)
	}

	return tx.Commit()
}
