package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"footin-engine/internal/apperr"
	"footin-engine/internal/domain"
	"footin-engine/internal/normalize"
)

const queryCap = 200

type UpsertResult struct {
	Affected int
	Rows     []domain.JobView
}

// UpsertBatch performs the idempotent insert-or-merge for one normalized
// batch, keyed by (owner, source, source_job_key). The batch is deduped
// first because a single multi-row statement cannot resolve two rows
// sharing a conflict key. On collision all mutable fields plus the raw
// payload and search params are overwritten and updated_at is bumped;
// id and created_at are preserved. One statement, so the whole batch
// either lands or the call fails.
func UpsertBatch(ctx context.Context, db *sql.DB, ownerID, source string, items []domain.NormalizedJob, params domain.SearchParams) (UpsertResult, error) {
	var res UpsertResult
	if ownerID == "" {
		return res, apperr.Validation("ownerId", "owner id is required")
	}

	items = normalize.DedupeBatch(items)
	if len(items) == 0 {
		return res, nil
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return res, apperr.Storage("upsert", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	var (
		sb   strings.Builder
		args []any
		keys = make([]string, 0, len(items))
	)
	sb.WriteString(`
INSERT INTO job_postings (
  owner_id, source, source_job_key, title, company_name, location,
  job_url, apply_url, published_at, description, raw_payload, search_params,
  created_at, updated_at
) VALUES `)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			ownerID, source, it.SourceJobKey, it.Title,
			nullStr(it.CompanyName), nullStr(it.Location),
			nullStr(it.JobURL), nullStr(it.ApplyURL),
			nullTime(it.PublishedAt), nullStr(it.Description),
			nullStr(string(it.RawPayload)), string(paramsJSON),
			now, now,
		)
		keys = append(keys, it.SourceJobKey)
	}
	sb.WriteString(`
ON CONFLICT(owner_id, source, source_job_key) DO UPDATE SET
  title = excluded.title,
  company_name = excluded.company_name,
  location = excluded.location,
  job_url = excluded.job_url,
  apply_url = excluded.apply_url,
  published_at = excluded.published_at,
  description = excluded.description,
  raw_payload = excluded.raw_payload,
  search_params = excluded.search_params,
  updated_at = excluded.updated_at;`)

	r, err := db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return res, apperr.Storage("upsert", err)
	}
	if n, err := r.RowsAffected(); err == nil {
		res.Affected = int(n)
	} else {
		res.Affected = len(items)
	}

	rows, err := selectByKeys(ctx, db, ownerID, source, keys)
	if err != nil {
		return res, err
	}
	res.Rows = rows
	return res, nil
}

func selectByKeys(ctx context.Context, db *sql.DB, ownerID, source string, keys []string) ([]domain.JobView, error) {
	ph := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, 0, len(keys)+2)
	args = append(args, ownerID, source)
	for _, k := range keys {
		args = append(args, k)
	}

	q := fmt.Sprintf(`
SELECT id, title, company_name, location, job_url, apply_url, published_at, description
FROM job_postings
WHERE owner_id = ? AND source = ? AND source_job_key IN (%s)
ORDER BY id;`, ph)

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Storage("select", err)
	}
	defer rows.Close()
	return scanViews(rows)
}

type QueryOpts struct {
	Keywords []string
	Location string
}

// Query is the cache read path: case-insensitive substring match on title,
// OR-combined across keywords, optional location filter, newest first,
// capped at 200 rows.
func Query(ctx context.Context, db *sql.DB, ownerID string, opts QueryOpts) ([]domain.JobView, error) {
	where := []string{"owner_id = ?"}
	args := []any{ownerID}

	var kw []string
	for _, k := range opts.Keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		kw = append(kw, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(k)+"%")
	}
	if len(kw) > 0 {
		where = append(where, "("+strings.Join(kw, " OR ")+")")
	}
	if loc := strings.TrimSpace(opts.Location); loc != "" {
		where = append(where, "LOWER(COALESCE(location, '')) LIKE ?")
		args = append(args, "%"+strings.ToLower(loc)+"%")
	}

	q := fmt.Sprintf(`
SELECT id, title, company_name, location, job_url, apply_url, published_at, description
FROM job_postings
WHERE %s
ORDER BY COALESCE(published_at, created_at) DESC
LIMIT %d;`, strings.Join(where, " AND "), queryCap)

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Storage("query", err)
	}
	defer rows.Close()
	return scanViews(rows)
}

func scanViews(rows *sql.Rows) ([]domain.JobView, error) {
	var out []domain.JobView
	for rows.Next() {
		var (
			v                              domain.JobView
			company, loc, jobURL, applyURL sql.NullString
			published, desc                sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Title, &company, &loc, &jobURL, &applyURL, &published, &desc); err != nil {
			return nil, apperr.Storage("scan", err)
		}
		v.CompanyName = company.String
		v.Location = loc.String
		v.JobURL = jobURL.String
		v.ApplyURL = applyURL.String
		v.Description = desc.String
		if published.Valid {
			if ts, err := time.Parse(time.RFC3339, published.String); err == nil {
				u := ts.UTC()
				v.PublishedAt = &u
			}
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("scan", err)
	}
	return out, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
