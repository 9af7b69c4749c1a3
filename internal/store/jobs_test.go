package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"footin-engine/internal/domain"
	"footin-engine/internal/normalize"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func normJobs(t *testing.T, items []normalize.RawItem) []domain.NormalizedJob {
	t.Helper()
	out := make([]domain.NormalizedJob, 0, len(items))
	for i, it := range items {
		out = append(out, normalize.Job(it, i))
	}
	return out
}

func TestUpsertBatchIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	items := normJobs(t, []normalize.RawItem{
		{"jobId": "a1", "title": "Platform Engineer", "company": "Acme"},
		{"jobId": "a2", "title": "SRE", "company": "Globex"},
	})
	params := domain.SearchParams{Keywords: []string{"engineer"}}

	first, err := UpsertBatch(ctx, db, "local", "scraper", items, params)
	require.NoError(t, err)
	require.Len(t, first.Rows, 2)

	second, err := UpsertBatch(ctx, db, "local", "scraper", items, params)
	require.NoError(t, err)
	require.Len(t, second.Rows, 2)

	// Re-ingesting an identical batch must not create rows or change ids.
	assert.Equal(t, first.Rows[0].ID, second.Rows[0].ID)
	assert.Equal(t, first.Rows[1].ID, second.Rows[1].ID)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM job_postings;`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestUpsertBatchMergePreservesIdentity(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	before := normJobs(t, []normalize.RawItem{
		{"jobId": "a1", "title": "Platform Engineer", "company": "Acme"},
	})
	first, err := UpsertBatch(ctx, db, "local", "scraper", before, domain.SearchParams{})
	require.NoError(t, err)
	require.Len(t, first.Rows, 1)

	var createdAt string
	require.NoError(t, db.QueryRow(
		`SELECT created_at FROM job_postings WHERE id = ?;`, first.Rows[0].ID,
	).Scan(&createdAt))

	time.Sleep(1100 * time.Millisecond)

	after := normJobs(t, []normalize.RawItem{
		{"jobId": "a1", "title": "Senior Platform Engineer", "company": "Acme", "location": "Remote"},
	})
	second, err := UpsertBatch(ctx, db, "local", "scraper", after, domain.SearchParams{})
	require.NoError(t, err)
	require.Len(t, second.Rows, 1)

	assert.Equal(t, first.Rows[0].ID, second.Rows[0].ID)
	assert.Equal(t, "Senior Platform Engineer", second.Rows[0].Title)
	assert.Equal(t, "Remote", second.Rows[0].Location)

	var createdAfter, updatedAfter string
	require.NoError(t, db.QueryRow(
		`SELECT created_at, updated_at FROM job_postings WHERE id = ?;`, second.Rows[0].ID,
	).Scan(&createdAfter, &updatedAfter))
	assert.Equal(t, createdAt, createdAfter)
	assert.NotEqual(t, createdAfter, updatedAfter)
}

func TestUpsertBatchCollapsesSharedURL(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// No provider id, same url: both fingerprint to the url and collapse
	// to a single row within one batch.
	items := normJobs(t, []normalize.RawItem{
		{"title": "Engineer", "jobUrl": "https://x.example/1"},
		{"title": "Engineer (repost)", "jobUrl": "https://x.example/1"},
	})
	res, err := UpsertBatch(ctx, db, "local", "scraper", items, domain.SearchParams{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Engineer", res.Rows[0].Title)
}

func TestUpsertBatchEmptyOwner(t *testing.T) {
	db := openTestDB(t)
	_, err := UpsertBatch(context.Background(), db, "", "scraper", nil, domain.SearchParams{})
	require.Error(t, err)
}

func TestQueryFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	items := normJobs(t, []normalize.RawItem{
		{"jobId": "1", "title": "Platform Engineer", "location": "Austin, TX", "publishedAt": "2026-08-02T00:00:00Z"},
		{"jobId": "2", "title": "Staff Engineer", "location": "Remote", "publishedAt": "2026-08-03T00:00:00Z"},
		{"jobId": "3", "title": "Product Designer", "location": "Austin, TX", "publishedAt": "2026-08-01T00:00:00Z"},
	})
	_, err := UpsertBatch(ctx, db, "local", "scraper", items, domain.SearchParams{})
	require.NoError(t, err)

	// Keyword match is case-insensitive and OR-combined, newest first.
	got, err := Query(ctx, db, "local", QueryOpts{Keywords: []string{"engineer", "designer"}})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Staff Engineer", got[0].Title)

	got, err = Query(ctx, db, "local", QueryOpts{Keywords: []string{"engineer"}, Location: "austin"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Platform Engineer", got[0].Title)

	// Owner isolation
	got, err = Query(ctx, db, "someone-else", QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompanyDomainsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	got, err := GetCompanyDomain(ctx, db, "Acme")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, UpsertCompanyDomain(ctx, db, "Acme", "ACME.com"))
	got, err = GetCompanyDomain(ctx, db, "  acme ")
	require.NoError(t, err)
	assert.Equal(t, "acme.com", got)

	require.NoError(t, UpsertCompanyDomain(ctx, db, "Acme", "acme.io"))
	got, err = GetCompanyDomain(ctx, db, "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme.io", got)
}
