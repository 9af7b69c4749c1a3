package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"footin-engine/internal/apperr"
)

// GetCompanyDomain returns the cached domain for a company, or "" on miss.
func GetCompanyDomain(ctx context.Context, db *sql.DB, company string) (string, error) {
	company = companyKey(company)
	if company == "" {
		return "", nil
	}

	var domain string
	err := db.QueryRowContext(ctx,
		`SELECT domain FROM company_domains WHERE company = ? LIMIT 1;`,
		company,
	).Scan(&domain)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", apperr.Storage("company_domain get", err)
	}
	return strings.TrimSpace(domain), nil
}

func UpsertCompanyDomain(ctx context.Context, db *sql.DB, company, domain string) error {
	company = companyKey(company)
	domain = strings.ToLower(strings.TrimSpace(domain))
	if company == "" || domain == "" {
		return nil
	}

	_, err := db.ExecContext(ctx, `
INSERT INTO company_domains(company, domain, fetched_at)
VALUES(?,?,?)
ON CONFLICT(company) DO UPDATE SET
  domain = excluded.domain,
  fetched_at = excluded.fetched_at;
`, company, domain, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return apperr.Storage("company_domain upsert", err)
	}
	return nil
}

// companyKey folds a free-text company name into the cache key. Company
// names are a free-text join key; "Acme" and "Acme Inc." remain distinct.
func companyKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(s)), " "))
}
