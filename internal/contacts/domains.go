package contacts

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"footin-engine/internal/store"
)

// Override table for companies whose domain can't be guessed from the
// name. Checked before the heuristic.
var domainOverrides = map[string]string{
	"google":     "google.com",
	"meta":       "meta.com",
	"facebook":   "meta.com",
	"openai":     "openai.com",
	"anthropic":  "anthropic.com",
	"microsoft":  "microsoft.com",
	"apple":      "apple.com",
	"amazon":     "amazon.com",
	"netflix":    "netflix.com",
	"stripe":     "stripe.com",
	"airbnb":     "airbnb.com",
	"uber":       "uber.com",
	"lyft":       "lyft.com",
	"salesforce": "salesforce.com",
	"shopify":    "shopify.com",
}

// Suffix order matters: comma variants must strip before the bare ones.
var legalSuffixes = []string{", inc", ", corp", " inc", " corp", " llc", " ltd"}

// GuessDomain maps a free-text company name to a domain: lowercase, trim,
// strip trailing legal-entity suffixes, collapse whitespace, append .com.
// Overrides win.
func GuessDomain(company string) string {
	key := strings.ToLower(strings.TrimSpace(company))
	key = strings.Join(strings.Fields(key), " ")
	if key == "" {
		return ""
	}
	if d, ok := domainOverrides[key]; ok {
		return d
	}
	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(key, suffix) {
			key = strings.TrimSpace(strings.TrimSuffix(key, suffix))
			break
		}
	}
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, ",", "")
	if key == "" {
		return ""
	}
	return key + ".com"
}

// Aggregators and ATS hosts that a web lookup must never return as a
// company's own domain.
var domainBlocklist = []string{
	"linkedin.com",
	"indeed.com",
	"glassdoor.com",
	"ziprecruiter.com",
	"crunchbase.com",
	"wikipedia.org",
	"greenhouse.io",
	"lever.co",
	"myworkdayjobs.com",
	"workday.com",
	"smartrecruiters.com",
}

// Resolver resolves company names to domains: static overrides and the
// heuristic first, then (optionally) a cached live web lookup for names
// the heuristic handles badly.
type Resolver struct {
	DB     *sql.DB
	Live   bool
	Client *http.Client
	Log    *zap.Logger

	// Extra overrides from the user's domains.yml, keyed by folded name.
	Overrides map[string]string
}

func NewResolver(db *sql.DB, live bool, log *zap.Logger) *Resolver {
	return &Resolver{
		DB:     db,
		Live:   live,
		Client: &http.Client{Timeout: 12 * time.Second},
		Log:    log,
	}
}

// Resolve never fails the caller: any lookup problem falls back to the
// heuristic guess.
func (r *Resolver) Resolve(ctx context.Context, company string) string {
	key := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(company))), " ")
	if d, ok := r.Overrides[key]; ok {
		return d
	}
	if d, ok := domainOverrides[key]; ok {
		return d
	}

	if r.DB != nil {
		if cached, err := store.GetCompanyDomain(ctx, r.DB, company); err == nil && cached != "" {
			return cached
		}
	}

	if r.Live {
		if found := r.lookupDDG(ctx, company); found != "" {
			if r.DB != nil {
				if err := store.UpsertCompanyDomain(ctx, r.DB, company, found); err != nil {
					r.Log.Warn("domain cache write failed", zap.String("company", company), zap.Error(err))
				}
			}
			return found
		}
	}

	return GuessDomain(company)
}

// lookupDDG scrapes DuckDuckGo's HTML results for the company's official
// site. Best effort; "" on any failure.
func (r *Resolver) lookupDDG(ctx context.Context, company string) string {
	company = strings.TrimSpace(company)
	if company == "" {
		return ""
	}

	query := fmt.Sprintf("%s official website", company)
	u := "https://duckduckgo.com/html/?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.Client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	var best string
	doc.Find("a.result__a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}
		host := hostFromURL(decodeDDGRedirect(href))
		if host == "" {
			return true
		}
		host = strings.ToLower(strings.TrimPrefix(host, "www."))
		if isBlockedDomain(host) {
			return true
		}
		best = host
		return false
	})
	return best
}

// DDG sometimes wraps results as /l/?uddg=<urlencoded>.
func decodeDDGRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := u.Query().Get("uddg"); uddg != "" {
		if dec, err := url.QueryUnescape(uddg); err == nil && dec != "" {
			return dec
		}
	}
	return href
}

func hostFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

func isBlockedDomain(host string) bool {
	for _, b := range domainBlocklist {
		if host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}
