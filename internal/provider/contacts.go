package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"footin-engine/internal/apperr"
	"footin-engine/internal/domain"
)

const contactsName = "contacts"

// ContactClient queries a Hunter-style domain-search API: one GET per
// (domain, department, seniority) combination, personal addresses only.
type ContactClient struct {
	BaseURL string
	APIKey  string
	Limit   int
	HTTP    *http.Client
	Limiter *HostLimiter
	Log     *zap.Logger
}

func NewContactClient(baseURL, apiKey string, log *zap.Logger) *ContactClient {
	return &ContactClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Limit:   5,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Limiter: NewHostLimiter(2, 4),
		Log:     log,
	}
}

func (c *ContactClient) Name() string { return contactsName }

type contactEnvelope struct {
	Data struct {
		Emails []rawContact `json:"emails"`
	} `json:"data"`
}

type rawContact struct {
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Value      string          `json:"value"`
	Position   string          `json:"position"`
	Seniority  string          `json:"seniority"`
	Department string          `json:"department"`
	LinkedIn   string          `json:"linkedin"`
	Confidence json.RawMessage `json:"confidence"`
}

func (c *ContactClient) Search(ctx context.Context, q ContactQuery) ([]domain.Contact, error) {
	if q.Domain == "" {
		return nil, apperr.Validation("domain", "contact search needs a domain")
	}

	endpoint := strings.TrimSuffix(c.BaseURL, "/") + "/domain-search"
	if err := c.Limiter.WaitURL(ctx, endpoint); err != nil {
		return nil, apperr.Provider(contactsName, err)
	}

	params := url.Values{}
	params.Set("domain", q.Domain)
	params.Set("type", "personal")
	params.Set("limit", fmt.Sprint(c.Limit))
	params.Set("api_key", c.APIKey)
	if q.Department != "" {
		params.Set("department", q.Department)
	}
	if q.Seniority != "" {
		params.Set("seniority", string(q.Seniority))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperr.Provider(contactsName, err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperr.Provider(contactsName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, apperr.Provider(contactsName,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet))
	}

	var env contactEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, apperr.Provider(contactsName, fmt.Errorf("decode contact response: %w", err))
	}

	out := make([]domain.Contact, 0, len(env.Data.Emails))
	for _, rc := range env.Data.Emails {
		out = append(out, domain.Contact{
			ID:         uuid.NewString(),
			Name:       strings.TrimSpace(rc.FirstName + " " + rc.LastName),
			Email:      rc.Value,
			Title:      rc.Position,
			Tier:       domain.TierFrom(rc.Seniority),
			Department: rc.Department,
			ProfileURL: rc.LinkedIn,
			Confidence: parseConfidence(rc.Confidence),
		})
	}

	c.Log.Debug("contact search done",
		zap.String("domain", q.Domain),
		zap.String("seniority", string(q.Seniority)),
		zap.Int("contacts", len(out)))
	return out, nil
}

// parseConfidence tolerates both numeric and string-typed scores.
func parseConfidence(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		n := int(f)
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n); err == nil {
			return &n
		}
	}
	return nil
}
