package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"footin-engine/internal/apperr"
	"footin-engine/internal/domain"
	"footin-engine/internal/normalize"
)

const scraperName = "scraper"

// ScrapeClient talks to the job-board scraping provider over a single
// POST endpoint. Response shapes vary between provider versions, so the
// body is decoded leniently: a bare array, or an object wrapping the
// array under items/results/jobs.
type ScrapeClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Limiter *HostLimiter
	Log     *zap.Logger
}

func NewScrapeClient(baseURL, token string, log *zap.Logger) *ScrapeClient {
	return &ScrapeClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		Limiter: NewHostLimiter(2, 4),
		Log:     log,
	}
}

func (c *ScrapeClient) Name() string { return scraperName }

func (c *ScrapeClient) Search(ctx context.Context, params domain.SearchParams) ([]normalize.RawItem, error) {
	if err := c.Limiter.WaitURL(ctx, c.BaseURL); err != nil {
		return nil, apperr.Provider(scraperName, err)
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, apperr.Provider(scraperName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Provider(scraperName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperr.Provider(scraperName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, apperr.Provider(scraperName,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet))
	}

	items, err := decodeItems(resp.Body)
	if err != nil {
		return nil, apperr.Provider(scraperName, err)
	}

	c.Log.Info("scrape search done",
		zap.Strings("keywords", params.Keywords),
		zap.Int("items", len(items)))
	return items, nil
}

func decodeItems(r io.Reader) ([]normalize.RawItem, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var direct []normalize.RawItem
	if err := json.Unmarshal(b, &direct); err == nil {
		return direct, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, fmt.Errorf("decode scrape response: %w", err)
	}
	for _, field := range []string{"items", "results", "jobs"} {
		raw, ok := wrapped[field]
		if !ok {
			continue
		}
		var items []normalize.RawItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode scrape response %q: %w", field, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("decode scrape response: no item array found")
}
