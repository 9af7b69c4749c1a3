package domain

import (
	"encoding/json"
	"time"
)

// NormalizedJob is the canonical form of one raw provider item. Empty
// strings mean "unknown"; the store maps them to NULL columns.
type NormalizedJob struct {
	SourceJobKey string
	Title        string
	CompanyName  string
	Location     string
	JobURL       string
	ApplyURL     string
	Description  string
	PublishedAt  *time.Time
	RawPayload   json.RawMessage
}

// SearchParams is the query that produced a batch of jobs. Persisted next
// to each row so a posting can be traced back to its search.
type SearchParams struct {
	Keywords      []string `json:"keywords"`
	Location      string   `json:"location,omitempty"`
	RecencyWindow string   `json:"recencyWindow,omitempty"`
}

// JobView is the read projection surfaced to callers after upsert/query.
type JobView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	CompanyName string     `json:"companyName"`
	Location    string     `json:"location"`
	JobURL      string     `json:"jobUrl"`
	ApplyURL    string     `json:"applyUrl,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Description string     `json:"description,omitempty"`
}
