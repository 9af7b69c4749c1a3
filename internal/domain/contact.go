package domain

import "strings"

// SeniorityTier is the coarse rank used to prioritize contact selection.
type SeniorityTier string

const (
	TierExecutive SeniorityTier = "executive"
	TierSenior    SeniorityTier = "senior"
	TierOther     SeniorityTier = "other"
)

// TierFrom maps a provider's free-form seniority label onto a tier.
func TierFrom(s string) SeniorityTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "executive", "c_suite", "vp", "director", "owner", "partner":
		return TierExecutive
	case "senior", "manager":
		return TierSenior
	default:
		return TierOther
	}
}

// Provenance marks where a result set came from. Synthetic data is a
// deliberate degraded mode, never silent.
type Provenance string

const (
	ProvenanceLive      Provenance = "live"
	ProvenanceCache     Provenance = "cache"
	ProvenanceSynthetic Provenance = "synthetic"
)

// Contact is ephemeral: produced per extraction request and held only in
// the workflow session, never persisted.
type Contact struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Title      string        `json:"title"`
	Tier       SeniorityTier `json:"seniorityTier"`
	Department string        `json:"department,omitempty"`
	ProfileURL string        `json:"linkedProfileUrl,omitempty"`
	Confidence *int          `json:"confidence,omitempty"`
	Company    string        `json:"sourceCompany"`
}

// ContactSet is the ranked per-company result surfaced to the caller.
type ContactSet struct {
	Company    string     `json:"company"`
	Provenance Provenance `json:"provenance"`
	Contacts   []Contact  `json:"contacts"`
}

// Draft is a pure function of (contact, job); regenerable, so only the
// rendered fields are kept.
type Draft struct {
	ContactID    string `json:"contactId"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	HookCategory string `json:"hookCategory"`
}
