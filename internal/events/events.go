package events

import (
	"encoding/json"
	"time"
)

const (
	TypePhaseChanged      = "phase_changed"
	TypeJobsDiscovered    = "jobs_discovered"
	TypeDiscoveryFailed   = "discovery_failed"
	TypeContactsExtracted = "contacts_extracted"
	TypeExtractionWarning = "extraction_warning"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	SessionID string          `json:"session_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Make serializes one event envelope for the SSE hub.
func Make(sessionID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		SessionID: sessionID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
