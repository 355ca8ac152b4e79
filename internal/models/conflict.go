package models

import (
	"encoding/json"
	"time"
)

// Resolution strategies recorded on a conflict.
const (
	ResolutionServerWins = "server_wins"
	ResolutionClientWins = "client_wins"
	ResolutionManual     = "manual"
)

// ConflictRecord captures a divergence between a pending local mutation and
// the authoritative server version. Records with Strategy
// ResolutionManual stay unresolved until an explicit decision; the others
// document an automatic outcome for user awareness.
type ConflictRecord struct {
	DetectedAt      time.Time       `json:"detected_at"`
	EntityType      string          `json:"entity_type"`
	EntityID        string          `json:"entity_id"`
	Strategy        string          `json:"strategy"`
	ClientPayload   json.RawMessage `json:"client_payload,omitempty"`
	ServerPayload   json.RawMessage `json:"server_payload,omitempty"`
	QueueID         uint64          `json:"queue_id"`
	ClientTimestamp int64           `json:"client_timestamp"`
	ServerTimestamp int64           `json:"server_timestamp"`
	Resolved        bool            `json:"resolved"`
}
