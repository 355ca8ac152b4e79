package models

import (
	"encoding/json"
	"time"
)

// Actions a queue entry can carry.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Queue entry statuses.
const (
	// StatusPending - queued, not yet submitted
	StatusPending = "pending"
	// StatusInFlight - submitted to the server, awaiting response
	StatusInFlight = "in_flight"
	// StatusSynced - acknowledged by the server (or superseded locally)
	StatusSynced = "synced"
	// StatusConflict - rejected with a conflict awaiting resolution
	StatusConflict = "conflict"
	// StatusFailed - rejected permanently or out of automatic retries
	StatusFailed = "failed"
)

// MaxRetries is the number of consecutive transport failures after which a
// queue entry is parked as failed and excluded from automatic retry.
const MaxRetries = 5

// QueueEntry is one pending local mutation. QueueID is local-only and
// monotonic within the device; ClientTimestamp is the device clock at the
// moment of the user action and orders entries within a push batch.
type QueueEntry struct {
	EnqueuedAt      time.Time       `json:"enqueued_at"`
	EntityType      string          `json:"entity_type"`
	EntityID        string          `json:"entity_id"`
	Action          string          `json:"action"`
	DeviceID        string          `json:"device_id"`
	Status          string          `json:"status"`
	LastError       string          `json:"last_error,omitempty"`
	PayloadSnapshot json.RawMessage `json:"payload_snapshot,omitempty"`
	QueueID         uint64          `json:"queue_id"`
	ClientTimestamp int64           `json:"client_timestamp"`
	RetryCount      int             `json:"retry_count"`
}

// Clone returns a deep copy of the queue entry.
func (q *QueueEntry) Clone() *QueueEntry {
	payload := make(json.RawMessage, len(q.PayloadSnapshot))
	copy(payload, q.PayloadSnapshot)

	clone := *q
	clone.PayloadSnapshot = payload
	return &clone
}
