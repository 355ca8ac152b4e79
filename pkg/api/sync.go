package api

import "encoding/json"

// Per-item statuses the server assigns to each element of a push batch
const (
	StatusAccepted = "accepted"
	StatusConflict = "conflict"
	StatusRejected = "rejected"
)

// Entity is the wire form of a synchronizable object (trip, itinerary item,
// poll, poll option, chat message). Payload is opaque to the sync protocol.
type Entity struct {
	ID               string          `json:"id"`
	EntityType       string          `json:"type"`
	DeviceID         string          `json:"device_id,omitempty"`
	Payload          json.RawMessage `json:"payload,omitempty"`
	VersionTimestamp int64           `json:"version_timestamp"`
	Deleted          bool            `json:"deleted"`
}

// Mutation is one queued local change submitted in a push batch.
type Mutation struct {
	ID              string          `json:"id"`
	EntityType      string          `json:"type"`
	Action          string          `json:"action"`
	DeviceID        string          `json:"device_id"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	ClientTimestamp int64           `json:"client_timestamp"`
}

// PushRequest carries all pending mutations of a single entity type,
// ordered by client timestamp ascending.
type PushRequest struct {
	EntityType string     `json:"type"`
	Mutations  []Mutation `json:"mutations"`
}

// PushResult is the server's per-item verdict for a pushed mutation.
// ServerVersion carries the authoritative row: the newly assigned version
// on StatusAccepted, the winning copy on StatusConflict so the client can
// resolve without an extra round trip.
type PushResult struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	ServerVersion *Entity `json:"server_version,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// PushResponse is the server's answer to a push batch, one result per
// mutation, in request order.
type PushResponse struct {
	Results []PushResult `json:"results"`
}

// PullResponse carries every entity changed after the requested watermark,
// ids of entities tombstoned in the same window, and the server cutoff the
// client advances its watermark to once the whole response is applied.
type PullResponse struct {
	Items        []Entity `json:"items"`
	Tombstones   []string `json:"tombstones"`
	ServerCutoff int64    `json:"server_cutoff"`
}
