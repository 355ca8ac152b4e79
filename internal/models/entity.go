package models

import (
	"encoding/json"
	"time"
)

// Entity types known to the sync engine. Payloads stay opaque to the
// protocol; the type only matters for routing, batching and conflict
// sensitivity.
const (
	EntityTypeTrip          = "trip"
	EntityTypeItineraryItem = "itinerary_item"
	EntityTypePoll          = "poll"
	EntityTypePollOption    = "poll_option"
	EntityTypePollVote      = "poll_vote"
	EntityTypeChatMessage   = "chat_message"
)

// EntityTypes lists every synchronizable type in push/pull order.
func EntityTypes() []string {
	return []string{
		EntityTypeTrip,
		EntityTypeItineraryItem,
		EntityTypePoll,
		EntityTypePollOption,
		EntityTypePollVote,
		EntityTypeChatMessage,
	}
}

// Entity is a locally cached synchronizable object. ID is a
// client-generated UUID, stable across online and offline creation.
// VersionTimestamp is assigned by the server and is zero for entities that
// have never been acknowledged. Deleted entities are kept as tombstones so
// stale pulls cannot resurrect them.
type Entity struct {
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	ID               string          `json:"id"`
	EntityType       string          `json:"type"`
	DeviceID         string          `json:"device_id"`
	Payload          json.RawMessage `json:"payload,omitempty"`
	VersionTimestamp int64           `json:"version_timestamp"`
	Deleted          bool            `json:"deleted"`
}

// IsNewerThan reports whether e supersedes other under last-write-wins:
// higher version timestamp wins, equal timestamps fall back to
// lexicographic device id comparison so every replica orders the pair the
// same way.
func (e *Entity) IsNewerThan(other *Entity) bool {
	if e.VersionTimestamp != other.VersionTimestamp {
		return e.VersionTimestamp > other.VersionTimestamp
	}
	return e.DeviceID > other.DeviceID
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	payload := make(json.RawMessage, len(e.Payload))
	copy(payload, e.Payload)

	return &Entity{
		ID:               e.ID,
		EntityType:       e.EntityType,
		DeviceID:         e.DeviceID,
		Payload:          payload,
		VersionTimestamp: e.VersionTimestamp,
		Deleted:          e.Deleted,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
