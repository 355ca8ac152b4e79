package storage

import (
	"context"
	"encoding/json"
	"time"
)

// Message is a chat message committed to a room's ordered log. Seq is the
// server-assigned per-room sequence number, contiguous from 1.
type Message struct {
	CreatedAt time.Time       `json:"created_at"`
	MessageID string          `json:"message_id"`
	RoomID    string          `json:"room_id"`
	SenderID  string          `json:"sender_id"`
	Payload   json.RawMessage `json:"payload"`
	Seq       int64           `json:"seq"`
}

// MessageStorage defines interface for the per-room chat log. Append is
// idempotent by message id so redelivered messages never occupy two
// sequence slots.
type MessageStorage interface {
	// AppendMessage commits a message to the room log and returns the
	// sequence it was (or already had been) assigned. created is false
	// when the message id was already present.
	AppendMessage(ctx context.Context, roomID, messageID, senderID string, payload json.RawMessage) (seq int64, created bool, err error)

	// UpdateMessagePayload replaces the payload of a committed message,
	// keeping its sequence slot, and returns that sequence.
	// Returns ErrMessageNotFound if the message id is not in the log
	UpdateMessagePayload(ctx context.Context, messageID string, payload json.RawMessage) (seq int64, err error)

	// ListMessagesSince returns room messages with seq strictly greater
	// than since, in ascending sequence order
	ListMessagesSince(ctx context.Context, roomID string, since int64) ([]*Message, error)
}
