package api

import "encoding/json"

// Envelope kinds. The transport decodes an envelope exactly once and hands
// a typed payload to the messaging layer; unknown kinds are dropped there.
const (
	KindSubscribe   = "subscribe"
	KindChatMessage = "chat_message"
	KindChatEdited  = "chat_edited"
	KindAck         = "ack"
	KindTyping      = "typing"
	KindError       = "error"
)

// WebSocket close codes used by the server on rejected connections.
const (
	CloseUnauthorized = 4001
	CloseForbidden    = 4003
)

// Envelope frames every message on the chat websocket in both directions.
type Envelope struct {
	Kind      string          `json:"type"`
	MessageID string          `json:"message_id,omitempty"`
	Sequence  int64           `json:"sequence,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// SubscribePayload is the client handshake sent right after connecting.
// LastReceivedSequence lets the server replay messages the client missed
// while disconnected instead of reloading full history.
type SubscribePayload struct {
	RoomID               string `json:"room_id"`
	LastReceivedSequence int64  `json:"last_received_sequence"`
}

// ChatMessagePayload is the payload of a KindChatMessage envelope.
type ChatMessagePayload struct {
	RoomID   string `json:"room_id"`
	SenderID string `json:"sender_id"`
	Content  string `json:"content"`
	SentAt   int64  `json:"sent_at"`
	Edited   bool   `json:"edited,omitempty"`
}

// AckPayload confirms server receipt of a client message. MessageID on the
// enclosing envelope names the acknowledged message; Sequence is the
// server-assigned room sequence it was committed at.
type AckPayload struct {
	RoomID string `json:"room_id"`
}

// TypingPayload is a fire-and-forget typing indicator. Never queued, never
// replayed.
type TypingPayload struct {
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

// ErrorPayload reports a server-side rejection of an inbound envelope.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
