package models

// Domain payloads carried opaquely through the sync protocol. The sync
// engine never inspects these; the CLI and the messaging layer do.

// TripPayload describes a shared trip.
type TripPayload struct {
	Title       string `json:"title"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate     string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Description string `json:"description,omitempty"`
}

// ItineraryItemPayload describes one scheduled activity within a trip.
type ItineraryItemPayload struct {
	TripID   string `json:"trip_id"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	StartsAt string `json:"starts_at,omitempty"` // RFC 3339
	EndsAt   string `json:"ends_at,omitempty"`   // RFC 3339
	Notes    string `json:"notes,omitempty"`
	Position int    `json:"position"`
}

// PollPayload describes a group decision poll attached to a trip.
type PollPayload struct {
	TripID   string `json:"trip_id"`
	Question string `json:"question"`
	ClosesAt string `json:"closes_at,omitempty"` // RFC 3339
	Closed   bool   `json:"closed,omitempty"`
}

// PollOptionPayload is one selectable answer of a poll.
type PollOptionPayload struct {
	PollID string `json:"poll_id"`
	Text   string `json:"text"`
}

// PollVotePayload records one collaborator's vote.
type PollVotePayload struct {
	PollID   string `json:"poll_id"`
	OptionID string `json:"option_id"`
	VoterID  string `json:"voter_id"`
}

// ChatMessagePayload is a chat message as a synchronizable entity. When the
// live transport is down, outgoing messages travel through the mutation
// queue in exactly this form.
type ChatMessagePayload struct {
	RoomID   string `json:"room_id"` // trip id doubles as the room id
	SenderID string `json:"sender_id"`
	Content  string `json:"content"`
	SentAt   int64  `json:"sent_at"` // unix millis on the sending device
	Edited   bool   `json:"edited,omitempty"`
}
