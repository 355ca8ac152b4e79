// Package hub fans chat messages out to websocket subscribers, one ordered
// log per room. Sequences come from the message store, never from memory,
// so they survive restarts and stay contiguous.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/voyago/tripsync/internal/server/storage"
	"github.com/voyago/tripsync/pkg/api"
)

// Hub tracks live sessions per room and owns the commit-then-broadcast
// path for chat messages.
type Hub struct {
	logger   *slog.Logger
	messages storage.MessageStorage

	mu    sync.RWMutex
	rooms map[string]map[*session]struct{}
}

// New creates a hub backed by the given message store.
func New(logger *slog.Logger, messages storage.MessageStorage) *Hub {
	return &Hub{
		logger:   logger,
		messages: messages,
		rooms:    make(map[string]map[*session]struct{}),
	}
}

// Publish commits a message to the room log and broadcasts it to every
// subscriber, the sender included; clients dedupe by message id. Appends
// are idempotent, so a redelivered message id returns its original
// sequence without a second broadcast.
func (h *Hub) Publish(ctx context.Context, roomID, messageID, senderID string, payload json.RawMessage) (int64, error) {
	seq, created, err := h.messages.AppendMessage(ctx, roomID, messageID, senderID, payload)
	if err != nil {
		return 0, fmt.Errorf("append message: %w", err)
	}

	if created {
		h.broadcast(roomID, api.Envelope{
			Kind:      api.KindChatMessage,
			MessageID: messageID,
			Sequence:  seq,
			Payload:   payload,
		}, nil)
	}

	return seq, nil
}

// PublishEdit rewrites a committed message in place and fans the new
// payload out to the room under the message's original sequence, so
// connected members see edits without waiting for a pull. Returns
// storage.ErrMessageNotFound when the message id never entered the log.
func (h *Hub) PublishEdit(ctx context.Context, roomID, messageID, senderID string, payload json.RawMessage) (int64, error) {
	seq, err := h.messages.UpdateMessagePayload(ctx, messageID, payload)
	if err != nil {
		return 0, fmt.Errorf("update message: %w", err)
	}

	h.broadcast(roomID, api.Envelope{
		Kind:      api.KindChatEdited,
		MessageID: messageID,
		Sequence:  seq,
		Payload:   payload,
	}, nil)

	return seq, nil
}

// broadcast queues an envelope on every session of the room. except skips
// one session, used for typing indicators which should not echo. A
// session with a full send buffer is dropped; its read loop will notice
// the closed connection and the client reconnects with replay.
func (h *Hub) broadcast(roomID string, env api.Envelope, except *session) {
	h.mu.RLock()
	sessions := make([]*session, 0, len(h.rooms[roomID]))
	for s := range h.rooms[roomID] {
		if s != except {
			sessions = append(sessions, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if !s.trySend(env) {
			h.logger.Warn("session send buffer full, dropping connection",
				"room_id", roomID,
				"user_id", s.userID)
			s.close()
		}
	}
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[s.roomID] == nil {
		h.rooms[s.roomID] = make(map[*session]struct{})
	}
	h.rooms[s.roomID][s] = struct{}{}

	h.logger.Info("session joined room",
		"room_id", s.roomID,
		"user_id", s.userID,
		"members", len(h.rooms[s.roomID]))
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[s.roomID]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, s.roomID)
		}
	}

	h.logger.Info("session left room",
		"room_id", s.roomID,
		"user_id", s.userID)
}

// RoomMembers returns the number of live sessions in a room.
func (h *Hub) RoomMembers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
