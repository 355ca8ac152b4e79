package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voyago/tripsync/internal/validation"
	"github.com/voyago/tripsync/pkg/api"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	subscribeWait  = 10 * time.Second
	maxMessageSize = 512 * 1024
	sendBufferSize = 256
)

type session struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan api.Envelope
	userID string
	roomID string

	closeOnce sync.Once
}

// ServeConn takes ownership of an authenticated websocket connection:
// waits for the subscribe handshake, replays missed messages, then pumps
// until the client goes away. Blocks for the lifetime of the connection.
func (h *Hub) ServeConn(ctx context.Context, conn *websocket.Conn, userID string) {
	defer conn.Close() //nolint:errcheck

	conn.SetReadLimit(maxMessageSize)

	sub, err := readSubscribe(conn)
	if err != nil {
		h.logger.Warn("subscribe handshake failed", "user_id", userID, "error", err)
		writeClose(conn, api.CloseForbidden, "subscribe required")
		return
	}

	s := &session{
		hub:    h,
		conn:   conn,
		send:   make(chan api.Envelope, sendBufferSize),
		userID: userID,
		roomID: sub.RoomID,
	}

	h.register(s)
	defer h.unregister(s)

	// Replay happens before the write pump starts, so there is exactly
	// one writer on the connection at any moment. New broadcasts queue in
	// the send channel meanwhile; clients tolerate the overlap by
	// sequence and message id.
	if err := s.replay(ctx, sub.LastReceivedSequence); err != nil {
		h.logger.Error("replay failed",
			"room_id", s.roomID,
			"user_id", userID,
			"error", err)
		return
	}

	pumpCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.writePump(pumpCtx)
	s.readPump(ctx)
}

func readSubscribe(conn *websocket.Conn) (*api.SubscribePayload, error) {
	if err := conn.SetReadDeadline(time.Now().Add(subscribeWait)); err != nil {
		return nil, err
	}

	var env api.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		return nil, err
	}

	if env.Kind != api.KindSubscribe {
		return nil, errNotSubscribe
	}

	var sub api.SubscribePayload
	if err := json.Unmarshal(env.Payload, &sub); err != nil {
		return nil, err
	}

	if sub.RoomID == "" {
		return nil, errNoRoomID
	}

	return &sub, nil
}

func (s *session) replay(ctx context.Context, since int64) error {
	missed, err := s.hub.messages.ListMessagesSince(ctx, s.roomID, since)
	if err != nil {
		return err
	}

	for _, msg := range missed {
		if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}

		env := api.Envelope{
			Kind:      api.KindChatMessage,
			MessageID: msg.MessageID,
			Sequence:  msg.Seq,
			Payload:   msg.Payload,
		}

		if err := s.conn.WriteJSON(env); err != nil {
			return err
		}
	}

	if len(missed) > 0 {
		s.hub.logger.Debug("replayed missed messages",
			"room_id", s.roomID,
			"user_id", s.userID,
			"count", len(missed),
			"since", since)
	}

	return nil
}

func (s *session) readPump(ctx context.Context) {
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env api.Envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.hub.logger.Debug("session read error",
					"room_id", s.roomID,
					"user_id", s.userID,
					"error", err)
			}
			return
		}

		switch env.Kind {
		case api.KindChatMessage:
			s.handleChatMessage(ctx, env)
		case api.KindTyping:
			s.handleTyping(env)
		default:
			s.sendError("unknown_kind", "unsupported envelope kind: "+env.Kind)
		}
	}
}

func (s *session) handleChatMessage(ctx context.Context, env api.Envelope) {
	if env.MessageID == "" {
		s.sendError("missing_message_id", "chat messages require a message_id")
		return
	}

	var payload api.ChatMessagePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		s.sendError("bad_payload", "malformed chat message payload")
		return
	}

	if payload.RoomID != s.roomID {
		s.sendError("wrong_room", "message addressed to a different room")
		return
	}

	if err := validation.ValidateChatMessage(payload.Content); err != nil {
		s.sendError("invalid_message", err.Error())
		return
	}

	// The sender identity comes from the authenticated connection, not
	// from the payload.
	payload.SenderID = s.userID

	raw, err := json.Marshal(payload)
	if err != nil {
		s.sendError("bad_payload", "malformed chat message payload")
		return
	}

	seq, err := s.hub.Publish(ctx, s.roomID, env.MessageID, s.userID, raw)
	if err != nil {
		s.hub.logger.Error("failed to publish message",
			"room_id", s.roomID,
			"message_id", env.MessageID,
			"error", err)
		s.sendError("publish_failed", "message could not be committed")
		return
	}

	ackPayload, err := json.Marshal(api.AckPayload{RoomID: s.roomID})
	if err != nil {
		return
	}

	s.trySend(api.Envelope{
		Kind:      api.KindAck,
		MessageID: env.MessageID,
		Sequence:  seq,
		Payload:   ackPayload,
	})
}

// handleTyping relays the indicator to everyone else in the room. Nothing
// is validated beyond the room and nothing is persisted.
func (s *session) handleTyping(env api.Envelope) {
	var payload api.TypingPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return
	}

	if payload.RoomID != s.roomID {
		return
	}

	payload.UserID = s.userID

	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	s.hub.broadcast(s.roomID, api.Envelope{Kind: api.KindTyping, Payload: raw}, s)
}

func (s *session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			writeClose(s.conn, websocket.CloseNormalClosure, "")
			return

		case env := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if err := s.conn.WriteJSON(env); err != nil {
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend queues an envelope without blocking. False means the buffer is
// full.
func (s *session) trySend(env api.Envelope) bool {
	select {
	case s.send <- env:
		return true
	default:
		return false
	}
}

func (s *session) sendError(code, message string) {
	payload, err := json.Marshal(api.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}

	s.trySend(api.Envelope{Kind: api.KindError, Payload: payload})
}

// close tears the connection down; the read pump unblocks and the session
// unregisters.
func (s *session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
}

func writeClose(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
