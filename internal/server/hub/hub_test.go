package hub

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/tripsync/internal/server/storage"
	"github.com/voyago/tripsync/internal/server/storage/sqlite"
	"github.com/voyago/tripsync/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupHub(t *testing.T) (*Hub, *sqlite.Storage, *httptest.Server) {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	h := New(testLogger(), store)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// User identity normally comes from the JWT; tests pass it in a
		// header.
		h.ServeConn(r.Context(), conn, r.Header.Get("X-Test-User"))
	}))
	t.Cleanup(srv.Close)

	return h, store, srv
}

// dialAndSubscribe connects as userID and completes the subscribe
// handshake for the room.
func dialAndSubscribe(t *testing.T, srv *httptest.Server, userID, roomID string, lastSeq int64) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"X-Test-User": {userID}}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	payload, err := json.Marshal(api.SubscribePayload{
		RoomID:               roomID,
		LastReceivedSequence: lastSeq,
	})
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(api.Envelope{Kind: api.KindSubscribe, Payload: payload}))

	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) api.Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var env api.Envelope
	require.NoError(t, conn.ReadJSON(&env))

	return env
}

func chatEnvelope(t *testing.T, messageID, roomID, content string) api.Envelope {
	t.Helper()

	payload, err := json.Marshal(api.ChatMessagePayload{
		RoomID:  roomID,
		Content: content,
		SentAt:  time.Now().UnixMilli(),
	})
	require.NoError(t, err)

	return api.Envelope{Kind: api.KindChatMessage, MessageID: messageID, Payload: payload}
}

func waitForMembers(t *testing.T, h *Hub, roomID string, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for h.RoomMembers(roomID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("room %s never reached %d members", roomID, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_ChatMessage_AckAndBroadcast(t *testing.T) {
	h, _, srv := setupHub(t)

	alice := dialAndSubscribe(t, srv, "alice", "room-1", 0)
	bob := dialAndSubscribe(t, srv, "bob", "room-1", 0)
	waitForMembers(t, h, "room-1", 2)

	require.NoError(t, alice.WriteJSON(chatEnvelope(t, "msg-1", "room-1", "hello")))

	// Sender gets both the ack and the broadcast, in either order.
	var gotAck, gotBroadcast bool
	for i := 0; i < 2; i++ {
		env := readEnvelope(t, alice)
		switch env.Kind {
		case api.KindAck:
			gotAck = true
			assert.Equal(t, "msg-1", env.MessageID)
			assert.Equal(t, int64(1), env.Sequence)
		case api.KindChatMessage:
			gotBroadcast = true
			assert.Equal(t, int64(1), env.Sequence)
		}
	}
	assert.True(t, gotAck)
	assert.True(t, gotBroadcast)

	env := readEnvelope(t, bob)
	assert.Equal(t, api.KindChatMessage, env.Kind)
	assert.Equal(t, "msg-1", env.MessageID)
	assert.Equal(t, int64(1), env.Sequence)

	var payload api.ChatMessagePayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "hello", payload.Content)
	assert.Equal(t, "alice", payload.SenderID, "sender identity comes from the connection")
}

func TestHub_AssignsMonotonicSequences(t *testing.T) {
	h, _, srv := setupHub(t)

	alice := dialAndSubscribe(t, srv, "alice", "room-1", 0)
	bob := dialAndSubscribe(t, srv, "bob", "room-1", 0)
	waitForMembers(t, h, "room-1", 2)

	require.NoError(t, alice.WriteJSON(chatEnvelope(t, "msg-1", "room-1", "first")))
	first := readEnvelope(t, bob)
	require.NoError(t, alice.WriteJSON(chatEnvelope(t, "msg-2", "room-1", "second")))
	second := readEnvelope(t, bob)

	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, int64(2), second.Sequence)
}

func TestHub_ReplaysMissedMessages(t *testing.T) {
	h, store, srv := setupHub(t)

	payload, err := json.Marshal(api.ChatMessagePayload{RoomID: "room-1", SenderID: "bob", Content: "old"})
	require.NoError(t, err)

	for _, id := range []string{"m1", "m2", "m3"} {
		_, _, err := store.AppendMessage(context.Background(), "room-1", id, "bob", payload)
		require.NoError(t, err)
	}

	// Subscribing with last sequence 1 replays 2 and 3 only.
	alice := dialAndSubscribe(t, srv, "alice", "room-1", 1)
	waitForMembers(t, h, "room-1", 1)

	env := readEnvelope(t, alice)
	assert.Equal(t, "m2", env.MessageID)
	assert.Equal(t, int64(2), env.Sequence)

	env = readEnvelope(t, alice)
	assert.Equal(t, "m3", env.MessageID)
	assert.Equal(t, int64(3), env.Sequence)
}

func TestHub_DuplicateMessageID_NoSecondBroadcast(t *testing.T) {
	h, _, srv := setupHub(t)

	alice := dialAndSubscribe(t, srv, "alice", "room-1", 0)
	bob := dialAndSubscribe(t, srv, "bob", "room-1", 0)
	waitForMembers(t, h, "room-1", 2)

	require.NoError(t, alice.WriteJSON(chatEnvelope(t, "msg-dup", "room-1", "once")))
	require.NoError(t, alice.WriteJSON(chatEnvelope(t, "msg-dup", "room-1", "once")))

	// Bob sees the message exactly once; the duplicate only re-acks.
	env := readEnvelope(t, bob)
	assert.Equal(t, "msg-dup", env.MessageID)

	require.NoError(t, bob.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var extra api.Envelope
	err := bob.ReadJSON(&extra)
	assert.Error(t, err, "no second broadcast expected")
}

func TestHub_DuplicateMessageID_AckCarriesOriginalSequence(t *testing.T) {
	h, _, srv := setupHub(t)

	alice := dialAndSubscribe(t, srv, "alice", "room-1", 0)
	waitForMembers(t, h, "room-1", 1)

	require.NoError(t, alice.WriteJSON(chatEnvelope(t, "msg-1", "room-1", "hello")))

	var firstAck int64
	for i := 0; i < 2; i++ {
		env := readEnvelope(t, alice)
		if env.Kind == api.KindAck {
			firstAck = env.Sequence
		}
	}
	require.Equal(t, int64(1), firstAck)

	require.NoError(t, alice.WriteJSON(chatEnvelope(t, "msg-1", "room-1", "hello")))
	env := readEnvelope(t, alice)
	assert.Equal(t, api.KindAck, env.Kind)
	assert.Equal(t, int64(1), env.Sequence)
}

func TestHub_WrongRoom_ErrorEnvelope(t *testing.T) {
	h, _, srv := setupHub(t)

	alice := dialAndSubscribe(t, srv, "alice", "room-1", 0)
	waitForMembers(t, h, "room-1", 1)

	require.NoError(t, alice.WriteJSON(chatEnvelope(t, "msg-1", "room-2", "misaddressed")))

	env := readEnvelope(t, alice)
	assert.Equal(t, api.KindError, env.Kind)

	var payload api.ErrorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "wrong_room", payload.Code)
}

func TestHub_SubscribeRequired(t *testing.T) {
	_, _, srv := setupHub(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"X-Test-User": {"alice"}})
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// First envelope is not a subscribe; the server closes with the
	// forbidden code.
	require.NoError(t, conn.WriteJSON(chatEnvelope(t, "msg-1", "room-1", "too eager")))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, api.CloseForbidden, closeErr.Code)
}

func TestHub_TypingRelayedToOthersOnly(t *testing.T) {
	h, _, srv := setupHub(t)

	alice := dialAndSubscribe(t, srv, "alice", "room-1", 0)
	bob := dialAndSubscribe(t, srv, "bob", "room-1", 0)
	waitForMembers(t, h, "room-1", 2)

	payload, err := json.Marshal(api.TypingPayload{RoomID: "room-1"})
	require.NoError(t, err)
	require.NoError(t, alice.WriteJSON(api.Envelope{Kind: api.KindTyping, Payload: payload}))

	env := readEnvelope(t, bob)
	assert.Equal(t, api.KindTyping, env.Kind)

	var typing api.TypingPayload
	require.NoError(t, json.Unmarshal(env.Payload, &typing))
	assert.Equal(t, "alice", typing.UserID)

	// The sender gets no echo.
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var extra api.Envelope
	err = alice.ReadJSON(&extra)
	assert.Error(t, err)
}

func TestHub_PublishFromSyncPush(t *testing.T) {
	h, _, srv := setupHub(t)

	bob := dialAndSubscribe(t, srv, "bob", "room-1", 0)
	waitForMembers(t, h, "room-1", 1)

	payload, err := json.Marshal(api.ChatMessagePayload{RoomID: "room-1", SenderID: "alice", Content: "from queue"})
	require.NoError(t, err)

	seq, err := h.Publish(context.Background(), "room-1", "msg-q", "alice", payload)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	env := readEnvelope(t, bob)
	assert.Equal(t, "msg-q", env.MessageID)
	assert.Equal(t, int64(1), env.Sequence)
}

func TestHub_PublishEdit_RelayedUnderOriginalSequence(t *testing.T) {
	h, _, srv := setupHub(t)

	bob := dialAndSubscribe(t, srv, "bob", "room-1", 0)
	waitForMembers(t, h, "room-1", 1)

	payload, err := json.Marshal(api.ChatMessagePayload{RoomID: "room-1", SenderID: "alice", Content: "meet at 9"})
	require.NoError(t, err)

	seq, err := h.Publish(context.Background(), "room-1", "msg-1", "alice", payload)
	require.NoError(t, err)

	env := readEnvelope(t, bob)
	require.Equal(t, api.KindChatMessage, env.Kind)

	edited, err := json.Marshal(api.ChatMessagePayload{RoomID: "room-1", SenderID: "alice", Content: "meet at 10", Edited: true})
	require.NoError(t, err)

	editSeq, err := h.PublishEdit(context.Background(), "room-1", "msg-1", "alice", edited)
	require.NoError(t, err)
	assert.Equal(t, seq, editSeq)

	env = readEnvelope(t, bob)
	assert.Equal(t, api.KindChatEdited, env.Kind)
	assert.Equal(t, "msg-1", env.MessageID)
	assert.Equal(t, seq, env.Sequence)

	var got api.ChatMessagePayload
	require.NoError(t, json.Unmarshal(env.Payload, &got))
	assert.Equal(t, "meet at 10", got.Content)
	assert.True(t, got.Edited)
}

func TestHub_PublishEdit_UnknownMessage(t *testing.T) {
	h, _, _ := setupHub(t)

	_, err := h.PublishEdit(context.Background(), "room-1", "nope", "alice", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, storage.ErrMessageNotFound)
}
