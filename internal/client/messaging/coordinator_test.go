package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/tripsync/internal/client/storage/boltdb"
	"github.com/voyago/tripsync/internal/client/transport"
	"github.com/voyago/tripsync/internal/clock"
	"github.com/voyago/tripsync/internal/models"
	"github.com/voyago/tripsync/pkg/api"
)

type coordFixture struct {
	coord    *Coordinator
	store    *boltdb.Storage
	rt       *RoomTransportMock
	incoming chan api.Envelope
	status   atomic.Value
	triggers atomic.Int64
	failFn   func(env api.Envelope)
}

func newCoordFixture(t *testing.T) *coordFixture {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() }) //nolint:errcheck

	f := &coordFixture{
		store:    store,
		incoming: make(chan api.Envelope, 64),
	}
	f.status.Store(transport.StatusConnected)

	f.rt = &RoomTransportMock{
		ConnectFunc:    func(ctx context.Context, roomID string) error { return nil },
		DisconnectFunc: func() {},
		IncomingFunc:   func() <-chan api.Envelope { return f.incoming },
		StatusFunc:     func() transport.Status { return f.status.Load().(transport.Status) },
		SendFunc: func(env api.Envelope) (string, error) {
			return env.MessageID, nil
		},
		OnSendFailureFunc: func(fn func(env api.Envelope)) { f.failFn = fn },
		OnAckFunc:         func(fn func(messageID string, sequence int64)) {},
	}

	f.coord = NewCoordinator(
		f.rt, store, store, store,
		clock.NewWithDeviceID("device-a"),
		func() { f.triggers.Add(1) },
		slog.Default(),
	)
	t.Cleanup(f.coord.Disconnect)

	return f
}

func chatEnvelope(t *testing.T, id string, seq int64, content string) api.Envelope {
	t.Helper()

	payload, err := json.Marshal(api.ChatMessagePayload{
		RoomID:   "trip-1",
		SenderID: "u-2",
		Content:  content,
		SentAt:   seq,
	})
	require.NoError(t, err)

	return api.Envelope{
		Kind:      api.KindChatMessage,
		MessageID: id,
		Sequence:  seq,
		Payload:   payload,
	}
}

func receiveMessage(t *testing.T, ch <-chan *models.Entity) *models.Entity {
	t.Helper()

	select {
	case entity := <-ch:
		return entity
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestCoordinator_SendMessage_LiveWhenConnected(t *testing.T) {
	ctx := context.Background()
	f := newCoordFixture(t)

	require.NoError(t, f.coord.Connect(ctx, "trip-1", "u-1"))

	id, err := f.coord.SendMessage(ctx, "hello")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	calls := f.rt.SendCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, api.KindChatMessage, calls[0].Env.Kind)

	// optimistic echo lands in the entity cache, not the queue
	entity, err := f.store.GetEntity(ctx, models.EntityTypeChatMessage, id)
	require.NoError(t, err)
	assert.NotNil(t, entity)

	count, err := f.store.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCoordinator_SendMessage_QueuesWhenDisconnected(t *testing.T) {
	ctx := context.Background()
	f := newCoordFixture(t)
	f.status.Store(transport.StatusReconnecting)

	require.NoError(t, f.coord.Connect(ctx, "trip-1", "u-1"))

	id, err := f.coord.SendMessage(ctx, "offline hello")
	require.NoError(t, err)

	pending, err := f.store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.ActionCreate, pending[0].Action)
	assert.Equal(t, models.EntityTypeChatMessage, pending[0].EntityType)
	assert.Equal(t, id, pending[0].EntityID)

	assert.Equal(t, int64(1), f.triggers.Load())
	assert.Empty(t, f.rt.SendCalls())
}

func TestCoordinator_SendMessage_NoRoom(t *testing.T) {
	f := newCoordFixture(t)

	_, err := f.coord.SendMessage(context.Background(), "hello")
	require.ErrorIs(t, err, ErrNoRoom)
}

func TestCoordinator_DeliversMessagesInOrder(t *testing.T) {
	ctx := context.Background()
	f := newCoordFixture(t)

	messages := f.coord.ObserveMessages()
	require.NoError(t, f.coord.Connect(ctx, "trip-1", "u-1"))

	// sequence 2 arrives before 1 under a reconnection race
	f.incoming <- chatEnvelope(t, "m-2", 2, "second")
	f.incoming <- chatEnvelope(t, "m-1", 1, "first")

	first := receiveMessage(t, messages)
	second := receiveMessage(t, messages)

	assert.Equal(t, "m-1", first.ID)
	assert.Equal(t, "m-2", second.ID)

	require.Eventually(t, func() bool {
		seq, err := f.store.GetLastReceivedSequence(ctx, "trip-1")
		return err == nil && seq == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCoordinator_DiscardsDuplicateMessageIDs(t *testing.T) {
	ctx := context.Background()
	f := newCoordFixture(t)

	messages := f.coord.ObserveMessages()
	require.NoError(t, f.coord.Connect(ctx, "trip-1", "u-1"))

	f.incoming <- chatEnvelope(t, "m-1", 1, "once")
	f.incoming <- chatEnvelope(t, "m-1", 2, "again")
	f.incoming <- chatEnvelope(t, "m-2", 3, "next")

	first := receiveMessage(t, messages)
	second := receiveMessage(t, messages)

	assert.Equal(t, "m-1", first.ID)
	assert.Equal(t, "m-2", second.ID)

	select {
	case extra := <-messages:
		t.Fatalf("unexpected duplicate delivery: %s", extra.ID)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCoordinator_AppliesEditsToDeliveredMessages(t *testing.T) {
	ctx := context.Background()
	f := newCoordFixture(t)

	messages := f.coord.ObserveMessages()
	require.NoError(t, f.coord.Connect(ctx, "trip-1", "u-1"))

	f.incoming <- chatEnvelope(t, "m-1", 1, "meet at 9")
	original := receiveMessage(t, messages)
	assert.Equal(t, "m-1", original.ID)

	// an edit reuses the original sequence slot and must get through
	// even though m-1 was already delivered
	payload, err := json.Marshal(models.ChatMessagePayload{
		RoomID: "trip-1", SenderID: "u-2", Content: "meet at 10", SentAt: 1, Edited: true,
	})
	require.NoError(t, err)

	f.incoming <- api.Envelope{
		Kind:      api.KindChatEdited,
		MessageID: "m-1",
		Sequence:  1,
		Payload:   payload,
	}

	updated := receiveMessage(t, messages)
	assert.Equal(t, "m-1", updated.ID)

	var got models.ChatMessagePayload
	require.NoError(t, json.Unmarshal(updated.Payload, &got))
	assert.Equal(t, "meet at 10", got.Content)
	assert.True(t, got.Edited)

	stored, err := f.store.GetEntity(ctx, models.EntityTypeChatMessage, "m-1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(stored.Payload, &got))
	assert.Equal(t, "meet at 10", got.Content)
}

func TestCoordinator_IgnoresReplayedHistory(t *testing.T) {
	ctx := context.Background()
	f := newCoordFixture(t)

	require.NoError(t, f.store.SaveLastReceivedSequence(ctx, "trip-1", 5))

	messages := f.coord.ObserveMessages()
	require.NoError(t, f.coord.Connect(ctx, "trip-1", "u-1"))

	f.incoming <- chatEnvelope(t, "m-3", 3, "stale")
	f.incoming <- chatEnvelope(t, "m-6", 6, "fresh")

	delivered := receiveMessage(t, messages)
	assert.Equal(t, "m-6", delivered.ID)

	select {
	case extra := <-messages:
		t.Fatalf("replayed history must not be delivered: %s", extra.ID)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCoordinator_AckTimeoutRequeuesMessage(t *testing.T) {
	ctx := context.Background()
	f := newCoordFixture(t)

	require.NoError(t, f.coord.Connect(ctx, "trip-1", "u-1"))

	id, err := f.coord.SendMessage(ctx, "flaky network")
	require.NoError(t, err)

	require.NotNil(t, f.failFn)

	calls := f.rt.SendCalls()
	require.Len(t, calls, 1)
	f.failFn(calls[0].Env)

	pending, err := f.store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].EntityID)
	assert.Equal(t, models.ActionCreate, pending[0].Action)
	assert.Equal(t, int64(1), f.triggers.Load())
}

func TestCoordinator_SendTyping(t *testing.T) {
	ctx := context.Background()
	f := newCoordFixture(t)

	require.NoError(t, f.coord.Connect(ctx, "trip-1", "u-1"))

	f.coord.SendTyping()

	calls := f.rt.SendCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, api.KindTyping, calls[0].Env.Kind)

	// never queued when the transport is down
	f.status.Store(transport.StatusDisconnected)
	f.coord.SendTyping()

	assert.Len(t, f.rt.SendCalls(), 1)

	count, err := f.store.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCoordinator_ObserveTyping(t *testing.T) {
	ctx := context.Background()
	f := newCoordFixture(t)

	typing := f.coord.ObserveTyping()
	require.NoError(t, f.coord.Connect(ctx, "trip-1", "u-1"))

	payload, err := json.Marshal(api.TypingPayload{RoomID: "trip-1", UserID: "u-2", Username: "bob"})
	require.NoError(t, err)

	f.incoming <- api.Envelope{Kind: api.KindTyping, Payload: payload}

	select {
	case got := <-typing:
		assert.Equal(t, "u-2", got.UserID)
		assert.Equal(t, "bob", got.Username)
	case <-time.After(2 * time.Second):
		t.Fatal("typing indicator not delivered")
	}
}
