// Package messaging bridges chat semantics onto the websocket transport
// and the local mutation store: live send when connected, queue fallback
// when not, and in-order duplicate-free delivery of incoming messages.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/client/transport"
	"github.com/voyago/tripsync/internal/clock"
	"github.com/voyago/tripsync/internal/models"
	"github.com/voyago/tripsync/pkg/api"
)

//go:generate moq -out roomtransport_mock.go . RoomTransport

// RoomTransport is the websocket client surface the coordinator drives.
// Implemented by transport.Client.
type RoomTransport interface {
	Connect(ctx context.Context, roomID string) error
	Disconnect()
	Status() transport.Status
	ObserveStatus(fn func(transport.Status))
	Send(env api.Envelope) (string, error)
	Incoming() <-chan api.Envelope
	OnSendFailure(fn func(env api.Envelope))
	OnAck(fn func(messageID string, sequence int64))
}

// Coordinator owns chat delivery for one room at a time. Outgoing
// messages go over the live transport when connected and into the
// mutation queue otherwise; a live send whose ack times out is requeued
// the same way, so delivery is at-least-once and the receiver dedupes by
// message id. Incoming messages are reordered by the server-assigned
// room sequence before observers see them.
type Coordinator struct {
	transport   RoomTransport
	entities    storage.EntityStorage
	queue       storage.QueueStorage
	metadata    storage.MetadataStorage
	clock       *clock.DeviceClock
	logger      *slog.Logger
	triggerSync func()

	mu              sync.Mutex
	roomID          string
	userID          string
	nextSeq         int64
	buffer          map[int64]api.Envelope
	seen            map[string]struct{}
	observers       []chan *models.Entity
	typingObservers []chan api.TypingPayload
	cancel          context.CancelFunc
	done            chan struct{}
}

// NewCoordinator creates a messaging coordinator. triggerSync is called
// whenever a message enters the fallback queue so it reaches the server
// without waiting for the next periodic cycle.
func NewCoordinator(
	rt RoomTransport,
	entities storage.EntityStorage,
	queue storage.QueueStorage,
	metadata storage.MetadataStorage,
	clk *clock.DeviceClock,
	triggerSync func(),
	logger *slog.Logger,
) *Coordinator {
	c := &Coordinator{
		transport:   rt,
		entities:    entities,
		queue:       queue,
		metadata:    metadata,
		clock:       clk,
		triggerSync: triggerSync,
		logger:      logger,
		buffer:      make(map[int64]api.Envelope),
		seen:        make(map[string]struct{}),
	}

	rt.OnSendFailure(c.requeueFailedSend)

	return c
}

// Connect joins a room: subscribes the transport and starts consuming
// incoming envelopes. userID identifies the local sender on outgoing
// messages.
func (c *Coordinator) Connect(ctx context.Context, roomID, userID string) error {
	c.mu.Lock()

	if c.cancel != nil && c.roomID == roomID {
		c.mu.Unlock()
		return nil
	}

	if c.cancel != nil {
		c.mu.Unlock()
		c.Disconnect()
		c.mu.Lock()
	}

	lastSeq, err := c.metadata.GetLastReceivedSequence(ctx, roomID)
	if err != nil {
		lastSeq = 0
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.roomID = roomID
	c.userID = userID
	c.nextSeq = lastSeq + 1
	c.buffer = make(map[int64]api.Envelope)
	c.seen = make(map[string]struct{})
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	if err := c.transport.Connect(ctx, roomID); err != nil {
		cancel()
		close(done)
		return fmt.Errorf("connect transport: %w", err)
	}

	go func() {
		defer close(done)
		c.consume(runCtx)
	}()

	return nil
}

// Disconnect leaves the room and stops delivery.
func (c *Coordinator) Disconnect() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.roomID = ""
	c.mu.Unlock()

	if cancel == nil {
		return
	}

	c.transport.Disconnect()
	cancel()
	<-done
}

// SendMessage delivers content to the current room and returns the
// message id. Connected: live over the websocket. Otherwise: queued as a
// chat message creation that the sync engine pushes.
func (c *Coordinator) SendMessage(ctx context.Context, content string) (string, error) {
	c.mu.Lock()
	roomID := c.roomID
	userID := c.userID
	c.mu.Unlock()

	if roomID == "" {
		return "", ErrNoRoom
	}

	messageID := uuid.NewString()
	payload := models.ChatMessagePayload{
		RoomID:   roomID,
		SenderID: userID,
		Content:  content,
		SentAt:   c.clock.Now(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	if c.transport.Status() == transport.StatusConnected {
		id, err := c.transport.Send(api.Envelope{
			Kind:      api.KindChatMessage,
			MessageID: messageID,
			Payload:   raw,
		})
		if err == nil {
			// optimistic echo: the sender sees the message immediately
			if _, saveErr := c.saveMessage(ctx, id, raw, 0); saveErr != nil {
				c.logger.Warn("optimistic echo failed", "message_id", id, "error", saveErr)
			}

			return id, nil
		}

		c.logger.Info("live send failed, queueing", "error", err)
	}

	if err := c.enqueueMessage(ctx, messageID, raw, payload.SentAt); err != nil {
		return "", err
	}

	return messageID, nil
}

// SendTyping emits a fire-and-forget typing indicator. Dropped silently
// when not connected; never queued.
func (c *Coordinator) SendTyping() {
	c.mu.Lock()
	roomID := c.roomID
	userID := c.userID
	c.mu.Unlock()

	if roomID == "" || c.transport.Status() != transport.StatusConnected {
		return
	}

	raw, err := json.Marshal(api.TypingPayload{RoomID: roomID, UserID: userID})
	if err != nil {
		return
	}

	if _, err := c.transport.Send(api.Envelope{Kind: api.KindTyping, Payload: raw}); err != nil {
		c.logger.Debug("typing indicator dropped", "error", err)
	}
}

// ObserveMessages returns a stream of chat message entities delivered in
// room-sequence order with duplicates removed. Slow consumers drop
// messages rather than stall delivery.
func (c *Coordinator) ObserveMessages() <-chan *models.Entity {
	ch := make(chan *models.Entity, 64)

	c.mu.Lock()
	c.observers = append(c.observers, ch)
	c.mu.Unlock()

	return ch
}

func (c *Coordinator) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-c.transport.Incoming():
			if !ok {
				return
			}

			c.handleEnvelope(ctx, env)
		}
	}
}

func (c *Coordinator) handleEnvelope(ctx context.Context, env api.Envelope) {
	switch env.Kind {
	case api.KindChatMessage:
		c.handleChatMessage(ctx, env)
	case api.KindChatEdited:
		// edits reuse the original sequence slot, so they bypass the
		// ordering buffer and the duplicate filter
		if err := c.deliver(ctx, env); err != nil {
			c.logger.Warn("failed to apply edit", "message_id", env.MessageID, "error", err)
		}
	case api.KindTyping:
		// typing indicators have no sequence and are not persisted
		c.notifyTyping(env)
	case api.KindError:
		var payload api.ErrorPayload
		if err := json.Unmarshal(env.Payload, &payload); err == nil {
			c.logger.Warn("server rejected envelope", "code", payload.Code, "message", payload.Message)
		}
	default:
		c.logger.Debug("dropping unknown envelope kind", "kind", env.Kind)
	}
}

// handleChatMessage buffers out-of-order deliveries and releases messages
// strictly in sequence order, deduplicating by message id.
func (c *Coordinator) handleChatMessage(ctx context.Context, env api.Envelope) {
	c.mu.Lock()

	if env.Sequence < c.nextSeq {
		// replayed or duplicated history
		c.mu.Unlock()
		return
	}

	c.buffer[env.Sequence] = env

	var release []api.Envelope
	for {
		next, ok := c.buffer[c.nextSeq]
		if !ok {
			break
		}

		delete(c.buffer, c.nextSeq)
		c.nextSeq++

		if _, dup := c.seen[next.MessageID]; dup {
			continue
		}

		c.seen[next.MessageID] = struct{}{}
		release = append(release, next)
	}

	roomID := c.roomID
	lastApplied := c.nextSeq - 1
	c.mu.Unlock()

	for _, msg := range release {
		if err := c.deliver(ctx, msg); err != nil {
			c.logger.Warn("failed to deliver message", "message_id", msg.MessageID, "error", err)
		}
	}

	if len(release) > 0 {
		if err := c.metadata.SaveLastReceivedSequence(ctx, roomID, lastApplied); err != nil {
			c.logger.Warn("failed to save room sequence", "error", err)
		}
	}
}

func (c *Coordinator) deliver(ctx context.Context, env api.Envelope) error {
	entity, err := c.saveMessage(ctx, env.MessageID, env.Payload, env.Sequence)
	if err != nil {
		return err
	}

	c.mu.Lock()
	observers := make([]chan *models.Entity, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, ch := range observers {
		select {
		case ch <- entity:
		default:
		}
	}

	return nil
}

func (c *Coordinator) saveMessage(ctx context.Context, messageID string, payload json.RawMessage, sequence int64) (*models.Entity, error) {
	entity := &models.Entity{
		ID:               messageID,
		EntityType:       models.EntityTypeChatMessage,
		DeviceID:         c.clock.DeviceID(),
		Payload:          payload,
		VersionTimestamp: sequence,
	}

	if err := c.entities.SaveEntity(ctx, entity); err != nil {
		return nil, fmt.Errorf("save chat message: %w", err)
	}

	return entity, nil
}

// ObserveTyping returns the stream of typing indicators for the current
// room. Ephemeral: nothing is persisted or replayed.
func (c *Coordinator) ObserveTyping() <-chan api.TypingPayload {
	ch := make(chan api.TypingPayload, 16)

	c.mu.Lock()
	c.typingObservers = append(c.typingObservers, ch)
	c.mu.Unlock()

	return ch
}

func (c *Coordinator) notifyTyping(env api.Envelope) {
	var payload api.TypingPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return
	}

	c.mu.Lock()
	observers := make([]chan api.TypingPayload, len(c.typingObservers))
	copy(observers, c.typingObservers)
	c.mu.Unlock()

	for _, ch := range observers {
		select {
		case ch <- payload:
		default:
		}
	}
}

// requeueFailedSend moves an unacknowledged live message into the
// mutation queue so the sync engine delivers it; the server and the
// receivers dedupe by message id.
func (c *Coordinator) requeueFailedSend(env api.Envelope) {
	ctx := context.Background()

	var payload models.ChatMessagePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		c.logger.Error("cannot requeue malformed message", "message_id", env.MessageID, "error", err)
		return
	}

	if err := c.enqueueMessage(ctx, env.MessageID, env.Payload, payload.SentAt); err != nil {
		c.logger.Error("failed to requeue message", "message_id", env.MessageID, "error", err)
	}
}

func (c *Coordinator) enqueueMessage(ctx context.Context, messageID string, payload json.RawMessage, sentAt int64) error {
	entry := &models.QueueEntry{
		EntityType:      models.EntityTypeChatMessage,
		EntityID:        messageID,
		Action:          models.ActionCreate,
		DeviceID:        c.clock.DeviceID(),
		PayloadSnapshot: payload,
		ClientTimestamp: sentAt,
	}

	optimistic := &models.Entity{
		ID:         messageID,
		EntityType: models.EntityTypeChatMessage,
		DeviceID:   c.clock.DeviceID(),
		Payload:    payload,
	}

	if _, err := c.queue.Enqueue(ctx, entry, optimistic); err != nil {
		return fmt.Errorf("enqueue chat message: %w", err)
	}

	if c.triggerSync != nil {
		c.triggerSync()
	}

	return nil
}
