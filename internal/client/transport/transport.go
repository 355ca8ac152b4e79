// Package transport maintains the persistent websocket connection to a
// single chat room: dialing, the subscribe handshake, automatic
// reconnection with backoff, and the pending-ack ledger for sent messages.
// Retry policy for timed-out messages lives with the caller, not here.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/pkg/api"
)

// Status is the connection lifecycle state.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusReconnecting Status = "reconnecting"
)

// TokenProvider supplies the bearer token for the websocket handshake.
type TokenProvider interface {
	GetAccessToken(ctx context.Context) (string, error)
	InvalidateAccess()
}

// Settings controls connection and delivery timing.
type Settings struct {
	// ConnectTimeout bounds one dial attempt
	ConnectTimeout time.Duration
	// WriteWait bounds one websocket write
	WriteWait time.Duration
	// PongWait is how long to wait for a pong before dropping the conn
	PongWait time.Duration
	// AckTimeout is how long a sent message may stay unacknowledged
	AckTimeout time.Duration
	// BackoffBase is the first reconnect delay
	BackoffBase time.Duration
	// BackoffCap bounds the reconnect delay
	BackoffCap time.Duration
	// MaxMessageSize bounds inbound frames
	MaxMessageSize int64
}

// DefaultSettings returns the timing used by the client binary.
func DefaultSettings() Settings {
	return Settings{
		ConnectTimeout: 15 * time.Second,
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		AckTimeout:     10 * time.Second,
		BackoffBase:    time.Second,
		BackoffCap:     60 * time.Second,
		MaxMessageSize: 512 * 1024,
	}
}

// Client is the websocket transport for one room at a time. Connect is
// idempotent per room; connecting to a different room tears down the
// prior session. A dropped connection reconnects with backoff until
// Disconnect or context cancellation.
type Client struct {
	wsURL    string
	tokens   TokenProvider
	metadata storage.MetadataStorage
	settings Settings
	logger   *slog.Logger

	incoming chan api.Envelope

	mu        sync.Mutex
	status    Status
	roomID    string
	cancel    context.CancelFunc
	done      chan struct{}
	send      chan api.Envelope
	acks      map[string]*time.Timer
	observers []func(Status)
	onAckFail func(env api.Envelope)
	onAck     func(messageID string, sequence int64)
}

// NewClient creates a transport client for the given websocket base URL,
// e.g. "ws://localhost:8080".
func NewClient(wsURL string, tokens TokenProvider, metadata storage.MetadataStorage, settings Settings, logger *slog.Logger) *Client {
	return &Client{
		wsURL:    wsURL,
		tokens:   tokens,
		metadata: metadata,
		settings: settings,
		logger:   logger,
		status:   StatusDisconnected,
		incoming: make(chan api.Envelope, 256),
		acks:     make(map[string]*time.Timer),
	}
}

// Incoming returns the stream of decoded envelopes received from the
// server. Acks are consumed internally and do not appear here.
func (c *Client) Incoming() <-chan api.Envelope {
	return c.incoming
}

// Status returns the current connection status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// ObserveStatus registers a callback invoked on every status change.
// Callbacks must not block.
func (c *Client) ObserveStatus(fn func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.observers = append(c.observers, fn)
}

// OnSendFailure registers the callback invoked when a sent message is
// not acknowledged within the ack timeout.
func (c *Client) OnSendFailure(fn func(env api.Envelope)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onAckFail = fn
}

// OnAck registers the callback invoked when the server acknowledges a
// sent message with its assigned room sequence.
func (c *Client) OnAck(fn func(messageID string, sequence int64)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onAck = fn
}

// Connect opens (or keeps) a session for the given room. Calling it
// while connected to the same room is a no-op; a different room closes
// the prior session first.
func (c *Client) Connect(ctx context.Context, roomID string) error {
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

	runCtx, cancel := context.WithCancel(ctx)
	c.roomID = roomID
	c.cancel = cancel
	c.done = make(chan struct{})
	c.send = make(chan api.Envelope, 64)
	done := c.done
	c.mu.Unlock()

	c.setStatus(StatusConnecting)

	go func() {
		defer close(done)
		c.run(runCtx, roomID)
	}()

	return nil
}

// Disconnect closes the current session and waits for its loops to stop.
func (c *Client) Disconnect() {
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

	cancel()
	<-done

	c.clearAcks()
	c.setStatus(StatusDisconnected)
}

// Send transmits an envelope on the live connection and returns its
// message id. Chat messages enter the pending-ack ledger; typing
// indicators are fire-and-forget. Returns ErrNotConnected when there is
// no live session.
func (c *Client) Send(env api.Envelope) (string, error) {
	if env.MessageID == "" {
		env.MessageID = uuid.NewString()
	}

	c.mu.Lock()

	if c.status != StatusConnected || c.send == nil {
		c.mu.Unlock()
		return "", ErrNotConnected
	}

	send := c.send

	if env.Kind == api.KindChatMessage {
		c.armAckTimerLocked(env)
	}

	c.mu.Unlock()

	select {
	case send <- env:
		return env.MessageID, nil
	default:
		c.expireAck(env.MessageID)
		return "", ErrSendBufferFull
	}
}

func (c *Client) armAckTimerLocked(env api.Envelope) {
	id := env.MessageID

	c.acks[id] = time.AfterFunc(c.settings.AckTimeout, func() {
		c.mu.Lock()
		_, live := c.acks[id]
		delete(c.acks, id)
		fail := c.onAckFail
		c.mu.Unlock()

		if live {
			c.logger.Warn("message ack timed out", "message_id", id)

			if fail != nil {
				fail(env)
			}
		}
	})
}

func (c *Client) expireAck(messageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.acks[messageID]; ok {
		timer.Stop()
		delete(c.acks, messageID)
	}
}

func (c *Client) clearAcks() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, timer := range c.acks {
		timer.Stop()
		delete(c.acks, id)
	}
}

func (c *Client) setStatus(s Status) {
	c.mu.Lock()

	if c.status == s {
		c.mu.Unlock()
		return
	}

	c.status = s
	observers := make([]func(Status), len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}

// run dials and pumps the connection, reconnecting with backoff until
// ctx is canceled. It never gives up on its own; pausing is the caller's
// job via Disconnect.
func (c *Client) run(ctx context.Context, roomID string) {
	backoff := c.newBackoff()

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := c.dial(ctx, roomID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			delay, _ := backoff.Next()
			c.logger.Warn("websocket dial failed",
				"room_id", roomID,
				"retry_in", delay,
				"error", err,
			)
			c.setStatus(StatusReconnecting)

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			continue
		}

		c.setStatus(StatusConnected)
		backoff = c.newBackoff()

		c.pump(ctx, conn)

		if ctx.Err() != nil {
			return
		}

		c.logger.Info("websocket connection lost, reconnecting", "room_id", roomID)
		c.setStatus(StatusReconnecting)
	}
}

func (c *Client) newBackoff() retry.Backoff {
	b := retry.NewExponential(c.settings.BackoffBase)
	b = retry.WithCappedDuration(c.settings.BackoffCap, b)
	b = retry.WithJitterPercent(20, b)

	return b
}

// dial opens the websocket and performs the subscribe handshake carrying
// the last received room sequence, so the server replays anything missed.
func (c *Client) dial(ctx context.Context, roomID string) (*websocket.Conn, error) {
	token, err := c.tokens.GetAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.settings.ConnectTimeout}
	header := http.Header{"Authorization": {"Bearer " + token}}

	conn, resp, err := dialer.DialContext(ctx, c.wsURL+"/api/v1/ws", header) //nolint:bodyclose
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			c.tokens.InvalidateAccess()
		}

		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	lastSeq, err := c.metadata.GetLastReceivedSequence(ctx, roomID)
	if err != nil {
		lastSeq = 0
	}

	payload, err := json.Marshal(api.SubscribePayload{
		RoomID:               roomID,
		LastReceivedSequence: lastSeq,
	})
	if err != nil {
		conn.Close() //nolint:errcheck
		return nil, fmt.Errorf("marshal subscribe payload: %w", err)
	}

	if err := conn.SetWriteDeadline(time.Now().Add(c.settings.WriteWait)); err != nil {
		conn.Close() //nolint:errcheck
		return nil, fmt.Errorf("set write deadline: %w", err)
	}

	if err := conn.WriteJSON(api.Envelope{Kind: api.KindSubscribe, Payload: payload}); err != nil {
		conn.Close() //nolint:errcheck
		return nil, fmt.Errorf("send subscribe: %w", err)
	}

	return conn, nil
}

// pump runs the read and write loops for one connection and returns when
// either stops.
func (c *Client) pump(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close() //nolint:errcheck

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		c.writePump(ctx, conn)
	}()

	c.readPump(conn)

	// wake the writer so pump never leaks it
	conn.Close() //nolint:errcheck
	<-writeDone
}

func (c *Client) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(c.settings.MaxMessageSize)

	if err := conn.SetReadDeadline(time.Now().Add(c.settings.PongWait)); err != nil {
		return
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.settings.PongWait))
	})

	for {
		var env api.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", "error", err)
			}

			return
		}

		c.handleEnvelope(env)
	}
}

func (c *Client) handleEnvelope(env api.Envelope) {
	if env.Kind == api.KindAck {
		c.expireAck(env.MessageID)

		c.mu.Lock()
		acked := c.onAck
		c.mu.Unlock()

		if acked != nil {
			acked(env.MessageID, env.Sequence)
		}

		return
	}

	select {
	case c.incoming <- env:
	default:
		c.logger.Warn("incoming buffer full, dropping envelope",
			"kind", env.Kind,
			"message_id", env.MessageID,
		)
	}
}

func (c *Client) writePump(ctx context.Context, conn *websocket.Conn) {
	pingPeriod := c.settings.PongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	c.mu.Lock()
	send := c.send
	c.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(c.settings.WriteWait)
			_ = conn.SetWriteDeadline(deadline)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)

			return

		case env := <-send:
			if err := conn.SetWriteDeadline(time.Now().Add(c.settings.WriteWait)); err != nil {
				return
			}

			if err := conn.WriteJSON(env); err != nil {
				c.logger.Warn("websocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(c.settings.WriteWait)); err != nil {
				return
			}

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
