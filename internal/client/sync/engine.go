package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	httpClient "github.com/voyago/tripsync/internal/client/api"
	"github.com/voyago/tripsync/internal/client/resolver"
	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/clock"
	"github.com/voyago/tripsync/internal/models"
	"github.com/voyago/tripsync/pkg/api"
)

// State describes what the engine is doing right now.
type State string

const (
	StateIdle    State = "idle"
	StatePushing State = "pushing"
	StatePulling State = "pulling"
	StateError   State = "error"
)

//go:generate moq -out tokenprovider_mock.go . TokenProvider

// TokenProvider supplies access tokens for sync requests and is told
// when the server stops accepting them.
type TokenProvider interface {
	// GetAccessToken returns a valid access token, refreshing it if needed
	GetAccessToken(ctx context.Context) (string, error)

	// InvalidateAccess discards the cached access token so the next
	// GetAccessToken call refreshes
	InvalidateAccess()
}

// Settings controls sync cadence and retry behavior.
type Settings struct {
	// Interval between automatic sync cycles
	Interval time.Duration
	// BackoffBase is the first retry delay after a transient failure
	BackoffBase time.Duration
	// BackoffCap bounds the retry delay
	BackoffCap time.Duration
	// MaxAttempts bounds retries within one sync round
	MaxAttempts uint64
}

// DefaultSettings returns the cadence used by the client binary.
func DefaultSettings() Settings {
	return Settings{
		Interval:    30 * time.Second,
		BackoffBase: time.Second,
		BackoffCap:  60 * time.Second,
		MaxAttempts: 8,
	}
}

// Engine is the sync orchestrator: it drains the local mutation queue to
// the server, pulls remote deltas, and routes disagreements through the
// conflict resolver. At most one cycle runs at a time.
type Engine struct {
	apiClient httpClient.ClientAPI
	tokens    TokenProvider
	entities  storage.EntityStorage
	queue     storage.QueueStorage
	metadata  storage.MetadataStorage
	conflicts storage.ConflictStorage
	resolver  *resolver.Resolver
	clock     *clock.DeviceClock
	logger    *slog.Logger
	settings  Settings

	mu        sync.Mutex
	state     State
	lastError error
	online    bool
	observers []func(State)

	trigger chan struct{}
}

// NewEngine creates a sync engine. It starts offline; call SetOnline
// once connectivity is known.
func NewEngine(
	apiClient httpClient.ClientAPI,
	tokens TokenProvider,
	entities storage.EntityStorage,
	queue storage.QueueStorage,
	metadata storage.MetadataStorage,
	conflicts storage.ConflictStorage,
	res *resolver.Resolver,
	clk *clock.DeviceClock,
	settings Settings,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		apiClient: apiClient,
		tokens:    tokens,
		entities:  entities,
		queue:     queue,
		metadata:  metadata,
		conflicts: conflicts,
		resolver:  res,
		clock:     clk,
		settings:  settings,
		logger:    logger,
		state:     StateIdle,
		trigger:   make(chan struct{}, 1),
	}
}

// Run drives periodic syncs until ctx is canceled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.settings.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-e.trigger:
		}

		if !e.Online() {
			continue
		}

		if err := e.syncWithBackoff(ctx); err != nil && ctx.Err() == nil {
			e.logger.Warn("sync round failed", "error", err)
		}
	}
}

// TriggerSync requests a sync cycle outside the regular interval.
// Safe to call from any goroutine; coalesces repeated calls.
func (e *Engine) TriggerSync() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// SetOnline gates syncing on connectivity. Coming online triggers an
// immediate cycle.
func (e *Engine) SetOnline(online bool) {
	e.mu.Lock()
	was := e.online
	e.online = online
	e.mu.Unlock()

	if online && !was {
		e.TriggerSync()
	}
}

// Online reports the connectivity gate.
func (e *Engine) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.online
}

// State returns the current engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// LastError returns the error that put the engine into StateError,
// or nil.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.lastError
}

// ObserveState registers a callback invoked on every state change.
// Callbacks must not block.
func (e *Engine) ObserveState(fn func(State)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.observers = append(e.observers, fn)
}

func (e *Engine) setState(s State, err error) {
	e.mu.Lock()
	e.state = s
	e.lastError = err
	observers := make([]func(State), len(e.observers))
	copy(observers, e.observers)
	e.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}

func (e *Engine) syncWithBackoff(ctx context.Context) error {
	b := retry.NewExponential(e.settings.BackoffBase)
	b = retry.WithCappedDuration(e.settings.BackoffCap, b)
	b = retry.WithJitterPercent(20, b)
	b = retry.WithMaxRetries(e.settings.MaxAttempts, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := e.SyncOnce(ctx)
		if err == nil {
			return nil
		}

		if httpClient.IsTransient(err) || errors.Is(err, httpClient.ErrAuthExpired) {
			return retry.RetryableError(err)
		}

		return err
	})
}

// SyncOnce runs a single push-then-pull cycle.
func (e *Engine) SyncOnce(ctx context.Context) error {
	e.setState(StatePushing, nil)

	if err := e.pushCycle(ctx); err != nil {
		e.setState(StateError, err)
		return err
	}

	e.setState(StatePulling, nil)

	if err := e.pullCycle(ctx); err != nil {
		e.setState(StateError, err)
		return err
	}

	e.setState(StateIdle, nil)

	return nil
}

// GetPendingCount returns the number of mutations waiting to reach the
// server.
func (e *Engine) GetPendingCount(ctx context.Context) (int, error) {
	return e.queue.CountPending(ctx)
}

// GetConflicts returns the unresolved conflicts awaiting a user decision.
func (e *Engine) GetConflicts(ctx context.Context) ([]*models.ConflictRecord, error) {
	return e.conflicts.ListConflicts(ctx)
}

// ResolveConflict applies the user's decision for a manually parked
// conflict. A nil payload accepts the server version; a non-nil payload
// is re-enqueued as a fresh update that supersedes the server version.
func (e *Engine) ResolveConflict(ctx context.Context, queueID uint64, payload json.RawMessage) error {
	record, err := e.conflicts.GetConflict(ctx, queueID)
	if err != nil {
		return fmt.Errorf("load conflict: %w", err)
	}

	entry, err := e.queue.GetEntry(ctx, queueID)
	if err != nil {
		return fmt.Errorf("load queue entry: %w", err)
	}

	if payload == nil {
		if len(record.ServerPayload) == 0 {
			if err := e.entities.Tombstone(ctx, record.EntityType, record.EntityID, record.ServerTimestamp); err != nil {
				return fmt.Errorf("apply server tombstone: %w", err)
			}
		} else {
			server := &models.Entity{
				ID:               record.EntityID,
				EntityType:       record.EntityType,
				Payload:          record.ServerPayload,
				VersionTimestamp: record.ServerTimestamp,
			}
			if err := e.entities.SaveEntity(ctx, server); err != nil {
				return fmt.Errorf("apply server version: %w", err)
			}
		}

		if err := e.queue.MarkSynced(ctx, queueID); err != nil {
			return fmt.Errorf("drop conflicted entry: %w", err)
		}
	} else {
		e.clock.Observe(record.ServerTimestamp)

		if err := e.queue.MarkSynced(ctx, queueID); err != nil {
			return fmt.Errorf("drop conflicted entry: %w", err)
		}

		if err := e.enqueueSupersede(ctx, entry, payload); err != nil {
			return err
		}

		e.TriggerSync()
	}

	if err := e.conflicts.DeleteConflict(ctx, queueID); err != nil {
		return fmt.Errorf("delete conflict record: %w", err)
	}

	return nil
}

// enqueueSupersede re-enqueues an entry's intent as an update carrying a
// fresh timestamp, so it wins the next round of last-write-wins.
func (e *Engine) enqueueSupersede(ctx context.Context, entry *models.QueueEntry, payload json.RawMessage) error {
	ts := e.clock.Now()

	next := &models.QueueEntry{
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		Action:          models.ActionUpdate,
		DeviceID:        e.clock.DeviceID(),
		PayloadSnapshot: payload,
		ClientTimestamp: ts,
	}

	optimistic := &models.Entity{
		ID:         entry.EntityID,
		EntityType: entry.EntityType,
		DeviceID:   e.clock.DeviceID(),
		Payload:    payload,
	}

	if local, err := e.entities.GetEntity(ctx, entry.EntityType, entry.EntityID); err == nil {
		optimistic.VersionTimestamp = local.VersionTimestamp
	}

	if _, err := e.queue.Enqueue(ctx, next, optimistic); err != nil {
		return fmt.Errorf("requeue superseding update: %w", err)
	}

	return nil
}

func entityFromAPI(in *api.Entity) *models.Entity {
	return &models.Entity{
		ID:               in.ID,
		EntityType:       in.EntityType,
		DeviceID:         in.DeviceID,
		Payload:          in.Payload,
		VersionTimestamp: in.VersionTimestamp,
		Deleted:          in.Deleted,
	}
}
