package storage

import (
	"context"

	"github.com/voyago/tripsync/internal/models"
)

//go:generate moq -out queuestorage_mock.go . QueueStorage

// QueueStorage defines the pending-mutation half of the local mutation
// store. Queue ids are monotonic and local-only.
type QueueStorage interface {
	// Enqueue appends a mutation and applies its optimistic local effect
	// atomically: a reader never observes one without the other. A pending
	// entry for the same entity is superseded for read purposes; redundant
	// predecessors are collapsed (an earlier pending update is marked
	// synced and never sent, a pending create followed by delete collapses
	// to a local tombstone with nothing sent).
	// Returns the assigned queue id; zero when the mutation collapsed away.
	Enqueue(ctx context.Context, entry *models.QueueEntry, optimistic *models.Entity) (uint64, error)

	// GetEntry retrieves a queue entry by id
	// Returns ErrQueueEntryNotFound if it doesn't exist
	GetEntry(ctx context.Context, queueID uint64) (*models.QueueEntry, error)

	// ListPending returns entries with status pending, ordered by queue id
	ListPending(ctx context.Context) ([]*models.QueueEntry, error)

	// ListByStatus returns entries with the given status, ordered by queue id
	ListByStatus(ctx context.Context, status string) ([]*models.QueueEntry, error)

	// PendingForEntity returns pending or in-flight entries for one entity,
	// ordered by queue id. Used by the pull path to detect divergence.
	PendingForEntity(ctx context.Context, entityType, entityID string) ([]*models.QueueEntry, error)

	// MarkInFlight transitions the given pending entries to in_flight
	MarkInFlight(ctx context.Context, queueIDs []uint64) error

	// MarkSynced removes the entry from the active queue (status synced)
	MarkSynced(ctx context.Context, queueID uint64) error

	// RequeueInFlight returns in-flight entries to pending after a transport
	// failure, incrementing their retry count. Entries that exhaust
	// models.MaxRetries are parked as failed instead.
	RequeueInFlight(ctx context.Context, queueIDs []uint64, lastError string) error

	// MarkFailed parks an entry as failed with the given error.
	// A failed create whose entity was never acknowledged by the server is
	// rolled back to a local tombstone.
	MarkFailed(ctx context.Context, queueID uint64, lastError string) error

	// MarkConflict transitions an entry to conflict, retained until resolved
	MarkConflict(ctx context.Context, queueID uint64) error

	// Retry re-arms a failed or conflicted entry for automatic push
	Retry(ctx context.Context, queueID uint64) error

	// CountPending returns the number of pending plus in-flight entries
	CountPending(ctx context.Context) (int, error)
}
