package storage

import (
	"context"

	"github.com/voyago/tripsync/internal/models"
)

//go:generate moq -out entitystorage_mock.go . EntityStorage

// EntityStorage defines the cached-entity half of the local mutation store.
// Writes coming from the server go through SaveEntity/Tombstone; optimistic
// local writes go through QueueStorage.Enqueue so the queue entry and the
// entity change land in one transaction.
type EntityStorage interface {
	// SaveEntity stores or replaces an entity by (type, id)
	SaveEntity(ctx context.Context, entity *models.Entity) error

	// GetEntity retrieves an entity by type and id, tombstones included
	// Returns ErrEntityNotFound if it doesn't exist
	GetEntity(ctx context.Context, entityType, id string) (*models.Entity, error)

	// ListEntities returns all non-deleted entities of a type
	ListEntities(ctx context.Context, entityType string) ([]*models.Entity, error)

	// Tombstone marks an entity deleted with the given server timestamp.
	// Creates the tombstone if the entity was never cached locally.
	Tombstone(ctx context.Context, entityType, id string, versionTimestamp int64) error
}
