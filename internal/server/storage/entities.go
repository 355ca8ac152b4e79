package storage

import (
	"context"

	"github.com/voyago/tripsync/internal/models"
)

// Delta is the result of a delta query: every live entity of the requested
// type whose version timestamp is newer than the caller's watermark, plus
// the ids of entities deleted in the same window. Cutoff is the highest
// version timestamp in the window, zero when nothing changed.
type Delta struct {
	Items        []*models.Entity
	TombstoneIDs []string
	Cutoff       int64
}

// EntityStorage defines interface for the server-side entity table. Rows
// are versioned by the handler; storage only persists and filters.
type EntityStorage interface {
	// GetEntity retrieves an entity by id, tombstones included
	// Returns ErrEntityNotFound if no row exists
	GetEntity(ctx context.Context, entityID string) (*models.Entity, error)

	// UpsertEntity inserts or overwrites an entity row
	UpsertEntity(ctx context.Context, entity *models.Entity) error

	// ListEntitiesSince returns the delta for one entity type: rows with
	// version_timestamp strictly greater than since
	ListEntitiesSince(ctx context.Context, entityType string, since int64) (*Delta, error)
}
