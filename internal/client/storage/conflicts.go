package storage

import (
	"context"

	"github.com/voyago/tripsync/internal/models"
)

//go:generate moq -out conflictstorage_mock.go . ConflictStorage

// ConflictStorage defines interface for persisting conflict records.
// A record exists from detection until resolution and is deleted once
// resolved.
type ConflictStorage interface {
	// SaveConflict stores a conflict record keyed by queue id
	SaveConflict(ctx context.Context, record *models.ConflictRecord) error

	// GetConflict retrieves a conflict record by queue id
	// Returns ErrConflictNotFound if none exists
	GetConflict(ctx context.Context, queueID uint64) (*models.ConflictRecord, error)

	// ListConflicts returns all unresolved conflict records
	ListConflicts(ctx context.Context) ([]*models.ConflictRecord, error)

	// DeleteConflict removes a resolved conflict record
	DeleteConflict(ctx context.Context, queueID uint64) error
}
