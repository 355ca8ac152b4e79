package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrEntityNotFound indicates that the entity was not found
	ErrEntityNotFound = errors.New("entity not found")

	// ErrQueueEntryNotFound indicates that the queue entry was not found
	ErrQueueEntryNotFound = errors.New("queue entry not found")

	// ErrConflictNotFound indicates that no conflict record exists for the key
	ErrConflictNotFound = errors.New("conflict record not found")

	// ErrMetadataNotFound indicates that the metadata key was never written
	ErrMetadataNotFound = errors.New("metadata not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
