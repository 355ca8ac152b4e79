package storage

import "context"

//go:generate moq -out metadatastorage_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client sync metadata
type MetadataStorage interface {
	// SaveLastPullTimestamp saves the watermark of the last fully applied pull
	SaveLastPullTimestamp(ctx context.Context, timestamp int64) error

	// GetLastPullTimestamp retrieves the pull watermark
	// Returns 0 if no pull has completed yet
	GetLastPullTimestamp(ctx context.Context) (int64, error)

	// SaveDeviceID persists the device identifier generated on first run
	SaveDeviceID(ctx context.Context, deviceID string) error

	// GetDeviceID retrieves the device identifier
	// Returns ErrMetadataNotFound on first run
	GetDeviceID(ctx context.Context) (string, error)

	// SaveLastReceivedSequence saves the highest room sequence applied locally
	SaveLastReceivedSequence(ctx context.Context, roomID string, sequence int64) error

	// GetLastReceivedSequence retrieves the highest applied room sequence
	// Returns 0 for rooms never subscribed to
	GetLastReceivedSequence(ctx context.Context, roomID string) (int64, error)
}
