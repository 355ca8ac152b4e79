package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/voyago/tripsync/internal/client/storage"
)

const (
	keyLastPullTimestamp = "last_pull_timestamp"
	keyDeviceID          = "device_id"
	seqKeyPrefix         = "last_seq/"
)

// SaveLastPullTimestamp saves the watermark of the last fully applied pull
func (s *Storage) SaveLastPullTimestamp(ctx context.Context, timestamp int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return putInt64(tx.Bucket(bucketMetadata), keyLastPullTimestamp, timestamp)
	})
}

// GetLastPullTimestamp retrieves the pull watermark.
// Returns 0 if no pull has completed yet.
func (s *Storage) GetLastPullTimestamp(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var timestamp int64

	err := s.db.View(func(tx *bbolt.Tx) error {
		timestamp = getInt64(tx.Bucket(bucketMetadata), keyLastPullTimestamp)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get last pull timestamp: %w", err)
	}

	return timestamp, nil
}

// SaveDeviceID persists the device identifier generated on first run
func (s *Storage) SaveDeviceID(ctx context.Context, deviceID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put([]byte(keyDeviceID), []byte(deviceID))
	})
}

// GetDeviceID retrieves the device identifier.
// Returns ErrMetadataNotFound on first run.
func (s *Storage) GetDeviceID(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var deviceID string

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMetadata).Get([]byte(keyDeviceID))
		if data == nil {
			return storage.ErrMetadataNotFound
		}
		deviceID = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}

	return deviceID, nil
}

// SaveLastReceivedSequence saves the highest room sequence applied locally
func (s *Storage) SaveLastReceivedSequence(ctx context.Context, roomID string, sequence int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return putInt64(tx.Bucket(bucketMetadata), seqKeyPrefix+roomID, sequence)
	})
}

// GetLastReceivedSequence retrieves the highest applied room sequence.
// Returns 0 for rooms never subscribed to.
func (s *Storage) GetLastReceivedSequence(ctx context.Context, roomID string) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var sequence int64

	err := s.db.View(func(tx *bbolt.Tx) error {
		sequence = getInt64(tx.Bucket(bucketMetadata), seqKeyPrefix+roomID)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get last received sequence: %w", err)
	}

	return sequence, nil
}

func putInt64(bucket *bbolt.Bucket, key string, value int64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(value))
	if err := bucket.Put([]byte(key), buf); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func getInt64(bucket *bbolt.Bucket, key string) int64 {
	data := bucket.Get([]byte(key))
	if len(data) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(data))
}
