package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketAuth      = []byte("auth")
	bucketEntities  = []byte("entities")
	bucketQueue     = []byte("queue")
	bucketConflicts = []byte("conflicts")
	bucketMetadata  = []byte("metadata")
)

// Storage is the BoltDB-backed local mutation store. A single *bbolt.DB
// serializes all writes, which gives the enqueue+apply atomicity the sync
// engine relies on: both land in one Update transaction or neither does.
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}

	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets creates all buckets up front so readers never have to handle
// a missing bucket after open.
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{
			bucketAuth,
			bucketEntities,
			bucketQueue,
			bucketConflicts,
			bucketMetadata,
		} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}
