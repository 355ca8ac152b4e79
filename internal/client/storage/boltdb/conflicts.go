package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/models"
)

// SaveConflict stores a conflict record keyed by queue id
func (s *Storage) SaveConflict(ctx context.Context, record *models.ConflictRecord) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal conflict record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketConflicts).Put(queueKey(record.QueueID), data); err != nil {
			return fmt.Errorf("failed to save conflict record: %w", err)
		}
		return nil
	})
}

// GetConflict retrieves a conflict record by queue id
func (s *Storage) GetConflict(ctx context.Context, queueID uint64) (*models.ConflictRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var record *models.ConflictRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketConflicts).Get(queueKey(queueID))
		if data == nil {
			return storage.ErrConflictNotFound
		}

		record = &models.ConflictRecord{}
		if err := json.Unmarshal(data, record); err != nil {
			return fmt.Errorf("failed to unmarshal conflict record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ListConflicts returns all unresolved conflict records
func (s *Storage) ListConflicts(ctx context.Context) ([]*models.ConflictRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var records []*models.ConflictRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).ForEach(func(k, v []byte) error {
			var record models.ConflictRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to unmarshal conflict record: %w", err)
			}
			if !record.Resolved {
				records = append(records, &record)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conflict records: %w", err)
	}

	return records, nil
}

// DeleteConflict removes a resolved conflict record
func (s *Storage) DeleteConflict(ctx context.Context, queueID uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).Delete(queueKey(queueID))
	})
}
