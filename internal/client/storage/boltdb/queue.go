package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/models"
)

// queueKey encodes a queue id as a big-endian key so cursor order equals
// enqueue order.
func queueKey(queueID uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, queueID)
	return key
}

// Enqueue appends a mutation and applies its optimistic local effect in a
// single transaction. Collapse rules for redundant predecessors:
//
//   - update after pending update: the earlier entry is removed (synced,
//     never sent) and only the later payload is pushed
//   - update after pending create: the later payload is folded into the
//     pending create, nothing new is enqueued
//   - update after pending delete: ignored, tombstone precedence
//   - delete after pending create: both collapse to a local tombstone,
//     nothing is sent at all
//   - delete after pending update: the update is removed, the delete is sent
//
// In-flight entries are never touched here; serializing against them is the
// orchestrator's job.
func (s *Storage) Enqueue(ctx context.Context, entry *models.QueueEntry, optimistic *models.Entity) (uint64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var assigned uint64

	err := s.db.Update(func(tx *bbolt.Tx) error {
		qb := tx.Bucket(bucketQueue)

		pending, err := pendingForEntityTx(tx, entry.EntityType, entry.EntityID, models.StatusPending)
		if err != nil {
			return err
		}

		switch entry.Action {
		case models.ActionUpdate:
			for _, prev := range pending {
				switch prev.Action {
				case models.ActionDelete:
					// tombstone precedence: the update is dropped
					return nil
				case models.ActionCreate:
					// fold the newer payload into the unsent create
					prev.PayloadSnapshot = entry.PayloadSnapshot
					prev.ClientTimestamp = entry.ClientTimestamp
					if err := putQueueEntry(qb, prev); err != nil {
						return err
					}
					return putEntity(tx, optimistic)
				case models.ActionUpdate:
					// superseded, never sent
					if err := qb.Delete(queueKey(prev.QueueID)); err != nil {
						return fmt.Errorf("failed to collapse queue entry: %w", err)
					}
				}
			}
		case models.ActionDelete:
			hadPendingCreate := false
			for _, prev := range pending {
				if prev.Action == models.ActionCreate {
					hadPendingCreate = true
				}
				if err := qb.Delete(queueKey(prev.QueueID)); err != nil {
					return fmt.Errorf("failed to collapse queue entry: %w", err)
				}
			}
			if hadPendingCreate {
				// the server never saw this entity; tombstone locally only
				return tombstoneEntity(tx, entry.EntityType, entry.EntityID, 0)
			}
		}

		queueID, err := qb.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to assign queue id: %w", err)
		}

		entry.QueueID = queueID
		entry.Status = models.StatusPending
		entry.EnqueuedAt = time.Now()

		if err := putQueueEntry(qb, entry); err != nil {
			return err
		}

		// optimistic local apply in the same transaction
		if entry.Action == models.ActionDelete {
			if err := tombstoneEntity(tx, entry.EntityType, entry.EntityID, 0); err != nil {
				return err
			}
		} else if err := putEntity(tx, optimistic); err != nil {
			return err
		}

		assigned = queueID
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("enqueue transaction failed: %w", err)
	}

	return assigned, nil
}

func putQueueEntry(qb *bbolt.Bucket, entry *models.QueueEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal queue entry: %w", err)
	}
	if err := qb.Put(queueKey(entry.QueueID), data); err != nil {
		return fmt.Errorf("failed to save queue entry: %w", err)
	}
	return nil
}

func getQueueEntry(qb *bbolt.Bucket, queueID uint64) (*models.QueueEntry, error) {
	data := qb.Get(queueKey(queueID))
	if data == nil {
		return nil, storage.ErrQueueEntryNotFound
	}

	entry := &models.QueueEntry{}
	if err := json.Unmarshal(data, entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue entry: %w", err)
	}
	return entry, nil
}

// pendingForEntityTx scans the queue for entries of one entity with any of
// the given statuses, in queue id order.
func pendingForEntityTx(tx *bbolt.Tx, entityType, entityID string, statuses ...string) ([]*models.QueueEntry, error) {
	var entries []*models.QueueEntry

	err := tx.Bucket(bucketQueue).ForEach(func(k, v []byte) error {
		var entry models.QueueEntry
		if err := json.Unmarshal(v, &entry); err != nil {
			return fmt.Errorf("failed to unmarshal queue entry: %w", err)
		}
		if entry.EntityType != entityType || entry.EntityID != entityID {
			return nil
		}
		for _, status := range statuses {
			if entry.Status == status {
				entries = append(entries, &entry)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// GetEntry retrieves a queue entry by id
func (s *Storage) GetEntry(ctx context.Context, queueID uint64) (*models.QueueEntry, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entry *models.QueueEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		entry, err = getQueueEntry(tx.Bucket(bucketQueue), queueID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ListPending returns entries with status pending, ordered by queue id
func (s *Storage) ListPending(ctx context.Context) ([]*models.QueueEntry, error) {
	return s.ListByStatus(ctx, models.StatusPending)
}

// ListByStatus returns entries with the given status, ordered by queue id
func (s *Storage) ListByStatus(ctx context.Context, status string) ([]*models.QueueEntry, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entries []*models.QueueEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEach(func(k, v []byte) error {
			var entry models.QueueEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal queue entry: %w", err)
			}
			if entry.Status == status {
				entries = append(entries, &entry)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list queue entries: %w", err)
	}

	return entries, nil
}

// PendingForEntity returns pending or in-flight entries for one entity
func (s *Storage) PendingForEntity(ctx context.Context, entityType, entityID string) ([]*models.QueueEntry, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entries []*models.QueueEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		entries, err = pendingForEntityTx(tx, entityType, entityID,
			models.StatusPending, models.StatusInFlight)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// MarkInFlight transitions the given pending entries to in_flight
func (s *Storage) MarkInFlight(ctx context.Context, queueIDs []uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		qb := tx.Bucket(bucketQueue)
		for _, queueID := range queueIDs {
			entry, err := getQueueEntry(qb, queueID)
			if err != nil {
				return err
			}
			entry.Status = models.StatusInFlight
			if err := putQueueEntry(qb, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkSynced removes the entry from the active queue
func (s *Storage) MarkSynced(ctx context.Context, queueID uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).Delete(queueKey(queueID))
	})
}

// RequeueInFlight returns in-flight entries to pending after a transport
// failure. Entries that exhaust models.MaxRetries are parked as failed.
func (s *Storage) RequeueInFlight(ctx context.Context, queueIDs []uint64, lastError string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		qb := tx.Bucket(bucketQueue)
		for _, queueID := range queueIDs {
			entry, err := getQueueEntry(qb, queueID)
			if err != nil {
				return err
			}

			entry.RetryCount++
			entry.LastError = lastError
			if entry.RetryCount >= models.MaxRetries {
				entry.Status = models.StatusFailed
			} else {
				entry.Status = models.StatusPending
			}

			if err := putQueueEntry(qb, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkFailed parks an entry as failed. A failed create whose entity was
// never acknowledged by the server rolls the optimistic apply back to a
// local tombstone, so the UI stops showing data the server refused.
func (s *Storage) MarkFailed(ctx context.Context, queueID uint64, lastError string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		qb := tx.Bucket(bucketQueue)

		entry, err := getQueueEntry(qb, queueID)
		if err != nil {
			return err
		}

		entry.Status = models.StatusFailed
		entry.LastError = lastError
		if err := putQueueEntry(qb, entry); err != nil {
			return err
		}

		if entry.Action == models.ActionCreate {
			entity, err := getEntity(tx, entry.EntityType, entry.EntityID)
			if err == storage.ErrEntityNotFound {
				return nil
			}
			if err != nil {
				return err
			}
			if entity.VersionTimestamp == 0 {
				return tombstoneEntity(tx, entry.EntityType, entry.EntityID, 0)
			}
		}
		return nil
	})
}

// MarkConflict transitions an entry to conflict, retained until resolved
func (s *Storage) MarkConflict(ctx context.Context, queueID uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		qb := tx.Bucket(bucketQueue)

		entry, err := getQueueEntry(qb, queueID)
		if err != nil {
			return err
		}

		entry.Status = models.StatusConflict
		return putQueueEntry(qb, entry)
	})
}

// Retry re-arms a failed or conflicted entry for automatic push
func (s *Storage) Retry(ctx context.Context, queueID uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		qb := tx.Bucket(bucketQueue)

		entry, err := getQueueEntry(qb, queueID)
		if err != nil {
			return err
		}

		entry.Status = models.StatusPending
		entry.RetryCount = 0
		entry.LastError = ""
		return putQueueEntry(qb, entry)
	})
}

// CountPending returns the number of pending plus in-flight entries
func (s *Storage) CountPending(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	count := 0

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEach(func(k, v []byte) error {
			var entry models.QueueEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal queue entry: %w", err)
			}
			if entry.Status == models.StatusPending || entry.Status == models.StatusInFlight {
				count++
			}
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count pending entries: %w", err)
	}

	return count, nil
}
