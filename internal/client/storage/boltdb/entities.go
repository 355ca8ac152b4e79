package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/models"
)

// entityKey builds the entities bucket key: "<type>/<id>".
func entityKey(entityType, id string) []byte {
	return []byte(entityType + "/" + id)
}

// SaveEntity stores or replaces an entity by (type, id)
func (s *Storage) SaveEntity(ctx context.Context, entity *models.Entity) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return putEntity(tx, entity)
	})
}

// putEntity writes the entity inside an open transaction. Shared with the
// queue's atomic enqueue+apply path.
func putEntity(tx *bbolt.Tx, entity *models.Entity) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	bucket := tx.Bucket(bucketEntities)
	if err := bucket.Put(entityKey(entity.EntityType, entity.ID), data); err != nil {
		return fmt.Errorf("failed to save entity: %w", err)
	}

	return nil
}

// getEntity reads the entity inside an open transaction.
func getEntity(tx *bbolt.Tx, entityType, id string) (*models.Entity, error) {
	bucket := tx.Bucket(bucketEntities)

	data := bucket.Get(entityKey(entityType, id))
	if data == nil {
		return nil, storage.ErrEntityNotFound
	}

	entity := &models.Entity{}
	if err := json.Unmarshal(data, entity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	return entity, nil
}

// GetEntity retrieves an entity by type and id, tombstones included
func (s *Storage) GetEntity(ctx context.Context, entityType, id string) (*models.Entity, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entity *models.Entity

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		entity, err = getEntity(tx, entityType, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// ListEntities returns all non-deleted entities of a type
func (s *Storage) ListEntities(ctx context.Context, entityType string) ([]*models.Entity, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var entities []*models.Entity
	prefix := []byte(entityType + "/")

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketEntities).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var entity models.Entity
			if err := json.Unmarshal(v, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			if !entity.Deleted {
				entities = append(entities, &entity)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}

	return entities, nil
}

// Tombstone marks an entity deleted with the given server timestamp.
// Creates the tombstone if the entity was never cached locally.
func (s *Storage) Tombstone(ctx context.Context, entityType, id string, versionTimestamp int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tombstoneEntity(tx, entityType, id, versionTimestamp)
	})
}

// tombstoneEntity marks the entity deleted inside an open transaction.
func tombstoneEntity(tx *bbolt.Tx, entityType, id string, versionTimestamp int64) error {
	entity, err := getEntity(tx, entityType, id)
	if err == storage.ErrEntityNotFound {
		entity = &models.Entity{
			ID:         id,
			EntityType: entityType,
			CreatedAt:  time.Now(),
		}
	} else if err != nil {
		return err
	}

	entity.Deleted = true
	entity.Payload = nil
	entity.UpdatedAt = time.Now()
	if versionTimestamp > entity.VersionTimestamp {
		entity.VersionTimestamp = versionTimestamp
	}

	return putEntity(tx, entity)
}
