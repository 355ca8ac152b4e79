package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/voyago/tripsync/internal/models"
	"github.com/voyago/tripsync/internal/server/storage"
)

// GetEntity retrieves an entity row by id, tombstones included
func (s *Storage) GetEntity(ctx context.Context, entityID string) (*models.Entity, error) {
	query := `
		SELECT id, entity_type, device_id, payload, version_timestamp, deleted, created_at, updated_at
		FROM entities
		WHERE id = ?
	`

	entity := &models.Entity{}
	var payload []byte

	err := s.db.QueryRowContext(ctx, query, entityID).Scan(
		&entity.ID,
		&entity.EntityType,
		&entity.DeviceID,
		&payload,
		&entity.VersionTimestamp,
		&entity.Deleted,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}

	entity.Payload = payload

	return entity, nil
}

// UpsertEntity inserts or overwrites an entity row
func (s *Storage) UpsertEntity(ctx context.Context, entity *models.Entity) error {
	query := `
		INSERT INTO entities (id, entity_type, device_id, payload, version_timestamp, deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			entity_type = excluded.entity_type,
			device_id = excluded.device_id,
			payload = excluded.payload,
			version_timestamp = excluded.version_timestamp,
			deleted = excluded.deleted,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.EntityType,
		entity.DeviceID,
		[]byte(entity.Payload),
		entity.VersionTimestamp,
		entity.Deleted,
		entity.CreatedAt,
		entity.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert entity: %w", err)
	}

	return nil
}

// ListEntitiesSince returns the delta for one entity type since a watermark.
// Tombstones travel as bare ids; live rows carry their full payload.
func (s *Storage) ListEntitiesSince(ctx context.Context, entityType string, since int64) (*storage.Delta, error) {
	query := `
		SELECT id, entity_type, device_id, payload, version_timestamp, deleted, created_at, updated_at
		FROM entities
		WHERE entity_type = ? AND version_timestamp > ?
		ORDER BY version_timestamp ASC
	`

	rows, err := s.db.QueryContext(ctx, query, entityType, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	delta := &storage.Delta{}

	for rows.Next() {
		entity := &models.Entity{}
		var payload []byte

		err := rows.Scan(
			&entity.ID,
			&entity.EntityType,
			&entity.DeviceID,
			&payload,
			&entity.VersionTimestamp,
			&entity.Deleted,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}

		if entity.VersionTimestamp > delta.Cutoff {
			delta.Cutoff = entity.VersionTimestamp
		}

		if entity.Deleted {
			delta.TombstoneIDs = append(delta.TombstoneIDs, entity.ID)
			continue
		}

		entity.Payload = payload
		delta.Items = append(delta.Items, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entities: %w", err)
	}

	return delta, nil
}
