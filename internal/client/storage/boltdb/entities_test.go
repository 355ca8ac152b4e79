package boltdb

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/models"
)

func TestSaveEntity_ReplaceByID(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	entity := testEntity("t1", `{"title":"v1"}`)
	entity.VersionTimestamp = 100
	require.NoError(t, s.SaveEntity(ctx, entity))

	entity2 := testEntity("t1", `{"title":"v2"}`)
	entity2.VersionTimestamp = 200
	require.NoError(t, s.SaveEntity(ctx, entity2))

	got, err := s.GetEntity(ctx, models.EntityTypeTrip, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.VersionTimestamp)
	assert.JSONEq(t, `{"title":"v2"}`, string(got.Payload))

	// same type, no duplicates
	list, err := s.ListEntities(ctx, models.EntityTypeTrip)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetEntity_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetEntity(context.Background(), models.EntityTypeTrip, "missing")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)
}

func TestListEntities_FiltersTypeAndTombstones(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEntity(ctx, testEntity("t1", `{"title":"a"}`)))
	require.NoError(t, s.SaveEntity(ctx, &models.Entity{
		ID:         "i1",
		EntityType: models.EntityTypeItineraryItem,
		Payload:    json.RawMessage(`{"title":"b"}`),
	}))
	require.NoError(t, s.SaveEntity(ctx, &models.Entity{
		ID:         "t2",
		EntityType: models.EntityTypeTrip,
		Deleted:    true,
	}))

	trips, err := s.ListEntities(ctx, models.EntityTypeTrip)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "t1", trips[0].ID)
}

func TestTombstone_KeepsHigherVersion(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	entity := testEntity("t1", `{"title":"a"}`)
	entity.VersionTimestamp = 300
	require.NoError(t, s.SaveEntity(ctx, entity))

	require.NoError(t, s.Tombstone(ctx, models.EntityTypeTrip, "t1", 100))

	got, err := s.GetEntity(ctx, models.EntityTypeTrip, "t1")
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Nil(t, got.Payload)
	assert.Equal(t, int64(300), got.VersionTimestamp)
}

func TestTombstone_CreatesMissingEntity(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Tombstone(ctx, models.EntityTypeTrip, "ghost", 42))

	got, err := s.GetEntity(ctx, models.EntityTypeTrip, "ghost")
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Equal(t, int64(42), got.VersionTimestamp)
}
