package boltdb

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voyago/tripsync/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func testEntity(id string, payload string) *models.Entity {
	return &models.Entity{
		ID:         id,
		EntityType: models.EntityTypeTrip,
		DeviceID:   "device-a",
		Payload:    json.RawMessage(payload),
	}
}

func testQueueEntry(entityID, action string, ts int64, payload string) *models.QueueEntry {
	return &models.QueueEntry{
		EntityType:      models.EntityTypeTrip,
		EntityID:        entityID,
		Action:          action,
		DeviceID:        "device-a",
		PayloadSnapshot: json.RawMessage(payload),
		ClientTimestamp: ts,
	}
}

func TestNew_ReopensExistingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "client.db")

	s, err := New(ctx, path)
	require.NoError(t, err)

	_, err = s.Enqueue(ctx, testQueueEntry("t1", models.ActionCreate, 1, `{"title":"Rome"}`),
		testEntity("t1", `{"title":"Rome"}`))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := New(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	pending, err := s2.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}
