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

func TestEnqueue_AppliesOptimisticStateAtomically(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	queueID, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionCreate, 10, `{"title":"Rome"}`),
		testEntity("t1", `{"title":"Rome"}`))
	require.NoError(t, err)
	assert.NotZero(t, queueID)

	// the queue entry and the local entity are both visible
	entity, err := s.GetEntity(ctx, models.EntityTypeTrip, "t1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Rome"}`, string(entity.Payload))

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, queueID, pending[0].QueueID)
	assert.Equal(t, models.StatusPending, pending[0].Status)
}

func TestEnqueue_QueueIDsMonotonic(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	id1, err := s.Enqueue(ctx, testQueueEntry("t1", models.ActionCreate, 1, `{}`), testEntity("t1", `{}`))
	require.NoError(t, err)
	id2, err := s.Enqueue(ctx, testQueueEntry("t2", models.ActionCreate, 2, `{}`), testEntity("t2", `{}`))
	require.NoError(t, err)

	assert.Greater(t, id2, id1)
}

func TestEnqueue_TwoUpdatesCollapseToLater(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionUpdate, 10, `{"title":"v1"}`),
		testEntity("t1", `{"title":"v1"}`))
	require.NoError(t, err)

	later, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionUpdate, 20, `{"title":"v2"}`),
		testEntity("t1", `{"title":"v2"}`))
	require.NoError(t, err)

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, later, pending[0].QueueID)
	assert.JSONEq(t, `{"title":"v2"}`, string(pending[0].PayloadSnapshot))

	// reads see the latest pending payload
	entity, err := s.GetEntity(ctx, models.EntityTypeTrip, "t1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"v2"}`, string(entity.Payload))
}

func TestEnqueue_UpdateFoldsIntoPendingCreate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	createID, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionCreate, 10, `{"title":"v1"}`),
		testEntity("t1", `{"title":"v1"}`))
	require.NoError(t, err)

	collapsed, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionUpdate, 20, `{"title":"v2"}`),
		testEntity("t1", `{"title":"v2"}`))
	require.NoError(t, err)
	assert.Zero(t, collapsed)

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, createID, pending[0].QueueID)
	assert.Equal(t, models.ActionCreate, pending[0].Action)
	assert.JSONEq(t, `{"title":"v2"}`, string(pending[0].PayloadSnapshot))
	assert.Equal(t, int64(20), pending[0].ClientTimestamp)
}

func TestEnqueue_CreateThenDeleteCollapsesToNothing(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionCreate, 10, `{"title":"v1"}`),
		testEntity("t1", `{"title":"v1"}`))
	require.NoError(t, err)

	collapsed, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionDelete, 20, ""), nil)
	require.NoError(t, err)
	assert.Zero(t, collapsed)

	// nothing left to push, entity tombstoned locally
	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	entity, err := s.GetEntity(ctx, models.EntityTypeTrip, "t1")
	require.NoError(t, err)
	assert.True(t, entity.Deleted)
}

func TestEnqueue_DeleteSupersedesPendingUpdate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionUpdate, 10, `{"title":"v1"}`),
		testEntity("t1", `{"title":"v1"}`))
	require.NoError(t, err)

	deleteID, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionDelete, 20, ""), nil)
	require.NoError(t, err)
	assert.NotZero(t, deleteID)

	pending, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.ActionDelete, pending[0].Action)
}

func TestEnqueue_UpdateAfterPendingDeleteIgnored(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	// a delete on a previously synced entity stays queued
	require.NoError(t, s.SaveEntity(ctx, &models.Entity{
		ID:               "t1",
		EntityType:       models.EntityTypeTrip,
		VersionTimestamp: 5,
		Payload:          json.RawMessage(`{"title":"synced"}`),
	}))
	_, err := s.Enqueue(ctx, testQueueEntry("t1", models.ActionDelete, 10, ""), nil)
	require.NoError(t, err)

	collapsed, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionUpdate, 20, `{"title":"resurrect"}`),
		testEntity("t1", `{"title":"resurrect"}`))
	require.NoError(t, err)
	assert.Zero(t, collapsed)

	entity, err := s.GetEntity(ctx, models.EntityTypeTrip, "t1")
	require.NoError(t, err)
	assert.True(t, entity.Deleted)
}

func TestMarkInFlightAndSynced(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	queueID, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionCreate, 10, `{}`), testEntity("t1", `{}`))
	require.NoError(t, err)

	require.NoError(t, s.MarkInFlight(ctx, []uint64{queueID}))

	entry, err := s.GetEntry(ctx, queueID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInFlight, entry.Status)

	require.NoError(t, s.MarkSynced(ctx, queueID))

	_, err = s.GetEntry(ctx, queueID)
	assert.ErrorIs(t, err, storage.ErrQueueEntryNotFound)

	count, err := s.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRequeueInFlight_ParksAfterMaxRetries(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	queueID, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionCreate, 10, `{}`), testEntity("t1", `{}`))
	require.NoError(t, err)

	for i := 0; i < models.MaxRetries; i++ {
		entry, err := s.GetEntry(ctx, queueID)
		require.NoError(t, err)
		if i < models.MaxRetries-1 {
			require.Equal(t, models.StatusPending, entry.Status)
		}

		require.NoError(t, s.MarkInFlight(ctx, []uint64{queueID}))
		require.NoError(t, s.RequeueInFlight(ctx, []uint64{queueID}, "connection refused"))
	}

	entry, err := s.GetEntry(ctx, queueID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, entry.Status)
	assert.Equal(t, models.MaxRetries, entry.RetryCount)
	assert.Equal(t, "connection refused", entry.LastError)

	// manual retry re-arms it
	require.NoError(t, s.Retry(ctx, queueID))
	entry, err = s.GetEntry(ctx, queueID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, entry.Status)
	assert.Zero(t, entry.RetryCount)
}

func TestMarkFailed_RollsBackUnsyncedCreate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	queueID, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionCreate, 10, `{"title":"bad"}`),
		testEntity("t1", `{"title":"bad"}`))
	require.NoError(t, err)

	require.NoError(t, s.MarkFailed(ctx, queueID, "validation: title too long"))

	entry, err := s.GetEntry(ctx, queueID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, entry.Status)
	assert.Equal(t, "validation: title too long", entry.LastError)

	// the optimistic create is rolled back to a tombstone
	entity, err := s.GetEntity(ctx, models.EntityTypeTrip, "t1")
	require.NoError(t, err)
	assert.True(t, entity.Deleted)
}

func TestPendingForEntity(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Enqueue(ctx,
		testQueueEntry("t1", models.ActionCreate, 10, `{}`), testEntity("t1", `{}`))
	require.NoError(t, err)
	_, err = s.Enqueue(ctx,
		testQueueEntry("t2", models.ActionCreate, 11, `{}`), testEntity("t2", `{}`))
	require.NoError(t, err)

	entries, err := s.PendingForEntity(ctx, models.EntityTypeTrip, "t1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "t1", entries[0].EntityID)

	entries, err = s.PendingForEntity(ctx, models.EntityTypeTrip, "t3")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
