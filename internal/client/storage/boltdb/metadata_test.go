package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/tripsync/internal/client/storage"
)

func TestLastPullTimestamp_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	ts, err := s.GetLastPullTimestamp(ctx)
	require.NoError(t, err)
	assert.Zero(t, ts, "first run must report 0")

	require.NoError(t, s.SaveLastPullTimestamp(ctx, 1712345678901))

	ts, err = s.GetLastPullTimestamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1712345678901), ts)
}

func TestDeviceID_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.GetDeviceID(ctx)
	assert.ErrorIs(t, err, storage.ErrMetadataNotFound)

	require.NoError(t, s.SaveDeviceID(ctx, "device-a"))

	deviceID, err := s.GetDeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "device-a", deviceID)
}

func TestLastReceivedSequence_PerRoom(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seq, err := s.GetLastReceivedSequence(ctx, "trip-1")
	require.NoError(t, err)
	assert.Zero(t, seq)

	require.NoError(t, s.SaveLastReceivedSequence(ctx, "trip-1", 17))
	require.NoError(t, s.SaveLastReceivedSequence(ctx, "trip-2", 4))

	seq, err = s.GetLastReceivedSequence(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, int64(17), seq)

	seq, err = s.GetLastReceivedSequence(ctx, "trip-2")
	require.NoError(t, err)
	assert.Equal(t, int64(4), seq)
}
