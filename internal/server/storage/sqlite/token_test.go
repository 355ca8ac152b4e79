package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/tripsync/internal/models"
	"github.com/voyago/tripsync/internal/server/storage"
)

func newTestToken(userID, hash string, expiresAt time.Time) *models.RefreshToken {
	return &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
}

func TestTokenStorage_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser("tokenowner")
	require.NoError(t, s.CreateUser(ctx, user))

	token := newTestToken(user.ID, "hash-abc", time.Now().Add(24*time.Hour))
	require.NoError(t, s.SaveRefreshToken(ctx, token))

	retrieved, err := s.GetRefreshToken(ctx, "hash-abc")
	require.NoError(t, err)
	assert.Equal(t, token.ID, retrieved.ID)
	assert.Equal(t, user.ID, retrieved.UserID)

	_, err = s.GetRefreshToken(ctx, "unknown-hash")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestTokenStorage_DeleteRefreshToken(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser("deltoken")
	require.NoError(t, s.CreateUser(ctx, user))

	token := newTestToken(user.ID, "hash-del", time.Now().Add(time.Hour))
	require.NoError(t, s.SaveRefreshToken(ctx, token))

	require.NoError(t, s.DeleteRefreshToken(ctx, "hash-del"))

	_, err := s.GetRefreshToken(ctx, "hash-del")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	err = s.DeleteRefreshToken(ctx, "hash-del")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestTokenStorage_DeleteUserTokens(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser("multitoken")
	require.NoError(t, s.CreateUser(ctx, user))

	require.NoError(t, s.SaveRefreshToken(ctx, newTestToken(user.ID, "hash-1", time.Now().Add(time.Hour))))
	require.NoError(t, s.SaveRefreshToken(ctx, newTestToken(user.ID, "hash-2", time.Now().Add(time.Hour))))

	require.NoError(t, s.DeleteUserTokens(ctx, user.ID))

	_, err := s.GetRefreshToken(ctx, "hash-1")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
	_, err = s.GetRefreshToken(ctx, "hash-2")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestTokenStorage_DeleteExpiredTokens(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser("expiry")
	require.NoError(t, s.CreateUser(ctx, user))

	expired := newTestToken(user.ID, "hash-expired", time.Now().Add(-time.Hour))
	live := newTestToken(user.ID, "hash-live", time.Now().Add(time.Hour))
	require.NoError(t, s.SaveRefreshToken(ctx, expired))
	require.NoError(t, s.SaveRefreshToken(ctx, live))

	require.NoError(t, s.DeleteExpiredTokens(ctx))

	_, err := s.GetRefreshToken(ctx, "hash-expired")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	_, err = s.GetRefreshToken(ctx, "hash-live")
	require.NoError(t, err)
}
