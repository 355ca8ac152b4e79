package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	storage, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = storage.Close()
	}

	return storage, cleanup
}

func TestNew_RunsMigrations(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tables := []string{"users", "refresh_tokens", "entities", "chat_messages"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}
