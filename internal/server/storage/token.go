package storage

import (
	"context"

	"github.com/voyago/tripsync/internal/models"
)

// TokenStorage defines interface for refresh token persistence.
// Tokens are stored hashed; lookups take the hash, never the raw token.
type TokenStorage interface {
	// SaveRefreshToken stores a new refresh token
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error

	// GetRefreshToken retrieves a token record by its hash
	// Returns ErrTokenNotFound if the token doesn't exist
	GetRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// DeleteRefreshToken removes a token record by its hash
	DeleteRefreshToken(ctx context.Context, tokenHash string) error

	// DeleteUserTokens removes all tokens belonging to a user
	DeleteUserTokens(ctx context.Context, userID string) error

	// DeleteExpiredTokens removes tokens past their expiry
	DeleteExpiredTokens(ctx context.Context) error
}
