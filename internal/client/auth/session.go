// Package auth manages the client session: register/login/logout against
// the server and access token lifecycle for the sync engine and the
// websocket transport.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	httpClient "github.com/voyago/tripsync/internal/client/api"
	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/validation"
	"github.com/voyago/tripsync/pkg/api"
)

// ErrNotAuthenticated is returned when no session exists locally.
var ErrNotAuthenticated = errors.New("not authenticated")

// expirySlack refreshes tokens slightly before they expire so an
// in-flight request never carries a token that dies mid-request.
const expirySlack = 30 * time.Second

// Session persists tokens in the local store and refreshes the access
// token transparently. It satisfies the TokenProvider interfaces of both
// the sync engine and the transport client.
type Session struct {
	apiClient httpClient.ClientAPI
	store     storage.AuthStorage
	logger    *slog.Logger

	mu          sync.Mutex
	invalidated bool
}

// NewSession creates a session manager over the given API client and
// auth store.
func NewSession(apiClient httpClient.ClientAPI, store storage.AuthStorage, logger *slog.Logger) *Session {
	return &Session{
		apiClient: apiClient,
		store:     store,
		logger:    logger,
	}
}

// Register creates an account and signs in.
func (s *Session) Register(ctx context.Context, username, password string) (*storage.AuthData, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}

	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	if _, err := s.apiClient.Register(ctx, api.RegisterRequest{
		Username: username,
		Password: password,
	}); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return s.Login(ctx, username, password)
}

// Login authenticates and persists the issued token pair.
func (s *Session) Login(ctx context.Context, username, password string) (*storage.AuthData, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}

	resp, err := s.apiClient.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	auth := &storage.AuthData{
		UserID:       resp.UserID,
		Username:     username,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Unix() + resp.ExpiresIn,
	}

	if err := s.store.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.invalidated = false
	s.mu.Unlock()

	return auth, nil
}

// Logout drops the local session. The server is not notified; refresh
// tokens expire on their own.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// IsAuthenticated reports whether a local session exists.
func (s *Session) IsAuthenticated(ctx context.Context) (bool, error) {
	_, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// CurrentUser returns the signed-in user's session data.
func (s *Session) CurrentUser(ctx context.Context) (*storage.AuthData, error) {
	auth, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotAuthenticated
		}

		return nil, err
	}

	return auth, nil
}

// GetAccessToken returns a valid access token, refreshing the pair first
// when the stored one is expired or was invalidated by the server.
func (s *Session) GetAccessToken(ctx context.Context) (string, error) {
	auth, err := s.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return "", ErrNotAuthenticated
		}

		return "", fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	stale := s.invalidated
	s.mu.Unlock()

	if !stale && time.Now().Unix() < auth.ExpiresAt-int64(expirySlack.Seconds()) {
		return auth.AccessToken, nil
	}

	refreshed, err := s.refresh(ctx, auth)
	if err != nil {
		return "", err
	}

	return refreshed.AccessToken, nil
}

// InvalidateAccess forces a refresh on the next GetAccessToken call.
// Called when the server rejects a token before its local expiry.
func (s *Session) InvalidateAccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidated = true
}

func (s *Session) refresh(ctx context.Context, auth *storage.AuthData) (*storage.AuthData, error) {
	resp, err := s.apiClient.Refresh(ctx, api.RefreshRequest{RefreshToken: auth.RefreshToken})
	if err != nil {
		if errors.Is(err, httpClient.ErrAuthExpired) {
			// refresh token is dead too; the user must sign in again
			if delErr := s.store.DeleteAuth(ctx); delErr != nil {
				s.logger.Warn("failed to drop dead session", "error", delErr)
			}

			return nil, ErrNotAuthenticated
		}

		return nil, fmt.Errorf("refresh token: %w", err)
	}

	next := &storage.AuthData{
		UserID:       auth.UserID,
		Username:     auth.Username,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Unix() + resp.ExpiresIn,
	}

	if err := s.store.SaveAuth(ctx, next); err != nil {
		return nil, fmt.Errorf("save refreshed session: %w", err)
	}

	s.mu.Lock()
	s.invalidated = false
	s.mu.Unlock()

	s.logger.Debug("access token refreshed", "user_id", next.UserID)

	return next, nil
}
