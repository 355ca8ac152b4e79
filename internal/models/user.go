package models

import "time"

// User is a server-side account.
type User struct {
	ID           string    `json:"id"`            // UUID
	Username     string    `json:"username"`      // unique username
	PasswordHash string    `json:"password_hash"` // argon2id hash, encoded
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken is a server-side refresh token record. Only the SHA-256 hash
// of the token is stored.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
