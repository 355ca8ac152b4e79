package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	require.NoError(t, VerifyPassword("correct horse battery staple", hash))
	require.ErrorIs(t, VerifyPassword("wrong password", hash), ErrPasswordMismatch)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	h1, err := HashPassword("same password")
	require.NoError(t, err)

	h2, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	require.Error(t, err)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	require.Error(t, VerifyPassword("password", "not-a-hash"))
	require.Error(t, VerifyPassword("password", "$bcrypt$whatever"))
}

func TestTokens(t *testing.T) {
	tok, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, tok, 64)

	tok2, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, tok2)

	assert.Equal(t, HashToken(tok), HashToken(tok))
	assert.NotEqual(t, HashToken(tok), HashToken(tok2))
}
