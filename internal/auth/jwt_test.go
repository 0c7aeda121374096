package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("test-secret-key", "user-123", time.Hour)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestParseToken(t *testing.T) {
	secret := "test-secret-key"
	userID := "user-123"

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken(secret, userID, time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.Sub)
	})

	t.Run("invalid signature", func(t *testing.T) {
		token, err := GenerateToken("wrong-secret", userID, time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateToken(secret, userID, -time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
		assert.Nil(t, claims)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		tkn := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Sub: userID})
		token, err := tkn.SignedString([]byte(secret))
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ParseToken(secret, "not.a.valid.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestVerifyPassword(t *testing.T) {
	password := "testpassword123"

	hash, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, hash)

	t.Run("correct password", func(t *testing.T) {
		assert.True(t, VerifyPassword(hash, password))
	})

	t.Run("wrong password", func(t *testing.T) {
		assert.False(t, VerifyPassword(hash, "wrongpassword"))
	})

	t.Run("different hash each time", func(t *testing.T) {
		hash2, err := HashPassword(password)
		require.NoError(t, err)
		assert.NotEqual(t, hash, hash2)
		assert.True(t, VerifyPassword(hash2, password))
	})
}
