package hashing

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	require.NoError(t, err)
	salt2, err := GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, salt1, SaltBytes)
	assert.NotEqual(t, salt1, salt2)
}

func TestHashPassword(t *testing.T) {
	salt := []byte("0123456789abcdef")

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, HashPassword("secret1", salt), HashPassword("secret1", salt))
	})

	t.Run("256-bit output", func(t *testing.T) {
		raw, err := base64.StdEncoding.DecodeString(HashPassword("secret1", salt))
		require.NoError(t, err)
		assert.Len(t, raw, KeyBytes)
	})

	t.Run("salt changes hash", func(t *testing.T) {
		assert.NotEqual(t, HashPassword("secret1", salt), HashPassword("secret1", []byte("fedcba9876543210")))
	})

	t.Run("password changes hash", func(t *testing.T) {
		assert.NotEqual(t, HashPassword("secret1", salt), HashPassword("secret2", salt))
	})
}

func TestVerify(t *testing.T) {
	hash, salt, err := NewHash("password123")
	require.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		ok, err := Verify("password123", hash, salt)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		ok, err := Verify("password124", hash, salt)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("corrupt salt", func(t *testing.T) {
		_, err := Verify("password123", hash, "%%%not-base64")
		assert.Error(t, err)
	})
}
