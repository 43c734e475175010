package blogpulse_test

import (
	"testing"

	blogpulse "github.com/goliatone/blog-pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes and verifies a password", func(t *testing.T) {
		hash, err := blogpulse.HashPassword("sup3r-secret-pwd")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "sup3r-secret-pwd", hash)

		assert.NoError(t, blogpulse.ComparePasswordAndHash("sup3r-secret-pwd", hash))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := blogpulse.HashPassword("")
		assert.ErrorIs(t, err, blogpulse.ErrNoEmptyString)
	})

	t.Run("produces a different hash every time", func(t *testing.T) {
		first, err := blogpulse.HashPassword("same-password")
		require.NoError(t, err)
		second, err := blogpulse.HashPassword("same-password")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := blogpulse.HashPassword("correct-password")
	require.NoError(t, err)

	t.Run("wrong password maps to invalid credentials", func(t *testing.T) {
		err := blogpulse.ComparePasswordAndHash("wrong-password", hash)
		assert.ErrorIs(t, err, blogpulse.ErrInvalidCredentials)
	})

	t.Run("garbage hash is not an invalid credential error", func(t *testing.T) {
		err := blogpulse.ComparePasswordAndHash("correct-password", "not-a-bcrypt-hash")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, blogpulse.ErrInvalidCredentials)
	})
}

func TestFederatedPasswordHash(t *testing.T) {
	t.Run("derives from email and secret", func(t *testing.T) {
		hash, err := blogpulse.FederatedPasswordHash("user@example.com", "server-secret")
		require.NoError(t, err)

		assert.NoError(t, blogpulse.ComparePasswordAndHash("user@example.comserver-secret", hash))
	})

	t.Run("requires both inputs", func(t *testing.T) {
		_, err := blogpulse.FederatedPasswordHash("", "server-secret")
		assert.ErrorIs(t, err, blogpulse.ErrNoEmptyString)

		_, err = blogpulse.FederatedPasswordHash("user@example.com", "")
		assert.ErrorIs(t, err, blogpulse.ErrNoEmptyString)
	})
}
