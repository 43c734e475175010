package blogpulse_test

import (
	"context"
	"testing"

	blogpulse "github.com/goliatone/blog-pulse"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProvider_VerifyIdentity(t *testing.T) {
	ctx := context.Background()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	users := blogpulse.NewUsersRepository(db)
	provider := blogpulse.NewUserProvider(users)

	hash, err := blogpulse.HashPassword("password1234")
	require.NoError(t, err)

	_, err = users.Register(ctx, &blogpulse.User{
		DisplayName:  "Test User",
		Email:        "test@example.com",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	t.Run("valid credentials yield the identity", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(ctx, "test@example.com", "password1234")
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", identity.Email())
		assert.Equal(t, "Test User", identity.DisplayName())
		assert.NotEmpty(t, identity.ID())
	})

	t.Run("wrong password fails", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(ctx, "test@example.com", "wrong")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, blogpulse.ErrInvalidCredentials)
	})

	t.Run("unknown email fails identically", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(ctx, "nobody@example.com", "password1234")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, blogpulse.ErrInvalidCredentials)
	})
}

func TestUserProvider_FindIdentityByEmail(t *testing.T) {
	ctx := context.Background()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	users := blogpulse.NewUsersRepository(db)
	provider := blogpulse.NewUserProvider(users)

	t.Run("unknown email is a not found error", func(t *testing.T) {
		identity, err := provider.FindIdentityByEmail(ctx, "nobody@example.com")
		assert.Nil(t, identity)
		assert.True(t, repository.IsRecordNotFound(err))
	})

	t.Run("known email resolves without a credential", func(t *testing.T) {
		_, err := users.Register(ctx, &blogpulse.User{
			DisplayName:  "Test User",
			Email:        "test@example.com",
			PasswordHash: "whatever",
		})
		require.NoError(t, err)

		identity, err := provider.FindIdentityByEmail(ctx, "test@example.com")
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", identity.Email())
	})
}
