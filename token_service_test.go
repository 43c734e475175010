package blogpulse_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	blogpulse "github.com/goliatone/blog-pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testIdentity is a simple implementation of Identity for testing
type testIdentity struct {
	id          string
	email       string
	displayName string
}

func (t testIdentity) ID() string          { return t.id }
func (t testIdentity) Email() string       { return t.email }
func (t testIdentity) DisplayName() string { return t.displayName }

func TestNewTokenService(t *testing.T) {
	t.Run("creates token service", func(t *testing.T) {
		service, err := blogpulse.NewTokenService([]byte("test-signing-key"), 24, "test-issuer", jwt.ClaimStrings{"test:audience"}, nil)
		require.NoError(t, err)
		assert.NotNil(t, service)
	})

	t.Run("refuses an empty signing key", func(t *testing.T) {
		service, err := blogpulse.NewTokenService(nil, 24, "test-issuer", nil, nil)
		assert.ErrorIs(t, err, blogpulse.ErrMissingSigningKey)
		assert.Nil(t, service)
	})
}

func TestTokenService_Generate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	tokenExpiration := 24

	service, err := blogpulse.NewTokenService(signingKey, tokenExpiration, "test-issuer", jwt.ClaimStrings{"test:audience"}, nil)
	require.NoError(t, err)

	t.Run("generates valid JWT token", func(t *testing.T) {
		identity := testIdentity{
			id:          "user-123",
			email:       "test@example.com",
			displayName: "Test User",
		}

		tokenString, err := service.Generate(identity)
		require.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		token, err := jwt.ParseWithClaims(tokenString, &blogpulse.JWTClaims{}, func(token *jwt.Token) (any, error) {
			return signingKey, nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)

		claims, ok := token.Claims.(*blogpulse.JWTClaims)
		require.True(t, ok)
		assert.Equal(t, "user-123", claims.Subject())
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "test@example.com", claims.Email())
		assert.Equal(t, "Test User", claims.DisplayName())
		assert.Equal(t, "test-issuer", claims.RegisteredClaims.Issuer)
		assert.Equal(t, jwt.ClaimStrings{"test:audience"}, claims.RegisteredClaims.Audience)
	})

	t.Run("sets correct expiration time", func(t *testing.T) {
		identity := testIdentity{id: "user-123", email: "test@example.com"}

		beforeGenerate := time.Now()
		tokenString, err := service.Generate(identity)
		afterGenerate := time.Now()
		require.NoError(t, err)

		token, err := jwt.ParseWithClaims(tokenString, &blogpulse.JWTClaims{}, func(token *jwt.Token) (any, error) {
			return signingKey, nil
		})
		require.NoError(t, err)

		claims := token.Claims.(*blogpulse.JWTClaims)
		expectedExpiry := beforeGenerate.Add(time.Duration(tokenExpiration) * time.Hour)
		actualExpiry := claims.Expires()

		// Allow for a small margin of difference due to timing
		assert.True(t, actualExpiry.After(expectedExpiry.Add(-time.Second)))
		assert.True(t, actualExpiry.Before(afterGenerate.Add(time.Duration(tokenExpiration)*time.Hour+time.Second)))
	})
}

func TestTokenService_Validate(t *testing.T) {
	signingKey := []byte("test-signing-key")

	service, err := blogpulse.NewTokenService(signingKey, 24, "test-issuer", jwt.ClaimStrings{"test:audience"}, nil)
	require.NoError(t, err)

	identity := testIdentity{
		id:          "user-123",
		email:       "test@example.com",
		displayName: "Test User",
	}

	t.Run("round trips a generated token", func(t *testing.T) {
		tokenString, err := service.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "test@example.com", claims.Email())
		assert.Equal(t, "Test User", claims.DisplayName())
	})

	t.Run("rejects a token signed with a different key", func(t *testing.T) {
		otherService, err := blogpulse.NewTokenService([]byte("other-signing-key"), 24, "test-issuer", jwt.ClaimStrings{"test:audience"}, nil)
		require.NoError(t, err)

		tokenString, err := otherService.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		assert.Error(t, err)
		assert.Nil(t, claims)
		assert.False(t, blogpulse.IsTokenExpiredError(err))
	})

	t.Run("rejects a tampered token", func(t *testing.T) {
		tokenString, err := service.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(tokenString + "x")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("rejects an expired token as expired", func(t *testing.T) {
		expired := &blogpulse.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				Subject:   "user-123",
				Audience:  jwt.ClaimStrings{"test:audience"},
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
			UID: "user-123",
		}

		tokenString, err := service.SignClaims(expired)
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		assert.ErrorIs(t, err, blogpulse.ErrTokenExpired)
		assert.True(t, blogpulse.IsTokenExpiredError(err))
		assert.Nil(t, claims)
	})

	t.Run("rejects a token for another issuer", func(t *testing.T) {
		otherIssuer, err := blogpulse.NewTokenService(signingKey, 24, "someone-else", jwt.ClaimStrings{"test:audience"}, nil)
		require.NoError(t, err)

		tokenString, err := otherIssuer.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}
