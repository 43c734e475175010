package blogpulse_test

import (
	"context"
	"database/sql"
	"testing"

	blogpulse "github.com/goliatone/blog-pulse"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	sqliteCreateUsers = `CREATE TABLE users (
    id TEXT NOT NULL PRIMARY KEY,
    display_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
	sqliteCreatePosts = `CREATE TABLE blog_posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    author TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
)

func setupTestDB(t *testing.T) (*bun.DB, func()) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateUsers)
	require.NoError(t, err)
	_, err = bunDB.Exec(sqliteCreatePosts)
	require.NoError(t, err)

	cleanup := func() {
		_ = bunDB.Close()
		_ = db.Close()
	}

	return bunDB, cleanup
}

// testConfig is a plain Config implementation for tests
type testConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		tokenExpiration: 24,
		issuer:          "test-issuer",
		audience:        []string{"test:audience"},
	}
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c testConfig) GetIssuer() string       { return c.issuer }
func (c testConfig) GetAudience() []string   { return c.audience }
func (c testConfig) GetContextKey() string   { return "user" }
func (c testConfig) GetTokenLookup() string  { return "header:Authorization" }
func (c testConfig) GetAuthScheme() string   { return "Bearer" }

// stubVerifier is a canned AssertionVerifier
type stubVerifier struct {
	assertion *blogpulse.VerifiedAssertion
	err       error
	calls     int
}

func (s *stubVerifier) Verify(ctx context.Context, assertionToken string) (*blogpulse.VerifiedAssertion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.assertion, nil
}
