// Package federated verifies identity assertions minted by external
// identity providers. A verifier checks the assertion's signature against
// the provider's published keys and hands the caller a small, normalized
// identity payload. It never talks to the application's own user store.
package federated

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	blogpulse "github.com/goliatone/blog-pulse"
)

const (
	// GoogleJWKSetURL is where Google publishes the signing keys for the
	// ID tokens it issues.
	GoogleJWKSetURL = "https://www.googleapis.com/oauth2/v3/certs"
)

// googleIssuers are the two issuer values Google has historically used.
// Both remain in circulation, so we accept either.
var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// GoogleConfig holds Google ID token verification configuration.
type GoogleConfig struct {
	// ClientID is the OAuth client the assertion must be addressed to.
	ClientID string

	// JWKSetURL overrides the Google JWKS endpoint.
	JWKSetURL string

	// Issuers overrides the accepted issuer values.
	Issuers []string

	// KeyFunc overrides key resolution entirely. Leave nil to fetch and
	// refresh keys from JWKSetURL.
	KeyFunc jwt.Keyfunc

	Logger blogpulse.Logger
}

// GoogleVerifier validates Google-issued ID tokens using JWKS.
type GoogleVerifier struct {
	config  GoogleConfig
	keyFunc jwt.Keyfunc
	issuers []string
	logger  blogpulse.Logger
}

// NewGoogleVerifier creates a verifier for Google ID token assertions.
func NewGoogleVerifier(cfg GoogleConfig) (*GoogleVerifier, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("google: client ID is required")
	}

	if cfg.JWKSetURL == "" {
		cfg.JWKSetURL = GoogleJWKSetURL
	}

	issuers := cfg.Issuers
	if len(issuers) == 0 {
		issuers = googleIssuers
	}

	lgr := cfg.Logger
	if lgr == nil {
		lgr = blogpulse.DefaultLogger()
	}

	kf := cfg.KeyFunc
	if kf == nil {
		jwks, err := keyfunc.Get(cfg.JWKSetURL, keyfunc.Options{
			RefreshErrorHandler: func(err error) {
				log.Printf("failed to do a background refresh of JWT set: %s", err)
			},
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute * 5,
			RefreshTimeout:    time.Second * 10,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return nil, fmt.Errorf("google: failed to get JWK set: %w", err)
		}
		kf = jwks.Keyfunc
	}

	return &GoogleVerifier{
		config:  cfg,
		keyFunc: kf,
		issuers: issuers,
		logger:  lgr,
	}, nil
}

type googleClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
}

// Verify implements blogpulse.AssertionVerifier. It checks the signature,
// audience, lifetime, and issuer of the assertion and returns the identity
// it attests to.
func (v *GoogleVerifier) Verify(ctx context.Context, assertionToken string) (*blogpulse.VerifiedAssertion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(assertionToken, claims, v.keyFunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.config.ClientID),
	)
	if err != nil {
		return nil, normalizeAssertionError(err)
	}

	if !token.Valid {
		return nil, normalizeAssertionError(fmt.Errorf("token marked invalid"))
	}

	if !v.trustedIssuer(claims.Issuer) {
		v.logger.Warn("rejected assertion from issuer %q", claims.Issuer)
		return nil, normalizeAssertionError(fmt.Errorf("unexpected issuer: %s", claims.Issuer))
	}

	if claims.Email == "" {
		return nil, normalizeAssertionError(fmt.Errorf("assertion carries no email claim"))
	}

	return &blogpulse.VerifiedAssertion{
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}

func (v *GoogleVerifier) trustedIssuer(issuer string) bool {
	for _, iss := range v.issuers {
		if issuer == iss {
			return true
		}
	}
	return false
}

func normalizeAssertionError(err error) error {
	if err == nil {
		return nil
	}

	clone := blogpulse.ErrUntrustedAssertion.Clone()
	if clone == nil {
		return err
	}

	clone.Source = err
	meta := map[string]any{
		"provider": "google",
		"cause":    err.Error(),
	}
	if stderrors.Is(err, jwt.ErrTokenExpired) {
		meta["expired"] = true
	}
	return clone.WithMetadata(meta)
}

var _ blogpulse.AssertionVerifier = (*GoogleVerifier)(nil)
