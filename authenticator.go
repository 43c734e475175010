package blogpulse

import (
	"context"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
)

// Auther orchestrates the registration, login, and federated login flows.
// It owns no state beyond its collaborators; every request is independent.
type Auther struct {
	users         Users
	provider      IdentityProvider
	tokenService  TokenService
	verifier      AssertionVerifier
	signingSecret string
	logger        Logger
}

// NewAuthenticator returns a new Authenticator. It fails when the signing
// key is missing: an identity service without a session secret must not
// start.
func NewAuthenticator(users Users, verifier AssertionVerifier, cfg Config) (*Auther, error) {
	tokenService, err := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)
	if err != nil {
		return nil, err
	}

	return &Auther{
		users:         users,
		provider:      NewUserProvider(users),
		tokenService:  tokenService,
		verifier:      verifier,
		signingSecret: cfg.GetSigningKey(),
		logger:        defLogger{},
	}, nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Register creates a user for a fresh email and returns a session token over
// the new identity. The duplicate lookup is a courtesy; the store's unique
// constraint is what actually closes the concurrent-signup race.
func (s *Auther) Register(ctx context.Context, displayName, email, password string) (string, error) {
	if displayName == "" || email == "" || password == "" {
		return "", ErrValidation
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !repository.IsRecordNotFound(err) {
		s.logger.Error("Register lookup error: %s", err)
		return "", err
	}

	hash, err := HashPassword(password)
	if err != nil {
		s.logger.Error("Register hash error: %s", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user, err := s.users.Register(ctx, &User{
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		s.logger.Error("Register create error: %s", err)
		return "", err
	}

	return s.tokenService.Generate(NewIdentityFromUser(user))
}

// Login verifies a password credential and mints a session token.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Info("Login verify identity failed for %s", email)
		return "", err
	}

	return s.tokenService.Generate(identity)
}

// FederatedLogin validates a third-party assertion, then finds or creates the
// record for the verified email and mints a session token. Repeat logins for
// the same email always land on the first record: the account id derives from
// the email and a concurrent-create conflict falls back to the existing row.
func (s *Auther) FederatedLogin(ctx context.Context, assertionToken string) (string, error) {
	if assertionToken == "" {
		return "", ErrUntrustedAssertion
	}

	if s.verifier == nil {
		s.logger.Warn("FederatedLogin called without a configured verifier")
		return "", ErrUntrustedAssertion
	}

	assertion, err := s.verifier.Verify(ctx, assertionToken)
	if err != nil {
		s.logger.Warn("FederatedLogin assertion rejected: %s", err)
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, assertion.Email)
	if err != nil {
		if !repository.IsRecordNotFound(err) {
			s.logger.Error("FederatedLogin lookup error: %s", err)
			return "", err
		}
		user, err = s.createFederatedUser(ctx, assertion)
		if err != nil {
			return "", err
		}
	}

	return s.tokenService.Generate(NewIdentityFromUser(user))
}

func (s *Auther) createFederatedUser(ctx context.Context, assertion *VerifiedAssertion) (*User, error) {
	hash, err := FederatedPasswordHash(assertion.Email, s.signingSecret)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to derive federated password hash")
	}

	record := &User{
		DisplayName:  assertion.DisplayName,
		Email:        assertion.Email,
		PasswordHash: hash,
	}

	if id, err := hashid.NewUUID(assertion.Email); err == nil {
		record.ID = id
	}

	user, err := s.users.Register(ctx, record)
	if err != nil {
		// Another request won the insert; reuse its row.
		if IsConflictError(err) {
			return s.users.GetByEmail(ctx, assertion.Email)
		}
		s.logger.Error("FederatedLogin create error: %s", err)
		return nil, err
	}

	return user, nil
}

var _ Authenticator = (*Auther)(nil)
