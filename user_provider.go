package blogpulse

import (
	"context"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"golang.org/x/crypto/bcrypt"
)

// UserFinder is the slice of the store the provider needs.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// UserProvider resolves identities from the user store and verifies
// credentials against them.
type UserProvider struct {
	store  UserFinder
	logger Logger
}

// dummyHash is compared against when the email is unknown, so a miss costs a
// bcrypt round just like a mismatch and lookup timing does not reveal whether
// the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("blog-pulse.no-such-user"), bcrypt.DefaultCost)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserFinder) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown email and wrong password collapse into the same error.
func (u UserProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByEmail resolves an identity without checking a credential.
func (u UserProvider) FindIdentityByEmail(ctx context.Context, email string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return NewIdentityFromUser(user), nil
}

var _ IdentityProvider = (*UserProvider)(nil)
