package credentials

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// Registrar handles self-registration of new accounts. Registration
// conflicts are surfaced to the caller; unlike login, the duplicate
// error may reveal that an email exists.
type Registrar struct {
	store  IdentityStore
	logger Logger
}

// NewRegistrar will create a new Registrar over the given store
func NewRegistrar(store IdentityStore) *Registrar {
	return &Registrar{
		store:  store,
		logger: defLogger{},
	}
}

func (r *Registrar) WithLogger(l Logger) *Registrar {
	if l != nil {
		r.logger = l
	}
	return r
}

// Register hashes the password and inserts a new identity. No role is
// assigned at registration. The returned record carries public fields
// only; the password hash never serializes.
func (r *Registrar) Register(ctx context.Context, email, password string) (*User, error) {
	exists, err := r.store.Exists(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email availability")
	}

	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := HashPassword(password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryValidation {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
	}

	if id, err := hashid.NewUUID(email); err == nil {
		user.ID = id
	}

	prepareUserDefaults(user)

	// The store re-checks uniqueness under its own lock, so a
	// concurrent registration for the same email loses here.
	if err := r.store.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, ErrDuplicateUser
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	return user, nil
}
