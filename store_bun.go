package credentials

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// BunStore is the durable IdentityStore, backed by Bun. The unique
// index on email is the duplicate guard, so concurrent registrations
// race at the database instead of in process memory.
type BunStore struct {
	db *bun.DB
}

var _ IdentityStore = (*BunStore)(nil)

// NewBunStore creates an IdentityStore over the given Bun handle
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// EnsureSchema creates the users table when missing
func (s *BunStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}

	return nil
}

func (s *BunStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}

	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by email")
	}

	return record, nil
}

func (s *BunStore) Exists(ctx context.Context, email string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)

	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check user existence")
	}

	return exists, nil
}

func (s *BunStore) Insert(ctx context.Context, user *User) error {
	prepareUserDefaults(user)

	_, err := s.db.NewInsert().
		Model(user).
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to insert user")
	}

	return nil
}

// isUniqueViolation probes driver error text; sqlite and postgres
// phrase unique-index failures differently and neither exposes a
// portable sentinel through database/sql.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
