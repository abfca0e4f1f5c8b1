package credentials

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"
)

// MemoryStore is the reference in-memory IdentityStore. A single
// process-wide lock serializes reads and the insert, so two concurrent
// registrations for the same email cannot both succeed.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

var _ IdentityStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: map[string]*User{},
	}
}

// FindByEmail is an exact-match lookup; no case or whitespace
// normalization happens here.
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return nil, ErrIdentityNotFound
	}

	record := *user
	return &record, nil
}

func (s *MemoryStore) Exists(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[email]
	return ok, nil
}

// Insert appends the identity, failing with ErrDuplicateUser when the
// email is taken. The uniqueness check and the write share the same
// critical section.
func (s *MemoryStore) Insert(ctx context.Context, user *User) error {
	prepareUserDefaults(user)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return ErrDuplicateUser
	}

	record := *user
	s.users[user.Email] = &record
	return nil
}

// Len reports the number of stored identities
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// DemoUser describes a seed identity for reference deployments
type DemoUser struct {
	Email    string
	Password string
	Role     UserRole
}

// DefaultDemoUsers is the fixed seed set for the reference deployment.
// A production store starts empty and is populated only through
// registration.
func DefaultDemoUsers() []DemoUser {
	return []DemoUser{
		{Email: "admin@example.com", Password: "admin-pass", Role: RoleAdmin},
		{Email: "member@example.com", Password: "member-pass", Role: RoleMember},
		{Email: "norole@example.com", Password: "norole-pass"},
	}
}

// Seed hashes and inserts the given demo identities, skipping emails
// that are already present.
func (s *MemoryStore) Seed(ctx context.Context, seeds ...DemoUser) error {
	for _, seed := range seeds {
		hash, err := HashPassword(seed.Password)
		if err != nil {
			return err
		}

		user := &User{
			Email:        seed.Email,
			Role:         seed.Role,
			PasswordHash: hash,
		}

		if err := s.Insert(ctx, user); err != nil {
			if errors.Is(err, ErrDuplicateUser) {
				continue
			}
			return err
		}
	}

	return nil
}
