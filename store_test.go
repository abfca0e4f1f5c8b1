package credentials_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	credentials "github.com/goliatone/go-credentials"
	"github.com/stretchr/testify/assert"
)

func newStoredUser(email, role string) *credentials.User {
	return &credentials.User{
		ID:           uuid.New(),
		Email:        email,
		Role:         role,
		PasswordHash: "$2a$10$notarealhashbutgoodenoughforstoretests",
	}
}

func TestMemoryStore_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("insert then lookup", func(t *testing.T) {
		store := credentials.NewMemoryStore()

		user := newStoredUser("one@example.com", credentials.RoleMember)
		assert.NoError(t, store.Insert(ctx, user))

		found, err := store.FindByEmail(ctx, "one@example.com")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, credentials.RoleMember, found.Role)

		exists, err := store.Exists(ctx, "one@example.com")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("second insert with the same email fails", func(t *testing.T) {
		store := credentials.NewMemoryStore()

		assert.NoError(t, store.Insert(ctx, newStoredUser("dup@example.com", "")))

		err := store.Insert(ctx, newStoredUser("dup@example.com", ""))
		assert.Equal(t, credentials.ErrDuplicateUser, err)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("lookup is exact match, case sensitive", func(t *testing.T) {
		store := credentials.NewMemoryStore()
		assert.NoError(t, store.Insert(ctx, newStoredUser("Case@example.com", "")))

		_, err := store.FindByEmail(ctx, "case@example.com")
		assert.Equal(t, credentials.ErrIdentityNotFound, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		store := credentials.NewMemoryStore()

		_, err := store.FindByEmail(ctx, "ghost@example.com")
		assert.Equal(t, credentials.ErrIdentityNotFound, err)

		exists, err := store.Exists(ctx, "ghost@example.com")
		assert.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestMemoryStore_ConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()

	const attempts = 32

	var wg sync.WaitGroup
	outcomes := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes <- store.Insert(ctx, newStoredUser("race@example.com", ""))
		}()
	}

	wg.Wait()
	close(outcomes)

	wins, losses := 0, 0
	for err := range outcomes {
		if err == nil {
			wins++
		} else {
			assert.Equal(t, credentials.ErrDuplicateUser, err)
			losses++
		}
	}

	// at most one concurrent registration for an email may win
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, losses)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Seed(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()

	seeds := []credentials.DemoUser{
		{Email: "seed@example.com", Password: "seed-pass", Role: credentials.RoleAdmin},
	}

	assert.NoError(t, store.Seed(ctx, seeds...))

	user, err := store.FindByEmail(ctx, "seed@example.com")
	assert.NoError(t, err)
	assert.Equal(t, credentials.RoleAdmin, user.Role)
	assert.NoError(t, credentials.ComparePasswordAndHash("seed-pass", user.PasswordHash))

	// reseeding skips existing emails
	assert.NoError(t, store.Seed(ctx, seeds...))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_RecordsAreCopied(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()

	user := newStoredUser("frozen@example.com", "")
	assert.NoError(t, store.Insert(ctx, user))

	// mutating the caller's record must not change the stored identity
	user.Role = credentials.RoleAdmin

	found, err := store.FindByEmail(ctx, "frozen@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "", found.Role)
}
