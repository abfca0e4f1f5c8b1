package credentials_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	credentials "github.com/goliatone/go-credentials"
)

func setupBunStore(t *testing.T) *credentials.BunStore {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())
	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	store := credentials.NewBunStore(bunDB)
	require.NoError(t, store.EnsureSchema(context.Background()))

	return store
}

func TestBunStore_InsertAndFind(t *testing.T) {
	store := setupBunStore(t)
	ctx := context.Background()

	hash, err := credentials.HashPassword("secret1")
	require.NoError(t, err)

	user := &credentials.User{
		Email:        "durable@x.test",
		Role:         credentials.RoleMember,
		PasswordHash: hash,
	}
	require.NoError(t, store.Insert(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	t.Run("finds the inserted record", func(t *testing.T) {
		found, err := store.FindByEmail(ctx, "durable@x.test")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "durable@x.test", found.Email)
		assert.Equal(t, credentials.RoleMember, found.Role)
	})

	t.Run("exists reflects the record", func(t *testing.T) {
		exists, err := store.Exists(ctx, "durable@x.test")
		assert.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.Exists(ctx, "ghost@x.test")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("unknown email maps to the not found error", func(t *testing.T) {
		_, err := store.FindByEmail(ctx, "ghost@x.test")
		assert.ErrorIs(t, err, credentials.ErrIdentityNotFound)
	})

	t.Run("email lookup is exact match", func(t *testing.T) {
		_, err := store.FindByEmail(ctx, "DURABLE@x.test")
		assert.ErrorIs(t, err, credentials.ErrIdentityNotFound)
	})
}

func TestBunStore_DuplicateEmail(t *testing.T) {
	store := setupBunStore(t)
	ctx := context.Background()

	hash, err := credentials.HashPassword("secret1")
	require.NoError(t, err)

	first := &credentials.User{Email: "dup@x.test", PasswordHash: hash}
	require.NoError(t, store.Insert(ctx, first))

	second := &credentials.User{Email: "dup@x.test", PasswordHash: hash}
	err = store.Insert(ctx, second)
	assert.ErrorIs(t, err, credentials.ErrDuplicateUser)

	// the original record is untouched
	found, err := store.FindByEmail(ctx, "dup@x.test")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}
