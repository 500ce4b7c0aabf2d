package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	"github.com/OnelioViera/drinking-app-v1/internal/store"
)

func makeUser(id, email string) *domain.User {
	u := &domain.User{
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "not-a-real-hash",
	}
	u.ID = id
	u.InitTimestamps()
	return u
}

func TestUsersCreateAndGet(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, "usr-1", makeUser("usr-1", "alex@example.com")))

	u, err := s.Users.Get(ctx, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", u.Email)
}

func TestUsersGetByEmailCaseInsensitive(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, "usr-1", makeUser("usr-1", "Alex@Example.com")))

	u, err := s.Users.GetByIndex(ctx, "email", "alex@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", u.ID)
}

func TestUsersDuplicateEmailRejected(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, "usr-1", makeUser("usr-1", "alex@example.com")))

	// Same address with different casing still collides on the index.
	err := s.Users.Create(ctx, "usr-2", makeUser("usr-2", "ALEX@example.com"))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersUpdateMovesEmailIndex(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	u := makeUser("usr-1", "old@example.com")
	require.NoError(t, s.Users.Create(ctx, "usr-1", u))

	u.Email = "new@example.com"
	require.NoError(t, s.Users.Update(ctx, "usr-1", u))

	_, err := s.Users.GetByIndex(ctx, "email", "old@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	found, err := s.Users.GetByIndex(ctx, "email", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", found.ID)
}

func TestUsersDeleteIdempotent(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, "usr-1", makeUser("usr-1", "alex@example.com")))

	require.NoError(t, s.Users.Delete(ctx, "usr-1"))
	require.NoError(t, s.Users.Delete(ctx, "usr-1"))

	_, err := s.Users.Get(ctx, "usr-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersList(t *testing.T) {
	s, _, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Users.Create(ctx, "usr-1", makeUser("usr-1", "a@example.com")))
	require.NoError(t, s.Users.Create(ctx, "usr-2", makeUser("usr-2", "b@example.com")))

	var count int
	for u, err := range s.Users.List(ctx) {
		require.NoError(t, err)
		require.NotNil(t, u)
		count++
	}
	assert.Equal(t, 2, count)
}
