package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	domainerrors "github.com/OnelioViera/drinking-app-v1/internal/errors"
	"github.com/OnelioViera/drinking-app-v1/internal/journal"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := journal.NewLocalStore(dir, "local-user")
	ctx := context.Background()
	require.NoError(t, store.Connect(ctx))

	created, err := store.Create(ctx, &domain.JournalEntry{
		Mood:       domain.MoodGood,
		Triggers:   []string{"Celebration"},
		Notes:      "birthday without a drink",
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "local entries get client-side IDs")
	assert.Equal(t, "local-user", created.OwnerID)

	// A brand new store over the same directory sees the entry.
	reopened := journal.NewLocalStore(dir, "local-user")
	require.NoError(t, reopened.Connect(ctx))

	entries, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].ID)
	assert.Equal(t, []string{"Celebration"}, entries[0].Triggers)
	assert.Equal(t, "birthday without a drink", entries[0].Notes)
}

func TestLocalStoreListSortedNewestFirst(t *testing.T) {
	store := journal.NewLocalStore(t.TempDir(), "local-user")
	ctx := context.Background()
	require.NoError(t, store.Connect(ctx))

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, offset := range []int{1, 3, 0, 2} {
		_, err := store.Create(ctx, &domain.JournalEntry{
			Mood:       domain.MoodNeutral,
			OccurredAt: base.AddDate(0, 0, offset),
		})
		require.NoError(t, err)
	}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].OccurredAt.After(entries[i-1].OccurredAt))
	}
}

func TestLocalStoreOwnersIsolated(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	storeA := journal.NewLocalStore(dir, "owner-A")
	require.NoError(t, storeA.Connect(ctx))
	_, err := storeA.Create(ctx, &domain.JournalEntry{Mood: domain.MoodGood, OccurredAt: time.Now()})
	require.NoError(t, err)

	storeB := journal.NewLocalStore(dir, "owner-B")
	require.NoError(t, storeB.Connect(ctx))
	entries, err := storeB.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStoreUpdate(t *testing.T) {
	store := journal.NewLocalStore(t.TempDir(), "local-user")
	ctx := context.Background()
	require.NoError(t, store.Connect(ctx))

	created, err := store.Create(ctx, &domain.JournalEntry{Mood: domain.MoodTired, OccurredAt: time.Now()})
	require.NoError(t, err)

	created.Notes = "updated later"
	updated, err := store.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "updated later", updated.Notes)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "updated later", entries[0].Notes)
}

func TestLocalStoreUpdateMissing(t *testing.T) {
	store := journal.NewLocalStore(t.TempDir(), "local-user")
	require.NoError(t, store.Connect(context.Background()))

	missing := &domain.JournalEntry{Mood: domain.MoodGood}
	missing.ID = "jrn-ghost"
	_, err := store.Update(context.Background(), missing)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestLocalStoreDeleteIsPhysical(t *testing.T) {
	dir := t.TempDir()
	store := journal.NewLocalStore(dir, "local-user")
	ctx := context.Background()
	require.NoError(t, store.Connect(ctx))

	created, err := store.Create(ctx, &domain.JournalEntry{Mood: domain.MoodGood, OccurredAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))

	// Gone for good, even across a reopen.
	reopened := journal.NewLocalStore(dir, "local-user")
	entries, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, store.Delete(ctx, created.ID), domainerrors.ErrNotFound)
}

func TestLocalStorePurge(t *testing.T) {
	store := journal.NewLocalStore(t.TempDir(), "local-user")
	ctx := context.Background()
	require.NoError(t, store.Connect(ctx))

	created, err := store.Create(ctx, &domain.JournalEntry{Mood: domain.MoodGood, OccurredAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, store.Purge(ctx, created.ID))
	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStoreBehindClient(t *testing.T) {
	store := journal.NewLocalStore(t.TempDir(), "local-user")
	client := journal.NewClient(store, nil)
	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))

	_, err := client.Create(ctx, &domain.JournalEntry{Mood: domain.MoodGreat, OccurredAt: time.Now()})
	require.NoError(t, err)
	assert.Len(t, client.Entries(), 1)
}
