package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	domainerrors "github.com/OnelioViera/drinking-app-v1/internal/errors"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
	"github.com/OnelioViera/drinking-app-v1/internal/store"
)

func setupJournalService(t *testing.T) (*service.JournalService, func()) {
	t.Helper()
	s, _, cleanup := setupTestServices(t)
	return service.NewJournalService(s, nil), cleanup
}

func TestCreateEntry(t *testing.T) {
	svc, cleanup := setupJournalService(t)
	defer cleanup()

	ctx := context.Background()
	entry, err := svc.Create(ctx, "usr-A", service.CreateEntryRequest{
		Mood:     "Good",
		Triggers: []string{"Celebration"},
		Notes:    "wedding reception, sparkling water all night",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, domain.MoodGood, entry.Mood)
	assert.False(t, entry.OccurredAt.IsZero(), "occurred_at defaults to now")

	entries, err := svc.List(ctx, "usr-A")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCreateEntryRejectsUnknownMood(t *testing.T) {
	svc, cleanup := setupJournalService(t)
	defer cleanup()

	_, err := svc.Create(context.Background(), "usr-A", service.CreateEntryRequest{Mood: "Ecstatic"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestCreateEntryRequiresMood(t *testing.T) {
	svc, cleanup := setupJournalService(t)
	defer cleanup()

	_, err := svc.Create(context.Background(), "usr-A", service.CreateEntryRequest{Notes: "no mood"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdateEntryPartial(t *testing.T) {
	svc, cleanup := setupJournalService(t)
	defer cleanup()

	ctx := context.Background()
	created, err := svc.Create(ctx, "usr-A", service.CreateEntryRequest{
		Mood:  "Neutral",
		Notes: "original notes",
	})
	require.NoError(t, err)

	mood := "Great"
	updated, err := svc.Update(ctx, "usr-A", created.ID, service.UpdateEntryRequest{Mood: &mood})
	require.NoError(t, err)

	assert.Equal(t, domain.MoodGreat, updated.Mood)
	assert.Equal(t, "original notes", updated.Notes, "unpatched fields survive")
}

func TestUpdateEntryUnknownMood(t *testing.T) {
	svc, cleanup := setupJournalService(t)
	defer cleanup()

	ctx := context.Background()
	created, err := svc.Create(ctx, "usr-A", service.CreateEntryRequest{Mood: "Neutral"})
	require.NoError(t, err)

	bad := "Wonderful"
	_, err = svc.Update(ctx, "usr-A", created.ID, service.UpdateEntryRequest{Mood: &bad})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdateMissingEntry(t *testing.T) {
	svc, cleanup := setupJournalService(t)
	defer cleanup()

	notes := "hello"
	_, err := svc.Update(context.Background(), "usr-A", "jrn-missing", service.UpdateEntryRequest{Notes: &notes})
	assert.ErrorIs(t, err, store.ErrEntryNotFound)
}

func TestUpdateSoftDeletedEntryRejected(t *testing.T) {
	svc, cleanup := setupJournalService(t)
	defer cleanup()

	ctx := context.Background()
	created, err := svc.Create(ctx, "usr-A", service.CreateEntryRequest{Mood: "Tired"})
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, "usr-A", created.ID))

	notes := "late edit"
	_, err = svc.Update(ctx, "usr-A", created.ID, service.UpdateEntryRequest{Notes: &notes})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestSoftDeleteThenGet(t *testing.T) {
	svc, cleanup := setupJournalService(t)
	defer cleanup()

	ctx := context.Background()
	created, err := svc.Create(ctx, "usr-A", service.CreateEntryRequest{Mood: "Anxious"})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, "usr-A", created.ID))

	got, err := svc.Get(ctx, "usr-A", created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted())

	entries, err := svc.List(ctx, "usr-A")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPurgeEntry(t *testing.T) {
	svc, cleanup := setupJournalService(t)
	defer cleanup()

	ctx := context.Background()
	created, err := svc.Create(ctx, "usr-A", service.CreateEntryRequest{Mood: "Stressed"})
	require.NoError(t, err)

	require.NoError(t, svc.Purge(ctx, "usr-A", created.ID))

	_, err = svc.Get(ctx, "usr-A", created.ID)
	assert.ErrorIs(t, err, store.ErrEntryNotFound)
}

func TestEntryBackdating(t *testing.T) {
	svc, cleanup := setupJournalService(t)
	defer cleanup()

	lastTuesday := time.Now().AddDate(0, 0, -5).Truncate(time.Second)
	created, err := svc.Create(context.Background(), "usr-A", service.CreateEntryRequest{
		Mood:       "Good",
		OccurredAt: lastTuesday,
	})
	require.NoError(t, err)
	assert.True(t, created.OccurredAt.Equal(lastTuesday))
}
