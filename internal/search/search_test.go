package search_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	"github.com/OnelioViera/drinking-app-v1/internal/search"
)

func setupTestIndex(t *testing.T) *search.Index {
	t.Helper()

	idx, err := search.NewIndex(search.Options{
		DataPath: t.TempDir(),
		Logger:   slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return idx
}

func indexEntry(t *testing.T, idx *search.Index, id, owner, notes string, mood domain.Mood, triggers ...string) {
	t.Helper()

	now := time.Now()
	err := idx.IndexEntry(&domain.JournalEntry{
		Tracked: domain.Tracked{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:    owner,
		OccurredAt: now,
		Mood:       mood,
		Triggers:   triggers,
		Notes:      notes,
	})
	require.NoError(t, err)
}

func TestSearchMatchesNotes(t *testing.T) {
	idx := setupTestIndex(t)

	indexEntry(t, idx, "jrn_1", "usr_a", "rough day at the office, skipped the bar", domain.MoodStressed)
	indexEntry(t, idx, "jrn_2", "usr_a", "morning run felt great", domain.MoodGreat)

	result, err := idx.Search(context.Background(), search.Params{
		OwnerID: "usr_a",
		Query:   "office",
		Limit:   10,
	})
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "jrn_1", result.Hits[0].ID)
	assert.Equal(t, "Stressed", result.Hits[0].Mood)
}

func TestSearchScopedToOwner(t *testing.T) {
	idx := setupTestIndex(t)

	indexEntry(t, idx, "jrn_1", "usr_a", "craving hit hard tonight", domain.MoodAnxious)
	indexEntry(t, idx, "jrn_2", "usr_b", "craving passed after a walk", domain.MoodGood)

	result, err := idx.Search(context.Background(), search.Params{
		OwnerID: "usr_a",
		Query:   "craving",
		Limit:   10,
	})
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "jrn_1", result.Hits[0].ID)
}

func TestSearchRequiresOwner(t *testing.T) {
	idx := setupTestIndex(t)

	_, err := idx.Search(context.Background(), search.Params{Query: "anything"})
	assert.Error(t, err)
}

func TestSearchByTrigger(t *testing.T) {
	idx := setupTestIndex(t)

	indexEntry(t, idx, "jrn_1", "usr_a", "", domain.MoodNeutral, "Work Stress")
	indexEntry(t, idx, "jrn_2", "usr_a", "", domain.MoodNeutral, "Social Event")

	result, err := idx.Search(context.Background(), search.Params{
		OwnerID:  "usr_a",
		Triggers: []string{"Work Stress"},
		Limit:    10,
	})
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "jrn_1", result.Hits[0].ID)
	assert.Equal(t, []string{"Work Stress"}, result.Hits[0].Triggers)
}

func TestSearchByMoodFilter(t *testing.T) {
	idx := setupTestIndex(t)

	indexEntry(t, idx, "jrn_1", "usr_a", "good day", domain.MoodGood)
	indexEntry(t, idx, "jrn_2", "usr_a", "bad day", domain.MoodStressed)
	indexEntry(t, idx, "jrn_3", "usr_a", "fine day", domain.MoodGood)

	result, err := idx.Search(context.Background(), search.Params{
		OwnerID: "usr_a",
		Moods:   []string{"Good"},
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Len(t, result.Hits, 2)
}

func TestSearchFuzzyMatchesTypo(t *testing.T) {
	idx := setupTestIndex(t)

	indexEntry(t, idx, "jrn_1", "usr_a", "strong craving after dinner", domain.MoodAnxious)

	result, err := idx.Search(context.Background(), search.Params{
		OwnerID: "usr_a",
		Query:   "cravng",
		Limit:   10,
	})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "jrn_1", result.Hits[0].ID)
}

func TestSoftDeletedEntryLeavesIndex(t *testing.T) {
	idx := setupTestIndex(t)

	indexEntry(t, idx, "jrn_1", "usr_a", "rough evening", domain.MoodStressed)

	now := time.Now()
	deleted := &domain.JournalEntry{
		Tracked: domain.Tracked{
			ID:        "jrn_1",
			CreatedAt: now,
			UpdatedAt: now,
			DeletedAt: &now,
		},
		OwnerID:    "usr_a",
		OccurredAt: now,
		Mood:       domain.MoodStressed,
		Notes:      "rough evening",
	}
	require.NoError(t, idx.IndexEntry(deleted))

	result, err := idx.Search(context.Background(), search.Params{
		OwnerID: "usr_a",
		Query:   "evening",
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestSearchFacets(t *testing.T) {
	idx := setupTestIndex(t)

	indexEntry(t, idx, "jrn_1", "usr_a", "", domain.MoodGood, "Work Stress")
	indexEntry(t, idx, "jrn_2", "usr_a", "", domain.MoodGood, "Work Stress", "Insomnia")
	indexEntry(t, idx, "jrn_3", "usr_a", "", domain.MoodTired, "Insomnia")

	result, err := idx.Search(context.Background(), search.Params{
		OwnerID:       "usr_a",
		Limit:         10,
		IncludeFacets: true,
	})
	require.NoError(t, err)

	moods := make(map[string]int)
	for _, f := range result.Facets.Moods {
		moods[f.Value] = f.Count
	}
	assert.Equal(t, 2, moods["Good"])
	assert.Equal(t, 1, moods["Tired"])

	triggers := make(map[string]int)
	for _, f := range result.Facets.Triggers {
		triggers[f.Value] = f.Count
	}
	assert.Equal(t, 2, triggers["Work Stress"])
	assert.Equal(t, 2, triggers["Insomnia"])
}

func TestIndexEntriesBatchAndReopen(t *testing.T) {
	dataPath := t.TempDir()

	idx, err := search.NewIndex(search.Options{DataPath: dataPath, Logger: slog.New(slog.DiscardHandler)})
	require.NoError(t, err)

	now := time.Now()
	entries := []*domain.JournalEntry{
		{Tracked: domain.Tracked{ID: "jrn_1"}, OwnerID: "usr_a", OccurredAt: now, Mood: domain.MoodGood, Notes: "first"},
		{Tracked: domain.Tracked{ID: "jrn_2"}, OwnerID: "usr_a", OccurredAt: now, Mood: domain.MoodGood, Notes: "second"},
	}
	require.NoError(t, idx.IndexEntries(entries))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	require.NoError(t, idx.Close())

	// Same mapping version, so reopening keeps the documents.
	idx, err = search.NewIndex(search.Options{DataPath: dataPath, Logger: slog.New(slog.DiscardHandler)})
	require.NoError(t, err)
	defer idx.Close()

	count, err = idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}
