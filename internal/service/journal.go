package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	domainerrors "github.com/OnelioViera/drinking-app-v1/internal/errors"
	"github.com/OnelioViera/drinking-app-v1/internal/id"
	"github.com/OnelioViera/drinking-app-v1/internal/search"
	"github.com/OnelioViera/drinking-app-v1/internal/store"
)

// JournalService manages the lifecycle of journal entries for a user.
type JournalService struct {
	store       *store.Store
	searchIndex *search.Index
	logger      *slog.Logger
}

// NewJournalService creates a new journal service.
func NewJournalService(st *store.Store, logger *slog.Logger) *JournalService {
	return &JournalService{store: st, logger: logger}
}

// SetSearchIndex wires the full-text index. Without one, entries are not
// indexed and Search reports the feature as unavailable.
func (s *JournalService) SetSearchIndex(idx *search.Index) {
	s.searchIndex = idx
}

// CreateEntryRequest contains the data for a new journal entry.
type CreateEntryRequest struct {
	OccurredAt time.Time `json:"occurred_at"`
	Mood       string    `json:"mood" validate:"required"`
	Triggers   []string  `json:"triggers"`
	Notes      string    `json:"notes" validate:"max=5000"`
}

// UpdateEntryRequest carries a partial update. Nil fields are unchanged.
type UpdateEntryRequest struct {
	OccurredAt *time.Time `json:"occurred_at"`
	Mood       *string    `json:"mood"`
	Triggers   *[]string  `json:"triggers"`
	Notes      *string    `json:"notes" validate:"omitempty,max=5000"`
}

// List returns the owner's active entries, newest first.
func (s *JournalService) List(ctx context.Context, ownerID string) ([]*domain.JournalEntry, error) {
	entries, err := s.store.ListEntries(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Get returns a single entry by ID. Soft-deleted entries are returned too,
// so a client can still render a record it holds a reference to.
func (s *JournalService) Get(ctx context.Context, ownerID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.store.GetEntry(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Create validates and stores a new journal entry.
func (s *JournalService) Create(ctx context.Context, ownerID string, req CreateEntryRequest) (*domain.JournalEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	mood := domain.Mood(req.Mood)
	if !mood.Valid() {
		return nil, domainerrors.Validationf("mood must be one of %v", domain.Moods)
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	entryID, err := id.Generate(id.PrefixEntry)
	if err != nil {
		return nil, fmt.Errorf("generate entry ID: %w", err)
	}

	entry := &domain.JournalEntry{
		OwnerID:    ownerID,
		OccurredAt: occurredAt,
		Mood:       mood,
		Triggers:   req.Triggers,
		Notes:      req.Notes,
	}
	entry.ID = entryID
	entry.InitTimestamps()

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.reindex(entry)

	if s.logger != nil {
		s.logger.Info("Journal entry created", "entry_id", entry.ID, "user_id", ownerID)
	}

	return entry, nil
}

// Update applies a partial update to an existing entry.
// Soft-deleted entries cannot be edited.
func (s *JournalService) Update(ctx context.Context, ownerID, entryID string, req UpdateEntryRequest) (*domain.JournalEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	patch := domain.EntryPatch{
		OccurredAt: req.OccurredAt,
		Triggers:   req.Triggers,
		Notes:      req.Notes,
	}
	if req.Mood != nil {
		mood := domain.Mood(*req.Mood)
		if !mood.Valid() {
			return nil, domainerrors.Validationf("mood must be one of %v", domain.Moods)
		}
		patch.Mood = &mood
	}

	entry, err := s.store.GetEntry(ctx, ownerID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsDeleted() {
		return nil, domainerrors.Conflict("entry has been deleted")
	}

	patch.Apply(entry)

	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	s.reindex(entry)

	return entry, nil
}

// SoftDelete hides an entry from the collection without destroying it.
func (s *JournalService) SoftDelete(ctx context.Context, ownerID, entryID string) error {
	if err := s.store.SoftDeleteEntry(ctx, ownerID, entryID); err != nil {
		return err
	}
	s.unindex(entryID)
	if s.logger != nil {
		s.logger.Info("Journal entry soft-deleted", "entry_id", entryID, "user_id", ownerID)
	}
	return nil
}

// Purge permanently removes an entry. There is no undo.
func (s *JournalService) Purge(ctx context.Context, ownerID, entryID string) error {
	if err := s.store.PurgeEntry(ctx, ownerID, entryID); err != nil {
		return err
	}
	s.unindex(entryID)
	if s.logger != nil {
		s.logger.Info("Journal entry purged", "entry_id", entryID, "user_id", ownerID)
	}
	return nil
}

// SearchEntriesRequest carries the search parameters from the API.
type SearchEntriesRequest struct {
	Query    string   `json:"q" validate:"max=500"`
	Moods    []string `json:"moods"`
	Triggers []string `json:"triggers"`
	Limit    int      `json:"limit" validate:"min=0,max=100"`
	Offset   int      `json:"offset" validate:"min=0"`
}

// Search runs a full-text query over the owner's live entries.
func (s *JournalService) Search(ctx context.Context, ownerID string, req SearchEntriesRequest) (*search.Result, error) {
	if s.searchIndex == nil {
		return nil, domainerrors.Internal("search index is not configured")
	}
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	for _, m := range req.Moods {
		if !domain.Mood(m).Valid() {
			return nil, domainerrors.Validationf("mood must be one of %v", domain.Moods)
		}
	}

	params := search.DefaultParams(ownerID)
	params.Query = req.Query
	params.Moods = req.Moods
	params.Triggers = req.Triggers
	if req.Limit > 0 {
		params.Limit = req.Limit
	}
	params.Offset = req.Offset

	result, err := s.searchIndex.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	return result, nil
}

// ReindexAll rebuilds the index contents from the store. Called at startup
// when the index is empty or was rebuilt after a mapping change.
func (s *JournalService) ReindexAll(ctx context.Context) error {
	if s.searchIndex == nil {
		return nil
	}

	var count int
	err := s.store.ForEachEntry(ctx, func(entry *domain.JournalEntry) error {
		count++
		return s.searchIndex.IndexEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("reindex entries: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Journal search reindex complete", "entries", count)
	}
	return nil
}

// reindex mirrors a mutation into the search index. Index failures are
// logged, not returned: the store is the source of truth and a reindex at
// startup repairs any drift.
func (s *JournalService) reindex(entry *domain.JournalEntry) {
	if s.searchIndex == nil {
		return
	}
	if err := s.searchIndex.IndexEntry(entry); err != nil && s.logger != nil {
		s.logger.Warn("Failed to index entry", "entry_id", entry.ID, "error", err)
	}
}

func (s *JournalService) unindex(entryID string) {
	if s.searchIndex == nil {
		return
	}
	if err := s.searchIndex.DeleteEntry(entryID); err != nil && s.logger != nil {
		s.logger.Warn("Failed to remove entry from index", "entry_id", entryID, "error", err)
	}
}
