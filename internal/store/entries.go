package store

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
)

const (
	entryPrefix        = "entry:"
	entryByOwnerPrefix = "entry:idx:owner:"
)

func entryKey(id string) []byte {
	return []byte(entryPrefix + id)
}

// entryOwnerKey builds the owner index key "entry:idx:owner:<owner>:<id>".
func entryOwnerKey(ownerID, id string) []byte {
	return []byte(entryByOwnerPrefix + ownerID + ":" + id)
}

// CreateEntry stores a journal entry and its owner index atomically.
func (s *Store) CreateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := entryKey(entry.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check entry key: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set entry: %w", err)
		}
		if err := txn.Set(entryOwnerKey(entry.OwnerID, entry.ID), []byte(entry.ID)); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.listener.EntriesChanged(entry.OwnerID)
	return nil
}

// GetEntry retrieves an entry by ID, including soft-deleted ones.
// Ownership is checked so one user can never read another's entries.
func (s *Store) GetEntry(ctx context.Context, ownerID, id string) (*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entry domain.JournalEntry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, err
	}

	// A foreign entry is indistinguishable from a missing one.
	if entry.OwnerID != ownerID {
		return nil, ErrEntryNotFound
	}
	return &entry, nil
}

// ListEntries returns the owner's non-deleted entries ordered by OccurredAt
// descending (newest first).
func (s *Store) ListEntries(ctx context.Context, ownerID string) ([]*domain.JournalEntry, error) {
	entries, err := s.listOwnerEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	live := entries[:0]
	for _, e := range entries {
		if !e.IsDeleted() {
			live = append(live, e)
		}
	}

	slices.SortFunc(live, func(a, b *domain.JournalEntry) int {
		return b.OccurredAt.Compare(a.OccurredAt)
	})
	return live, nil
}

// listOwnerEntries fetches all entries for an owner via the owner index,
// deleted or not, in a single transaction.
func (s *Store) listOwnerEntries(ctx context.Context, ownerID string) ([]*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(entryByOwnerPrefix + ownerID + ":")
	entries := make([]*domain.JournalEntry, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		var ids []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}

		for _, id := range ids {
			item, err := txn.Get(entryKey(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Index is stale, entry was purged. Skip rather than fail the list.
				continue
			}
			if err != nil {
				return err
			}

			var entry domain.JournalEntry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return err
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// UpdateEntry replaces a stored entry with the given record. The owner index
// never moves because OwnerID is immutable.
func (s *Store) UpdateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := entryKey(entry.ID)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return err
		}

		var existing domain.JournalEntry
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &existing)
		}); err != nil {
			return err
		}
		if existing.OwnerID != entry.OwnerID {
			return ErrEntryNotFound
		}

		return txn.Set(key, data)
	})
	if err != nil {
		return err
	}

	s.listener.EntriesChanged(entry.OwnerID)
	return nil
}

// SoftDeleteEntry marks an entry deleted without removing it. The entry
// disappears from ListEntries but remains fetchable by ID.
func (s *Store) SoftDeleteEntry(ctx context.Context, ownerID, id string) error {
	entry, err := s.GetEntry(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if entry.IsDeleted() {
		return nil // already hidden, idempotent
	}

	entry.MarkDeleted()
	return s.UpdateEntry(ctx, entry)
}

// PurgeEntry physically removes an entry and its owner index.
// Returns ErrEntryNotFound if the entry does not exist for this owner.
func (s *Store) PurgeEntry(ctx context.Context, ownerID, id string) error {
	// Ownership check happens on the read.
	if _, err := s.GetEntry(ctx, ownerID, id); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(entryOwnerKey(ownerID, id)); err != nil {
			return fmt.Errorf("delete owner index: %w", err)
		}
		if err := txn.Delete(entryKey(id)); err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.listener.EntriesChanged(ownerID)
	return nil
}

// ForEachEntry visits every stored entry across all owners, including
// soft-deleted ones. Used for startup reindexing.
func (s *Store) ForEachEntry(ctx context.Context, fn func(entry *domain.JournalEntry) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		indexPrefix := []byte(entryByOwnerPrefix)
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			// Owner index keys share the "entry:" prefix, skip them.
			if bytes.HasPrefix(item.Key(), indexPrefix) {
				continue
			}

			var entry domain.JournalEntry
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return fmt.Errorf("decode entry %s: %w", item.Key(), err)
			}

			if err := fn(&entry); err != nil {
				return err
			}
		}
		return nil
	})
}
