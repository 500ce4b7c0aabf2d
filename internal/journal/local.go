package journal

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	domainerrors "github.com/OnelioViera/drinking-app-v1/internal/errors"
	"github.com/OnelioViera/drinking-app-v1/internal/id"
)

// LocalStore keeps entries on disk for signed-out use, one JSON file per
// entry under <basePath>/journal/<owner>/<id>. IDs are generated client-side
// so entries survive a later move to a remote account.
type LocalStore struct {
	d        *diskv.Diskv
	basePath string
	ownerID  string
}

// NewLocalStore creates a local backend rooted at basePath, namespaced by
// owner so multiple local profiles never mix.
func NewLocalStore(basePath, ownerID string) *LocalStore {
	return &LocalStore{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: basePath,
		ownerID:  ownerID,
	}
}

// keyToPathTransform maps "journal/<owner>/<id>" keys onto a matching
// directory layout.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(slices.Clone(pathKey.Path), pathKey.FileName), "/")
}

func (l *LocalStore) key(entryID string) string {
	return "journal/" + l.ownerID + "/" + entryID
}

func (l *LocalStore) keyPrefix() string {
	return "journal/" + l.ownerID + "/"
}

// Connect ensures the base directory exists and is writable.
func (l *LocalStore) Connect(_ context.Context) error {
	if err := os.MkdirAll(l.basePath, 0o700); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodePersistFailed, "create journal directory")
	}
	return nil
}

// List reads every entry for the owner, newest first.
func (l *LocalStore) List(ctx context.Context) ([]*domain.JournalEntry, error) {
	entries := make([]*domain.JournalEntry, 0)

	for key := range l.d.KeysPrefix(l.keyPrefix(), ctx.Done()) {
		data, err := l.d.Read(key)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeFetchFailed, fmt.Sprintf("read %s", key))
		}

		var entry domain.JournalEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeFetchFailed, fmt.Sprintf("decode %s", key))
		}
		entries = append(entries, &entry)
	}

	slices.SortFunc(entries, func(a, b *domain.JournalEntry) int {
		return b.OccurredAt.Compare(a.OccurredAt)
	})
	return entries, nil
}

// Create writes a new entry, generating its ID locally.
func (l *LocalStore) Create(_ context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	stored := entry.Clone()
	if stored.ID == "" {
		entryID, err := id.Generate(id.PrefixEntry)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodePersistFailed, "generate entry ID")
		}
		stored.ID = entryID
	}
	stored.OwnerID = l.ownerID
	stored.InitTimestamps()

	if err := l.write(stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Update overwrites an existing entry's file.
func (l *LocalStore) Update(_ context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	if !l.d.Has(l.key(entry.ID)) {
		return nil, domainerrors.NotFoundf("entry %s not found", entry.ID)
	}

	stored := entry.Clone()
	stored.OwnerID = l.ownerID
	stored.Touch()

	if err := l.write(stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Delete removes the entry's file. There is no soft delete on disk; a local
// journal has no server to reconcile against.
func (l *LocalStore) Delete(_ context.Context, entryID string) error {
	if !l.d.Has(l.key(entryID)) {
		return domainerrors.NotFoundf("entry %s not found", entryID)
	}
	if err := l.d.Erase(l.key(entryID)); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodePersistFailed, "erase entry")
	}
	return nil
}

// Purge is identical to Delete locally: the file is removed either way.
func (l *LocalStore) Purge(ctx context.Context, entryID string) error {
	return l.Delete(ctx, entryID)
}

func (l *LocalStore) write(entry *domain.JournalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodePersistFailed, "encode entry")
	}
	if err := l.d.Write(l.key(entry.ID), data); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodePersistFailed, "write entry")
	}
	return nil
}
