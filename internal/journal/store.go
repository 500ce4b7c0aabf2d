// Package journal is the client-side toolkit for working with journal
// entries: a store client that keeps an in-memory view synced against a
// backend, a form controller for composing and editing entries, and two
// backend implementations (remote API, local disk).
package journal

import (
	"context"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
)

// Store is the backend contract the client syncs against. RemoteStore talks
// to the API server for signed-in use; LocalStore keeps entries on disk for
// signed-out use.
type Store interface {
	// Connect prepares the backend. The client guarantees it is called at
	// most once, no matter how many goroutines race on it.
	Connect(ctx context.Context) error

	// List returns all active entries, newest first. The result is
	// authoritative: the client replaces its view with it wholesale.
	List(ctx context.Context) ([]*domain.JournalEntry, error)

	// Create persists a new entry and returns the stored record.
	Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error)

	// Update replaces an existing entry and returns the stored record.
	Update(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error)

	// Delete removes an entry from the active collection. The remote backend
	// soft-deletes; the local backend removes the file.
	Delete(ctx context.Context, id string) error

	// Purge removes an entry permanently. The remote backend hits the
	// hard-delete endpoint; on disk there is nothing softer than Delete, so
	// the local backend treats both the same.
	Purge(ctx context.Context, id string) error
}
