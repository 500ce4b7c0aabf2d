package journal

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
)

// ChangeFunc is notified with the full entry list after every successful
// mutation or refresh. The slice is a snapshot the receiver may keep.
type ChangeFunc func(entries []*domain.JournalEntry)

// Client keeps an in-memory view of the journal synced against a Store.
// All mutations are serialized: at most one backend write is in flight at a
// time, so a double-tapped save cannot create two entries.
type Client struct {
	store Store

	mu       sync.Mutex
	entries  []*domain.JournalEntry
	onChange ChangeFunc

	connectOnce sync.Once
	connectErr  error
}

// NewClient creates a client over the given backend. The change callback may
// be nil.
func NewClient(store Store, onChange ChangeFunc) *Client {
	return &Client{store: store, onChange: onChange}
}

// Connect establishes the backend connection and loads the initial entry
// list. Concurrent and repeated calls share a single connection attempt and
// its result.
func (c *Client) Connect(ctx context.Context) error {
	c.connectOnce.Do(func() {
		if err := c.store.Connect(ctx); err != nil {
			c.connectErr = fmt.Errorf("connect store: %w", err)
			return
		}
		c.connectErr = c.Refresh(ctx)
	})
	return c.connectErr
}

// Entries returns a snapshot of the current view, newest first.
func (c *Client) Entries() []*domain.JournalEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// Entry returns the entry at the given view index, or nil if out of range.
func (c *Client) Entry(index int) *domain.JournalEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.entries) {
		return nil
	}
	return c.entries[index].Clone()
}

// Refresh replaces the view with the backend's authoritative list.
func (c *Client) Refresh(ctx context.Context) error {
	entries, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	c.mu.Lock()
	c.entries = entries
	snapshot := slices.Clone(entries)
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
	return nil
}

// Create persists a new entry and inserts the authoritative record returned
// by the backend into the view. The view is untouched if the backend write
// fails, and never goes through a refetch that could fail after the write
// succeeded.
func (c *Client) Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	created, err := c.store.Create(ctx, entry)
	if err != nil {
		return nil, err
	}

	c.entries = append(c.entries, created.Clone())
	c.applyLocked()
	return created, nil
}

// Update replaces an existing entry. The element in the view is replaced,
// not merged, with the record the backend returns.
func (c *Client) Update(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated, err := c.store.Update(ctx, entry)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i, e := range c.entries {
		if e.ID == updated.ID {
			c.entries[i] = updated.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		// A stale view (entry created behind our back) still converges.
		c.entries = append(c.entries, updated.Clone())
	}
	c.applyLocked()
	return updated, nil
}

// Delete removes an entry from the backend and drops it from the view.
func (c *Client) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	c.removeLocked(id)
	return nil
}

// Purge permanently removes an entry from the backend and drops it from the
// view.
func (c *Client) Purge(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Purge(ctx, id); err != nil {
		return err
	}

	c.removeLocked(id)
	return nil
}

// removeLocked drops the entry from the view under the already-held mutex.
func (c *Client) removeLocked(id string) {
	c.entries = slices.DeleteFunc(c.entries, func(e *domain.JournalEntry) bool {
		return e.ID == id
	})
	c.applyLocked()
}

// applyLocked restores the newest-first ordering and fires the change
// callback under the already-held mutex.
func (c *Client) applyLocked() {
	slices.SortStableFunc(c.entries, func(a, b *domain.JournalEntry) int {
		return b.OccurredAt.Compare(a.OccurredAt)
	})
	if c.onChange != nil {
		c.onChange(slices.Clone(c.entries))
	}
}
