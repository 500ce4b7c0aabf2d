// Package store persists journal entries, sobriety periods, and users in a
// Badger document store. Records are JSON documents under prefixed keys;
// secondary indexes are plain keys whose value is the record ID.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
)

// ChangeListener receives a notification after every successful mutation of
// the journal collection. The trend endpoint and any future live view consume
// these; the store never depends on who is listening.
type ChangeListener interface {
	EntriesChanged(ownerID string)
}

// NoopListener is a no-op ChangeListener for testing.
type NoopListener struct{}

// EntriesChanged implements ChangeListener as a no-op.
func (NoopListener) EntriesChanged(string) {}

// Store wraps a Badger database instance.
type Store struct {
	db       *badger.DB
	logger   *slog.Logger
	listener ChangeListener

	// Users is the generic entity for user accounts, indexed by email.
	Users *Entity[domain.User]
}

// Open opens (or creates) the store at the given path.
func Open(path string, logger *slog.Logger, listener ChangeListener) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if listener == nil {
		listener = NoopListener{}
	}

	s := &Store{
		db:       db,
		logger:   logger,
		listener: listener,
	}

	s.Users = NewEntity[domain.User](s, "user:").
		WithIndex("email",
			func(u *domain.User) string { return normalizeEmail(u.Email) },
			normalizeEmail, // lookups are case-insensitive too
		)

	if logger != nil {
		logger.Info("badger database opened", "path", path)
	}

	return s, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database connection")
	}
	return s.db.Close()
}

// normalizeEmail lowercases and trims an email for index keys.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Helper methods for database operations.

// get retrieves a JSON value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a JSON value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
