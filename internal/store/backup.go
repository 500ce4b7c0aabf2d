package store

import (
	"context"
	"io"
)

// Backup streams a consistent snapshot of the whole database to w and
// returns the version the snapshot covers. Safe to run while the store is
// serving requests.
func (s *Store) Backup(ctx context.Context, w io.Writer) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.db.Backup(w, 0)
}

// Restore loads a snapshot previously produced by Backup into the database.
// Existing keys present in the snapshot are overwritten.
func (s *Store) Restore(ctx context.Context, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Load(r, 16)
}
