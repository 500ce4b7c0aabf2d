package journal

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay batches bursts of file events into a single refresh. Writes
// land as a temp file plus a rename, so reacting to every event would
// re-read the journal mid-write.
const settleDelay = 250 * time.Millisecond

// Watcher re-reads a client's journal when its backing files change on
// disk. It only makes sense for local stores; a remote journal has no
// files to watch.
type Watcher struct {
	fs     *fsnotify.Watcher
	client *Client
	logger *slog.Logger
}

// NewWatcher watches dir (and its subdirectories) for journal changes.
func NewWatcher(client *Client, dir string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{fs: fsw, client: client, logger: logger}
	if err := w.watchTree(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// watchTree registers dir and every existing subdirectory. fsnotify
// watches are not recursive.
func (w *Watcher) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run blocks until ctx is cancelled, refreshing the client after disk
// changes settle.
func (w *Watcher) Run(ctx context.Context) error {
	timer := time.NewTimer(settleDelay)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			// New owner directories need their own watch. The files inside
			// may already exist by the time the watch lands, so the
			// directory creation still counts as a change.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.fs.Add(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(settleDelay)
			armed = true

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			armed = false
			if err := w.client.Refresh(ctx); err != nil {
				w.logger.Warn("refresh after file change failed", "error", err)
			}
		}
	}
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
