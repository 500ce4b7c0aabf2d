// Package backup creates and manages on-disk snapshots of the tracker
// database.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/OnelioViera/drinking-app-v1/internal/store"
)

const backupExtension = ".tracker.bak"

// Service manages backup creation, listing, and pruning.
type Service struct {
	store     *store.Store
	backupDir string
	keep      int
	logger    *slog.Logger
}

// NewService creates a backup service. keep bounds how many snapshots are
// retained; older ones are pruned after each successful backup. A keep of
// zero disables pruning.
func NewService(s *store.Store, backupDir string, keep int, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		backupDir: backupDir,
		keep:      keep,
		logger:    logger,
	}
}

// Result describes a completed backup.
type Result struct {
	Path      string        `json:"path"`
	Size      int64         `json:"size"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Info describes an existing backup file.
type Info struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Create writes a new snapshot into the backup directory and prunes old
// ones past the retention limit.
func (s *Service) Create(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(s.backupDir, 0o700); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	start := time.Now()
	name := fmt.Sprintf("backup-%s%s", start.Format("2006-01-02-150405"), backupExtension)
	outputPath := filepath.Join(s.backupDir, name)

	s.logger.Info("creating backup", "output", outputPath)

	// Write to a temp name first so a crash never leaves a half-written
	// file that looks like a valid backup.
	tmpPath := outputPath + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}

	if _, err := s.store.Backup(ctx, f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("write backup: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close backup file: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("finalize backup: %w", err)
	}

	stat, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("stat backup: %w", err)
	}

	result := &Result{
		Path:      outputPath,
		Size:      stat.Size(),
		Duration:  time.Since(start),
		CreatedAt: start,
	}

	s.logger.Info("backup complete",
		"path", result.Path,
		"size", result.Size,
		"duration", result.Duration,
	)

	s.prune()

	return result, nil
}

// List returns existing backups, newest first.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.backupDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupExtension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Restore loads the snapshot at path into the store.
func (s *Service) Restore(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	if err := s.store.Restore(ctx, f); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	s.logger.Info("backup restored", "path", path)
	return nil
}

// prune removes backups past the retention limit, oldest first.
func (s *Service) prune() {
	if s.keep <= 0 {
		return
	}

	backups, err := s.List()
	if err != nil {
		s.logger.Warn("failed to list backups for pruning", "error", err)
		return
	}

	for _, old := range backups[min(s.keep, len(backups)):] {
		if err := os.Remove(old.Path); err != nil {
			s.logger.Warn("failed to prune old backup", "path", old.Path, "error", err)
			continue
		}
		s.logger.Info("pruned old backup", "path", old.Path)
	}
}
