package providers

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/samber/do/v2"

	"github.com/OnelioViera/drinking-app-v1/internal/backup"
	"github.com/OnelioViera/drinking-app-v1/internal/config"
	"github.com/OnelioViera/drinking-app-v1/internal/logger"
	"github.com/OnelioViera/drinking-app-v1/internal/mdns"
)

// BackupJob runs periodic database snapshots.
type BackupJob struct {
	Service *backup.Service
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *BackupJob) Shutdown() error {
	if j.cancel != nil {
		j.cancel()
	}
	return nil
}

// ProvideBackupJob provides the scheduled backup job.
func ProvideBackupJob(i do.Injector) (*BackupJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	backupDir := filepath.Join(cfg.Data.BasePath, "backups")
	svc := backup.NewService(storeHandle.Store, backupDir, cfg.Backup.Keep, log.Logger)

	if cfg.Backup.Interval <= 0 {
		log.Info("Automatic backups disabled by configuration")
		return &BackupJob{Service: svc}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(cfg.Backup.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if result, err := svc.Create(ctx); err != nil {
					log.Warn("Scheduled backup failed", "error", err)
				} else {
					log.Info("Scheduled backup completed",
						"path", result.Path,
						"size", result.Size,
						"duration", result.Duration,
					)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Backup job started", "interval", cfg.Backup.Interval, "keep", cfg.Backup.Keep)

	return &BackupJob{Service: svc, cancel: cancel}, nil
}

// MDNSServiceHandle wraps mdns.Service with Shutdownable.
type MDNSServiceHandle struct {
	*mdns.Service
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *MDNSServiceHandle) Shutdown() error {
	if h.started && h.Service != nil {
		h.Stop()
	}
	return nil
}

// ProvideMDNSService provides the mDNS advertisement service.
func ProvideMDNSService(i do.Injector) (*MDNSServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Server.AdvertiseMDNS {
		log.Info("mDNS advertisement disabled by configuration")
		return &MDNSServiceHandle{Service: nil, started: false}, nil
	}

	svc := mdns.NewService(log.Logger)

	port := 8080
	if _, err := fmt.Sscanf(cfg.Server.Port, "%d", &port); err != nil {
		log.Warn("Failed to parse server port for mDNS, using default", "port", cfg.Server.Port)
	}

	if err := svc.Start("Sobriety Tracker", port); err != nil {
		// Non-fatal: server works without mDNS (e.g., Docker, cloud)
		log.Warn("mDNS advertisement unavailable", "error", err)
		return &MDNSServiceHandle{Service: svc, started: false}, nil
	}

	return &MDNSServiceHandle{Service: svc, started: true}, nil
}
