package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/OnelioViera/drinking-app-v1/internal/config"
	"github.com/OnelioViera/drinking-app-v1/internal/logger"
	"github.com/OnelioViera/drinking-app-v1/internal/search"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
)

// SearchIndexHandle wraps the Bleve index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the journal entry search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: idx}, nil
}

// ReindexSearchIfNeeded repopulates an empty index from the store. A fresh
// or rebuilt index starts empty even when the store has entries.
func ReindexSearchIfNeeded(i do.Injector) {
	log := do.MustInvoke[*logger.Logger](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	journalService := do.MustInvoke[*service.JournalService](i)

	count, err := indexHandle.DocumentCount()
	if err != nil {
		log.Warn("Failed to read search index size", "error", err)
		return
	}
	if count > 0 {
		return
	}

	if err := journalService.ReindexAll(context.Background()); err != nil {
		log.Error("Search reindex failed", "error", err)
	}
}
