package providers

import (
	"github.com/samber/do/v2"

	"github.com/OnelioViera/drinking-app-v1/internal/auth"
	"github.com/OnelioViera/drinking-app-v1/internal/config"
	"github.com/OnelioViera/drinking-app-v1/internal/logger"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideJournalService provides the journal entry service with the search
// index wired in.
func ProvideJournalService(i do.Injector) (*service.JournalService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewJournalService(storeHandle.Store, log.Logger)
	svc.SetSearchIndex(indexHandle.Index)
	return svc, nil
}

// ProvidePeriodService provides the sobriety period service. Period changes
// are pushed to connected clients over SSE.
func ProvidePeriodService(i do.Injector) (*service.PeriodService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewPeriodService(storeHandle.Store, log.Logger)
	svc.SetNotifier(sseHandle.Manager)
	return svc, nil
}

// ProvideChatService provides the canned support chat service.
func ProvideChatService(i do.Injector) (*service.ChatService, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return service.NewChatService(cfg.Chat.ResponseDelay), nil
}
