// Package di provides dependency injection configuration for the sobriety
// tracker server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/OnelioViera/drinking-app-v1/internal/auth"
	"github.com/OnelioViera/drinking-app-v1/internal/config"
	"github.com/OnelioViera/drinking-app-v1/internal/di/providers"
	"github.com/OnelioViera/drinking-app-v1/internal/logger"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Event broadcasting (created before the store, which publishes into it)
	do.Provide(injector, providers.ProvideSSEManager)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search index
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideJournalService)
	do.Provide(injector, providers.ProvidePeriodService)
	do.Provide(injector, providers.ProvideChatService)

	// Background jobs
	do.Provide(injector, providers.ProvideBackupJob)

	// Server and LAN discovery
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services and returns once everything is running.
// This triggers lazy initialization of the full dependency graph.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.LoginLimiterHandle](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.JournalService](injector)
	_ = do.MustInvoke[*service.PeriodService](injector)
	_ = do.MustInvoke[*service.ChatService](injector)

	_ = do.MustInvoke[*providers.BackupJob](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSServiceHandle](injector)

	providers.ReindexSearchIfNeeded(injector)

	return nil
}
