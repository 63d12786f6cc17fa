// Package di provides dependency injection configuration for the MoveLog server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/movelogapp/movelog-server/internal/auth"
	"github.com/movelogapp/movelog-server/internal/config"
	"github.com/movelogapp/movelog-server/internal/di/providers"
	"github.com/movelogapp/movelog-server/internal/logger"
	"github.com/movelogapp/movelog-server/internal/media/videos"
	"github.com/movelogapp/movelog-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer(version string) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, providers.AppVersion(version))

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideVideoStorage)
	do.Provide(injector, providers.ProvideVideoSigner)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Email
	do.Provide(injector, providers.ProvideEmailSender)

	// Business services
	do.Provide(injector, providers.ProvideInstanceService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideCleanupService)
	do.Provide(injector, providers.ProvideMovementService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideInviteService)

	// Workers
	do.Provide(injector, providers.ProvideCleanupWorker)
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*videos.Storage](injector)
	_ = do.MustInvoke[*videos.Signer](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.InstanceService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.CleanupService](injector)
	_ = do.MustInvoke[*service.MovementService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)
	_ = do.MustInvoke[*service.InviteService](injector)

	// Workers
	_ = do.MustInvoke[*providers.CleanupWorkerHandle](injector)
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
