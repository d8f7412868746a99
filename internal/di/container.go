// Package di provides dependency injection configuration for the VibeReader server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/vibereader/vibereader-server/internal/catalog"
	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/di/providers"
	"github.com/vibereader/vibereader-server/internal/logger"
	"github.com/vibereader/vibereader-server/internal/recommend"
	"github.com/vibereader/vibereader-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideCredentialStore)

	// Cache layer
	do.Provide(injector, providers.ProvideCacheBackend)
	do.Provide(injector, providers.ProvideBookCache)
	do.Provide(injector, providers.ProvideCatalogCache)

	// Catalog layer
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideOpenLibraryClient)
	do.Provide(injector, providers.ProvideCatalog)

	// Language models
	do.Provide(injector, providers.ProvideLLMProviders)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideRecommendService)

	// Workers
	do.Provide(injector, providers.ProvideCredentialWatcher)
	do.Provide(injector, providers.ProvideRateLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*config.CredentialStore](injector)

	if _, err := do.Invoke[*providers.CacheBackendHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[catalog.Searcher](injector)
	_ = do.MustInvoke[*providers.LLMProviders](injector)

	// Business services
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*recommend.Service](injector)

	// Workers
	_ = do.MustInvoke[*providers.CredentialWatcherHandle](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
