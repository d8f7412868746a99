// Package providers contains dependency injection providers for the VibeReader server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting VibeReader Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"cache_backend", cfg.Cache.Backend,
		"env_file", cfg.App.EnvFile,
	)

	return log, nil
}

// ProvideCredentialStore provides the live credential snapshot.
func ProvideCredentialStore(i do.Injector) (*config.CredentialStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	creds := cfg.Credentials()
	log.Info("Credentials loaded", creds.LogAttrs()...)

	return config.NewCredentialStore(creds), nil
}
