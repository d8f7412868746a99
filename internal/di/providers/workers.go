package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/logger"
	"github.com/vibereader/vibereader-server/internal/ratelimit"
)

// CredentialWatcherHandle wraps the .env watcher with shutdown capability.
// Watcher is nil when the file's directory could not be watched.
type CredentialWatcherHandle struct {
	*config.CredentialWatcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *CredentialWatcherHandle) Shutdown() error {
	h.cancel()
	if h.CredentialWatcher == nil {
		return nil
	}
	return h.CredentialWatcher.Stop()
}

// ProvideCredentialWatcher starts reloading credentials when the .env file changes.
func ProvideCredentialWatcher(i do.Injector) (*CredentialWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	creds := do.MustInvoke[*config.CredentialStore](i)

	ctx, cancel := context.WithCancel(context.Background())

	w, err := config.NewCredentialWatcher(cfg, creds, log.WithComponent("credentials"))
	if err != nil {
		// Non-fatal: credentials stay as loaded at startup
		log.Warn("Credential reload unavailable", "error", err, "env_file", cfg.App.EnvFile)
		return &CredentialWatcherHandle{cancel: cancel}, nil
	}
	w.Start(ctx)

	log.Info("Credential watcher started", "env_file", cfg.App.EnvFile)

	return &CredentialWatcherHandle{CredentialWatcher: w, cancel: cancel}, nil
}

// RateLimiterHandle wraps the inbound rate limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-IP limiter for recommendation routes.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	log.Info("Rate limiter initialized", "rps", cfg.RateLimit.RPS, "burst", cfg.RateLimit.Burst)

	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}
