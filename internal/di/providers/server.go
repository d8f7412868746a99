package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/vibereader/vibereader-server/internal/api"
	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/logger"
	"github.com/vibereader/vibereader-server/internal/recommend"
	"github.com/vibereader/vibereader-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	creds := do.MustInvoke[*config.CredentialStore](i)
	backend := do.MustInvoke[*CacheBackendHandle](i)
	llms := do.MustInvoke[*LLMProviders](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	services := &api.Services{
		Books:       do.MustInvoke[*service.BookService](i),
		Catalog:     do.MustInvoke[*service.CatalogService](i),
		Recommend:   do.MustInvoke[*recommend.Service](i),
		Credentials: creds,
		Providers:   llms.States(),
		Cache:       backend.Pinger,
	}

	handler := api.NewServer(services, limiter.KeyedRateLimiter, log.WithComponent("api"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
