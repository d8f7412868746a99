package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/vibereader/vibereader-server/internal/cache"
	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/logger"
	"github.com/vibereader/vibereader-server/internal/store"
)

// Key prefixes used by the shared byte backends.
const (
	bookCachePrefix    = "book:"
	catalogCachePrefix = "catalog:"
)

// CacheBackendHandle owns the configured cache backend.
// Backend is nil for the in-process memory cache.
type CacheBackendHandle struct {
	Backend cache.Backend
	Pinger  cache.Pinger
	ctx     context.Context
	cancel  context.CancelFunc
	close   func() error
}

// Shutdown implements do.Shutdownable.
func (h *CacheBackendHandle) Shutdown() error {
	h.cancel()
	if h.close == nil {
		return nil
	}
	return h.close()
}

// ProvideCacheBackend opens the backend named by CACHE_BACKEND.
func ProvideCacheBackend(i do.Injector) (*CacheBackendHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	h := &CacheBackendHandle{ctx: ctx, cancel: cancel}

	switch cfg.Cache.Backend {
	case config.CacheBackendBadger:
		db, err := store.New(cfg.Cache.Path, log.Logger)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("open badger cache: %w", err)
		}
		db.StartGC(ctx, storeGCInterval)
		h.Backend, h.Pinger, h.close = db, db, db.Close
		log.Info("Badger cache opened", "path", cfg.Cache.Path)

	case config.CacheBackendRedis:
		rb, err := cache.NewRedisBackend(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			cancel()
			return nil, err
		}
		h.Backend, h.Pinger, h.close = rb, rb, rb.Close
		log.Info("Redis cache connected", "addr", cfg.Cache.RedisAddr, "db", cfg.Cache.RedisDB)

	default:
		log.Info("Using in-process cache", "ttl", cfg.Cache.TTL)
	}

	return h, nil
}

// ProvideBookCache provides the cache for edge ISBN and title/author lookups.
func ProvideBookCache(i do.Injector) (cache.Cache[domain.BookDetails], error) {
	cfg := do.MustInvoke[*config.Config](i)
	h := do.MustInvoke[*CacheBackendHandle](i)

	return cache.WithMetrics("books", newTypedCache[domain.BookDetails](h, bookCachePrefix, cfg.Cache)), nil
}

// ProvideCatalogCache provides the cache for catalog searches.
func ProvideCatalogCache(i do.Injector) (cache.Cache[[]domain.CatalogRecord], error) {
	cfg := do.MustInvoke[*config.Config](i)
	h := do.MustInvoke[*CacheBackendHandle](i)

	return cache.WithMetrics("catalog", newTypedCache[[]domain.CatalogRecord](h, catalogCachePrefix, cfg.Cache)), nil
}

func newTypedCache[V any](h *CacheBackendHandle, prefix string, cfg config.CacheConfig) cache.Cache[V] {
	if h.Backend != nil {
		return cache.NewCodec[V](h.Backend, prefix, cfg.TTL)
	}
	mem := cache.NewMemory[V](cfg.TTL)
	mem.StartJanitor(h.ctx, cfg.TTL)
	return mem
}
