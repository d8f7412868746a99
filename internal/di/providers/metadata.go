package providers

import (
	"github.com/samber/do/v2"

	"github.com/vibereader/vibereader-server/internal/cache"
	"github.com/vibereader/vibereader-server/internal/catalog"
	"github.com/vibereader/vibereader-server/internal/catalog/googlebooks"
	"github.com/vibereader/vibereader-server/internal/catalog/openlibrary"
	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/logger"
)

// GoogleBooksClientHandle wraps the Google Books client with shutdown capability.
type GoogleBooksClientHandle struct {
	*googlebooks.Client
}

// Shutdown implements do.Shutdownable.
func (h *GoogleBooksClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideGoogleBooksClient provides the Google Books API client.
// The key is read from the credential store on every request.
func ProvideGoogleBooksClient(i do.Injector) (*GoogleBooksClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	creds := do.MustInvoke[*config.CredentialStore](i)

	client := googlebooks.New(log.WithComponent("googlebooks"),
		googlebooks.WithAPIKey(func() string { return creds.Load().GoogleBooksKey }),
		googlebooks.WithTimeout(cfg.Catalog.Timeout),
	)
	log.Info("Google Books client initialized", "key_configured", client.HasKey())

	return &GoogleBooksClientHandle{Client: client}, nil
}

// OpenLibraryClientHandle wraps the Open Library client with shutdown capability.
// Client is nil when Open Library is disabled.
type OpenLibraryClientHandle struct {
	*openlibrary.Client
}

// Shutdown implements do.Shutdownable.
func (h *OpenLibraryClientHandle) Shutdown() error {
	if h.Client != nil {
		h.Client.Close()
	}
	return nil
}

// ProvideOpenLibraryClient provides the Open Library client.
func ProvideOpenLibraryClient(i do.Injector) (*OpenLibraryClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Catalog.OpenLibraryEnabled {
		log.Info("Open Library disabled by configuration")
		return &OpenLibraryClientHandle{}, nil
	}

	client := openlibrary.New(log.WithComponent("openlibrary"), cfg.Catalog.Timeout)
	log.Info("Open Library client initialized")

	return &OpenLibraryClientHandle{Client: client}, nil
}

// ProvideCatalog provides the merged, cached catalog used for enrichment and fallback.
func ProvideCatalog(i do.Injector) (catalog.Searcher, error) {
	log := do.MustInvoke[*logger.Logger](i)
	gb := do.MustInvoke[*GoogleBooksClientHandle](i)
	ol := do.MustInvoke[*OpenLibraryClientHandle](i)
	catalogCache := do.MustInvoke[cache.Cache[[]domain.CatalogRecord]](i)

	backends := []catalog.Searcher{gb.Client}
	if ol.Client != nil {
		backends = append(backends, ol.Client)
	}

	multi := catalog.NewMulti(log.WithComponent("catalog"), backends...)
	sources := make([]string, 0, len(backends))
	for _, b := range multi.Backends() {
		sources = append(sources, string(b.Source()))
	}
	log.Info("Catalog initialized", "sources", sources)

	return catalog.NewCached(multi, catalogCache, log.WithComponent("catalog")), nil
}
