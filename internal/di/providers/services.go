package providers

import (
	"github.com/samber/do/v2"

	"github.com/vibereader/vibereader-server/internal/cache"
	"github.com/vibereader/vibereader-server/internal/catalog"
	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/logger"
	"github.com/vibereader/vibereader-server/internal/recommend"
	"github.com/vibereader/vibereader-server/internal/service"
)

// ProvideBookService provides the edge lookup service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	gb := do.MustInvoke[*GoogleBooksClientHandle](i)
	bookCache := do.MustInvoke[cache.Cache[domain.BookDetails]](i)

	return service.NewBookService(gb.Client, bookCache, log.WithComponent("books")), nil
}

// ProvideCatalogService provides catalog detail lookups by ID.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	searcher := do.MustInvoke[catalog.Searcher](i)

	return service.NewCatalogService(searcher, log.WithComponent("catalog")), nil
}

// ProvideRecommendService provides the recommendation pipeline.
func ProvideRecommendService(i do.Injector) (*recommend.Service, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	creds := do.MustInvoke[*config.CredentialStore](i)
	searcher := do.MustInvoke[catalog.Searcher](i)
	llms := do.MustInvoke[*LLMProviders](i)

	recLog := log.WithComponent("recommend")
	svc := recommend.NewService(
		creds,
		llms.ByID(),
		recommend.NewEnricher(searcher, recLog),
		recommend.NewRanker(searcher, recLog),
		recLog,
		recommend.WithCuratedFallback(cfg.Recommend.CuratedFallback),
	)

	log.Info("Recommendation service initialized",
		"curated_fallback", cfg.Recommend.CuratedFallback,
	)

	return svc, nil
}
