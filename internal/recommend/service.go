package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/vibereader/vibereader-server/internal/domain"
	domainerrors "github.com/vibereader/vibereader-server/internal/errors"
	"github.com/vibereader/vibereader-server/internal/id"
	"github.com/vibereader/vibereader-server/internal/llm"
	"github.com/vibereader/vibereader-server/internal/metrics"
)

// Source names the strategy that produced a Result.
type Source string

// Result sources.
const (
	SourceGemini     Source = "gemini"
	SourceOpenRouter Source = "openrouter"
	SourceCatalog    Source = "catalog"
	SourceCurated    Source = "curated"
	SourceNone       Source = "none"
)

// Result is one recommendation response.
type Result struct {
	BatchID         string                  `json:"batchId" doc:"Identifier for this batch of recommendations"`
	Source          Source                  `json:"source" enum:"gemini,openrouter,catalog,curated,none" doc:"Strategy that produced the list"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	Degraded        []string                `json:"degraded,omitempty" doc:"Stages that were tried and failed, in order"`
}

// Service runs the recommendation chain.
type Service struct {
	creds     CredentialSource
	providers map[ProviderID]llm.Provider
	enricher  *Enricher
	ranker    *Ranker
	curated   bool
	jitter    func() int
	newID     func() (string, error)
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCuratedFallback serves the curated shelf when the catalog fallback is empty.
func WithCuratedFallback(enabled bool) ServiceOption {
	return func(s *Service) { s.curated = enabled }
}

// WithCuratedJitter replaces the curated shelf's random score offset.
func WithCuratedJitter(j func() int) ServiceOption {
	return func(s *Service) { s.jitter = j }
}

// NewService creates a Service. providers maps each provider ID to its
// adapter; IDs without an adapter are skipped.
func NewService(
	creds CredentialSource,
	providers map[ProviderID]llm.Provider,
	enricher *Enricher,
	ranker *Ranker,
	logger *slog.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		creds:     creds,
		providers: providers,
		enricher:  enricher,
		ranker:    ranker,
		jitter:    func() int { return rand.IntN(maxJitter) },
		newID:     id.NewBatchID,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Selected reports the provider the next request would try first.
func (s *Service) Selected() ProviderID {
	return SelectProvider(s.creds.Load())
}

// RecommendForQuiz serves a quiz request.
func (s *Service) RecommendForQuiz(ctx context.Context, prefs domain.QuizPreferences) (*Result, error) {
	return s.run(ctx, request{
		flow:     FlowQuiz,
		prompt:   BuildQuizPrompt(prefs),
		defaults: QuizDefaults(prefs),
		fallback: func(ctx context.Context) []domain.Recommendation {
			return s.ranker.RankQuiz(ctx, prefs)
		},
		curatedSubject: strings.Join(prefs.Genres, ", ") + " preferences",
		curatedPacing:  prefs.Pacing,
	})
}

// RecommendForVibe serves a vibe request.
func (s *Service) RecommendForVibe(ctx context.Context, v domain.Vibe) (*Result, error) {
	if !v.Valid() {
		return nil, domainerrors.Validationf("unknown vibe %q", string(v))
	}
	return s.run(ctx, request{
		flow:     FlowVibe,
		prompt:   BuildVibePrompt(v),
		defaults: VibeDefaults(v),
		fallback: func(ctx context.Context) []domain.Recommendation {
			return s.ranker.RankVibe(ctx, v)
		},
		curatedSubject: string(v) + " vibe",
		curatedPacing:  profileFor(v).pacing,
	})
}

type request struct {
	flow           Flow
	prompt         string
	defaults       Defaults
	fallback       func(context.Context) []domain.Recommendation
	curatedSubject string
	curatedPacing  domain.Pacing
}

func (s *Service) run(ctx context.Context, req request) (*Result, error) {
	batchID, err := s.newID()
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate batch id")
	}
	res := &Result{BatchID: batchID}
	log := s.logger.With("flow", req.flow, "batch_id", batchID)

	for _, pid := range ProviderChain(s.creds.Load()) {
		provider, ok := s.providers[pid]
		if !ok {
			continue
		}

		recs, err := s.tryProvider(ctx, provider, req)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			log.Warn("provider stage failed", "provider", pid, "error", err)
			res.Degraded = append(res.Degraded, string(pid)+": "+stageReason(err))
			continue
		}

		res.Source = Source(pid)
		res.Recommendations = recs
		return s.finish(log, req.flow, res), nil
	}

	if recs := req.fallback(ctx); len(recs) > 0 {
		res.Source = SourceCatalog
		res.Recommendations = recs
		return s.finish(log, req.flow, res), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Degraded = append(res.Degraded, string(SourceCatalog)+": no results")

	if s.curated {
		res.Source = SourceCurated
		res.Recommendations = Curated(req.curatedSubject, req.curatedPacing, s.jitter)
		return s.finish(log, req.flow, res), nil
	}

	res.Source = SourceNone
	res.Recommendations = []domain.Recommendation{}
	return s.finish(log, req.flow, res), nil
}

// errNoSuggestions means the provider produced a valid but empty array.
var errNoSuggestions = errors.New("recommend: provider returned no suggestions")

func (s *Service) tryProvider(ctx context.Context, provider llm.Provider, req request) ([]domain.Recommendation, error) {
	text, err := provider.Generate(ctx, req.prompt)
	if err != nil {
		return nil, err
	}

	suggestions, err := ExtractSuggestions(text)
	if err != nil {
		return nil, err
	}

	recs := s.enricher.Enrich(ctx, suggestions, req.defaults)
	if len(recs) == 0 {
		return nil, errNoSuggestions
	}
	return recs, nil
}

func (s *Service) finish(log *slog.Logger, flow Flow, res *Result) *Result {
	metrics.RecordRecommendation(string(flow), string(res.Source))
	log.Info("recommendations served",
		"source", res.Source,
		"count", len(res.Recommendations),
		"degraded", len(res.Degraded),
	)
	return res
}

// stageReason is the short, credential-free description recorded in Result.Degraded.
func stageReason(err error) string {
	var statusErr *llm.StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("provider returned status %d", statusErr.StatusCode)
	case errors.Is(err, ErrExtraction):
		return "unparseable response"
	case errors.Is(err, errNoSuggestions):
		return "no suggestions"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "empty response"
	case errors.Is(err, llm.ErrNotConfigured):
		return "not configured"
	default:
		return "provider call failed"
	}
}
