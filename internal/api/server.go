// Package api provides the HTTP API server and handlers for VibeReader.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vibereader/vibereader-server/internal/cache"
	"github.com/vibereader/vibereader-server/internal/http/response"
	"github.com/vibereader/vibereader-server/internal/ratelimit"
	"github.com/vibereader/vibereader-server/internal/recommend"
	"github.com/vibereader/vibereader-server/internal/service"
	"github.com/vibereader/vibereader-server/internal/validation"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// ProviderState reports a provider adapter's circuit state.
// Implemented by *llm.Breaker.
type ProviderState interface {
	Name() string
	State() string
}

// Services groups the business logic used by the API server.
type Services struct {
	Books       *service.BookService
	Catalog     *service.CatalogService
	Recommend   *recommend.Service
	Credentials recommend.CredentialSource
	Providers   []ProviderState
	Cache       cache.Pinger // nil when the backend cannot report health
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services  *Services
	validator *validation.Validator
	limiter   *ratelimit.KeyedRateLimiter
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// A nil limiter disables inbound rate limiting.
func NewServer(services *Services, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		services:  services,
		validator: validation.New(),
		limiter:   limiter,
		router:    router,
		logger:    logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("VibeReader API", Version)
	humaConfig.Info.Description = "Book recommendations from reading preferences and vibes"
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(recordMetrics)

	s.router.NotFound(response.NotFound(s.logger))
	s.router.MethodNotAllowed(response.MethodNotAllowed(s.logger))
}

// registerRoutes configures all HTTP routes.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerRecommendationRoutes()
	s.registerProviderRoutes()
	s.registerGenreRoutes()

	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())
}
