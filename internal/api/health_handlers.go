package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vibereader/vibereader-server/internal/recommend"
)

// healthCheckTimeout bounds the cache ping.
const healthCheckTimeout = 2 * time.Second

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"cache":     s.checkCache(ctx),
		"providers": s.checkProviders(),
	}

	overall := "healthy"
	for _, c := range components {
		switch c.Status {
		case "unhealthy":
			overall = "unhealthy"
		case "degraded":
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkCache pings the cache backend when it supports it.
func (s *Server) checkCache(ctx context.Context) ComponentHealth {
	if s.services.Cache == nil {
		return ComponentHealth{Status: "healthy", Message: "in-process cache"}
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := s.services.Cache.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "cache backend unreachable",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// checkProviders reports degraded when no language model is usable.
// The catalog fallback still answers in that case.
func (s *Server) checkProviders() ComponentHealth {
	selected := s.services.Recommend.Selected()
	if selected == recommend.ProviderFallback {
		return ComponentHealth{Status: "degraded", Message: "no provider configured, using catalog fallback"}
	}

	open := 0
	for _, p := range s.services.Providers {
		if p.State() == "open" {
			open++
		}
	}
	if len(s.services.Providers) > 0 && open == len(s.services.Providers) {
		return ComponentHealth{Status: "degraded", Message: "all provider circuits open"}
	}

	return ComponentHealth{Status: "healthy", Message: "selected " + string(selected)}
}
