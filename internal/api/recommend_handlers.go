package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vibereader/vibereader-server/internal/domain"
	domainerrors "github.com/vibereader/vibereader-server/internal/errors"
	"github.com/vibereader/vibereader-server/internal/recommend"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recommendForQuiz",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommendations/quiz",
		Summary:     "Recommend from quiz answers",
		Description: "Returns up to 5 ranked books for the reader's quiz preferences",
		Tags:        []string{"Recommendations"},
		Middlewares: huma.Middlewares{s.rateLimit},
	}, s.handleRecommendForQuiz)

	huma.Register(s.api, huma.Operation{
		OperationID: "recommendForVibe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/vibe/{vibe}",
		Summary:     "Recommend for a vibe",
		Description: "Returns up to 6 ranked books for one of Energetic, Calm, Motivated or Reflective",
		Tags:        []string{"Recommendations"},
		Middlewares: huma.Middlewares{s.rateLimit},
	}, s.handleRecommendForVibe)
}

// === DTOs ===

// QuizInput wraps the quiz answers.
type QuizInput struct {
	Body domain.QuizPreferences
}

// VibeInput contains the requested vibe.
type VibeInput struct {
	Vibe string `path:"vibe" doc:"Vibe name, case-insensitive"`
}

// RecommendationOutput wraps a recommendation result for Huma.
type RecommendationOutput struct {
	Body *recommend.Result
}

// === Handlers ===

func (s *Server) handleRecommendForQuiz(ctx context.Context, input *QuizInput) (*RecommendationOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	res, err := s.services.Recommend.RecommendForQuiz(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &RecommendationOutput{Body: res}, nil
}

func (s *Server) handleRecommendForVibe(ctx context.Context, input *VibeInput) (*RecommendationOutput, error) {
	v, err := domain.ParseVibe(input.Vibe)
	if err != nil {
		return nil, domainerrors.ValidationWithDetails(err.Error(), map[string]any{"allowed": domain.AllVibes})
	}

	res, err := s.services.Recommend.RecommendForVibe(ctx, v)
	if err != nil {
		return nil, err
	}
	return &RecommendationOutput{Body: res}, nil
}
