package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/genre"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listQuizOptions",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List quiz options",
		Description: "Returns the genres offered by the preference quiz and the available vibes",
		Tags:        []string{"Genres"},
	}, s.handleListQuizOptions)
}

// QuizOptionsResponse lists the selectable quiz values.
type QuizOptionsResponse struct {
	Genres []genre.QuizGenre `json:"genres" doc:"Quiz genres"`
	Vibes  []domain.Vibe     `json:"vibes" doc:"Vibe names"`
}

// QuizOptionsOutput wraps the quiz options for Huma.
type QuizOptionsOutput struct {
	Body QuizOptionsResponse
}

func (s *Server) handleListQuizOptions(_ context.Context, _ *struct{}) (*QuizOptionsOutput, error) {
	return &QuizOptionsOutput{
		Body: QuizOptionsResponse{
			Genres: genre.QuizGenres,
			Vibes:  domain.AllVibes,
		},
	}, nil
}
