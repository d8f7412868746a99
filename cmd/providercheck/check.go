package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/llm"
	"github.com/vibereader/vibereader-server/internal/recommend"
	"github.com/vibereader/vibereader-server/internal/textutil"
)

// checkBooks is how many books the probe prompt asks for.
const checkBooks = 3

// sampleLength bounds the raw text echoed when parsing fails.
const sampleLength = 200

type status string

const (
	statusSuccess       status = "success"
	statusFailed        status = "failed"
	statusNotConfigured status = "not_configured"
)

type result struct {
	Provider string
	Status   status
	Message  string
	Elapsed  time.Duration
	Sample   string
}

// checkProvider sends the probe prompt to p and classifies the outcome.
func checkProvider(ctx context.Context, p llm.Provider, prompt string) result {
	res := result{Provider: p.Name()}

	start := time.Now()
	text, err := p.Generate(ctx, prompt)
	res.Elapsed = time.Since(start)

	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		res.Status = statusNotConfigured
		res.Message = "API key not configured"
		res.Elapsed = 0
		return res
	case err != nil:
		res.Status = statusFailed
		res.Message = err.Error()
		return res
	}

	suggestions, err := recommend.ExtractSuggestions(text)
	if err != nil {
		res.Status = statusFailed
		res.Message = "No valid JSON found in response"
		res.Sample = textutil.Truncate(text, sampleLength)
		return res
	}
	if len(suggestions) == 0 {
		res.Status = statusFailed
		res.Message = "No recommendations returned"
		return res
	}

	first := suggestions[0]
	res.Status = statusSuccess
	res.Message = fmt.Sprintf("Successfully generated %d recommendations", len(suggestions))
	res.Sample = fmt.Sprintf("%s by %s", first.Title, first.Author)
	return res
}

// probePrompt is the short vibe prompt used for every provider.
func probePrompt() string {
	return recommend.VibePrompt(domain.VibeEnergetic, checkBooks)
}

func writeReport(w io.Writer, results []result, selected recommend.ProviderID) {
	fmt.Fprintln(w, "=== Provider Check ===")
	fmt.Fprintln(w)

	for _, r := range results {
		fmt.Fprintf(w, "%s: %s\n", r.Provider, r.Status)
		fmt.Fprintf(w, "  %s\n", r.Message)
		if r.Elapsed > 0 {
			fmt.Fprintf(w, "  Response time: %s\n", r.Elapsed.Round(time.Millisecond))
		}
		if r.Sample != "" {
			fmt.Fprintf(w, "  Sample: %s\n", r.Sample)
		}
		fmt.Fprintln(w)
	}

	working := 0
	for _, r := range results {
		if r.Status == statusSuccess {
			working++
		}
	}
	fmt.Fprintf(w, "Working providers: %d/%d\n", working, len(results))
	fmt.Fprintf(w, "The app will use: %s\n", selected)
}

func writeModels(w io.Writer, models []llm.Model) {
	fmt.Fprintln(w, "=== Gemini Models ===")
	fmt.Fprintln(w)

	for _, m := range models {
		fmt.Fprintln(w, m.Name)
		fmt.Fprintf(w, "  Display name: %s\n", m.DisplayName)
		fmt.Fprintf(w, "  Supported methods: %s\n", strings.Join(m.SupportedGenerationMethods, ", "))
	}

	generate := slices.DeleteFunc(slices.Clone(models), func(m llm.Model) bool { return !m.SupportsGenerate() })
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Models supporting generateContent:")
	for _, m := range generate {
		fmt.Fprintf(w, "  - %s\n", m.ID())
	}
}
