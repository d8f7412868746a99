// Command providercheck probes each configured language model provider with a
// short recommendation prompt and reports which one the server would use.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/llm"
	"github.com/vibereader/vibereader-server/internal/logger"
	"github.com/vibereader/vibereader-server/internal/recommend"
)

func main() {
	fs := flag.NewFlagSet("providercheck", flag.ExitOnError)
	listModels := fs.Bool("models", false, "List Gemini models supporting generateContent and exit")

	cfg, err := config.LoadFlags(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New(logger.Config{
		Writer:      os.Stderr,
		Level:       slog.LevelWarn,
		Environment: cfg.App.Environment,
	})
	creds := cfg.Credentials()

	gemini := llm.NewGemini(l.Logger,
		llm.WithAPIKey(func() string { return creds.GeminiKey }),
		llm.WithModel(cfg.Providers.GeminiModel),
		llm.WithTimeout(cfg.Providers.Timeout),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *listModels {
		models, err := gemini.ListModels(ctx)
		if err != nil {
			log.Fatalf("Failed to list models: %v", err)
		}
		writeModels(os.Stdout, models)
		return
	}

	openRouter := llm.NewOpenRouter(l.Logger,
		llm.WithAPIKey(func() string { return creds.OpenRouterKey }),
		llm.WithModel(cfg.Providers.OpenRouterModel),
		llm.WithTimeout(cfg.Providers.Timeout),
	)

	prompt := probePrompt()
	results := make([]result, 0, 2)
	for _, p := range []llm.Provider{gemini, openRouter} {
		fmt.Printf("Testing %s...\n", p.Name())
		results = append(results, checkProvider(ctx, p, prompt))
	}
	fmt.Println()

	writeReport(os.Stdout, results, recommend.SelectProvider(creds))
}
