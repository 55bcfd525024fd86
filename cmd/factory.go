package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdlog "log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/acquire"
	"github.com/spigell/assessment-finder/internal/ai"
	"github.com/spigell/assessment-finder/internal/ai/gemini"
	"github.com/spigell/assessment-finder/internal/finder"
	"github.com/spigell/assessment-finder/internal/logger"
	"github.com/spigell/assessment-finder/internal/search"
	"github.com/spigell/assessment-finder/internal/secrets"
)

// Environment variables holding secrets inline. A configured file wins.
const (
	searchTokenEnv  = "FINDER_SEARCH_TOKEN"
	geminiAPIKeyEnv = "GEMINI_API_KEY"
)

// newFlow wires the fetcher, the search client and the optional AI
// explainer into a finder flow.
func newFlow(ctx context.Context, config *Config, log *zap.Logger) (*finder.Flow, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	fetch := config.Fetch
	if fetch == nil {
		fetch = &FetchConfig{}
	}
	fetcher := acquire.NewFetcher(acquire.FetcherConfig{
		Timeout:      fetch.Timeout,
		UserAgent:    fetch.UserAgent,
		MaxBodyBytes: fetch.MaxBodyBytes,
	}, log.Named("fetch"))

	searcher, err := newSearcher(config.Search, log)
	switch {
	case errors.Is(err, search.ErrNotConfigured):
		// Searches report the missing backend on the page.
		log.Warn("search backend is not configured", zap.String("hint", "set search.endpoint or FINDER_SEARCH_ENDPOINT"))
		return finder.NewFlow(fetcher, nil, log), nil
	case err != nil:
		return nil, err
	}

	if config.AI != nil && config.AI.Enabled {
		explainer, err := newAIExplainer(ctx, config.AI, log)
		if err != nil {
			log.Warn("skipping AI explanations", zap.Error(err))
		} else {
			searcher = search.WithExplainer(searcher, explainer, log.Named("explain"))
		}
	}

	return finder.NewFlow(fetcher, searcher, log), nil
}

func newSearcher(cfg *SearchConfig, log *zap.Logger) (search.Searcher, error) {
	if cfg == nil {
		return nil, search.ErrNotConfigured
	}

	token, err := secrets.LoadOptional(secrets.Source{
		Name: "search token",
		File: cfg.TokenFile,
		Env:  searchTokenEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set search.token-file, FINDER_SEARCH_TOKEN_FILE or FINDER_SEARCH_TOKEN)", err)
	}

	client, err := search.New(search.ClientConfig{
		Endpoint: cfg.Endpoint,
		Token:    token,
		Timeout:  cfg.Timeout,
	}, logger.WithSearchFields(log.Named("search"), cfg.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("creating search client: %w", err)
	}

	return client, nil
}

func newAIExplainer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Explainer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("ai.gemini section is required")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	aiLogger := logger.WithAIFields(log, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		aiLogger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)))
	if err != nil {
		return nil, err
	}

	return gemini.NewExplainer(generator, cfg.Gemini.MaxLogLength, aiLogger), nil
}

// uiOptions returns the initial toggles from the ui section.
func uiOptions(cfg *UIConfig) finder.Options {
	if cfg == nil {
		return finder.Options{TopK: search.DefaultTopK, Rerank: true, Fallback: true}
	}
	return finder.Options{
		TopK:         search.ClampTopK(cfg.TopK),
		Rerank:       cfg.Rerank,
		Fallback:     cfg.Fallback,
		Explanations: cfg.Explanations,
	}
}

// setup builds the logger and loads the configuration, exiting on failure.
func setup() (*Config, *zap.Logger) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		stdlog.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		log.Fatal("config is required")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return config, log
}
