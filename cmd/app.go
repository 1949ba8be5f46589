package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-evaluator/internal/ai"
	"github.com/spigell/cv-evaluator/internal/ai/gemini"
	"github.com/spigell/cv-evaluator/internal/document"
	"github.com/spigell/cv-evaluator/internal/evaluation"
	"github.com/spigell/cv-evaluator/internal/extraction"
	"github.com/spigell/cv-evaluator/internal/history"
	"github.com/spigell/cv-evaluator/internal/metrics"
	"github.com/spigell/cv-evaluator/internal/pipeline"
	"github.com/spigell/cv-evaluator/internal/secrets"
)

// components are the wired services shared by the commands.
type components struct {
	documents *document.Extractor
	extractor *extraction.Extractor
	history   *history.History
	metrics   *metrics.Metrics
	pipeline  *pipeline.Pipeline
}

func newGenerator(ctx context.Context, cfg *AIConfig, m *metrics.Metrics, logger *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return m.InstrumentGenerator("gemini", generator), nil
}

func buildComponents(ctx context.Context, config *Config, logger *zap.Logger) (*components, error) {
	m, err := metrics.New()
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator(ctx, config.AI, m, logger)
	if err != nil {
		return nil, err
	}

	c := &components{
		documents: document.NewExtractor(logger, int64(config.Document.MaxSizeMB)*1024*1024),
		history:   history.New(config.History.Capacity),
		metrics:   m,
	}

	deps := pipeline.Deps{
		Documents: c.documents,
		Evaluator: evaluation.NewEvaluator(generator, logger,
			evaluation.WithTimeout(config.AI.Timeout),
			evaluation.WithMaxLogLength(config.AI.Gemini.MaxLogLength),
		),
		History: c.history,
		Metrics: m,
		Logger:  logger,
	}

	if config.AI.StructuredExtraction {
		c.extractor = extraction.New(generator, logger,
			extraction.WithTimeout(config.AI.Timeout),
			extraction.WithConcurrency(config.AI.ConcurrentPasses),
			extraction.WithMaxLogLength(config.AI.Gemini.MaxLogLength),
			extraction.WithObserver(m),
		)
		deps.Profiles = c.extractor
	}

	c.pipeline = pipeline.New(deps, pipeline.WithStrictQuality(config.Pipeline.StrictQuality))
	return c, nil
}
