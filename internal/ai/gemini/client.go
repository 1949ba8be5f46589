package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/cv-evaluator/internal/ai"
	"github.com/spigell/cv-evaluator/internal/logger"
)

const (
	// DefaultModel is used when the configuration leaves the model empty.
	DefaultModel = "gemini-2.0-flash"
	provider     = "gemini"
)

type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client and implements ai.Generator.
type Generator struct {
	models     contentModels
	model      string
	maxRetries int
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

var _ ai.Generator = (*Generator)(nil)

// NewGenerator creates a Generator for the Gemini API backend. maxRetries is
// the number of extra attempts on retryable API errors; zero means one call.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, model, maxRetries, log), nil
}

func newGenerator(models contentModels, model string, maxRetries int, log *zap.Logger) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Generator{
		models:     models,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger.WithCommonFields(log, provider, model),
		newBackOff: func() backoff.BackOff {
			expo := backoff.NewExponentialBackOff()
			expo.InitialInterval = time.Second
			expo.MaxElapsedTime = 30 * time.Second
			return expo
		},
	}
}

// Generate sends the prompt with the given sampling options and returns the
// concatenated text of the response candidates.
func (g *Generator) Generate(ctx context.Context, prompt string, opts ai.GenerationOptions) (string, error) {
	if g == nil || g.models == nil {
		return "", &ai.TransportError{Op: "generate content", Err: errors.New("gemini generator is not initialized")}
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := toConfig(opts)

	var output string
	attempt := 0
	op := func() error {
		attempt++
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		output = responseText(resp)
		if output == "" {
			return backoff.Permanent(ai.ErrEmptyResponse)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(g.newBackOff(), uint64(g.maxRetries)), ctx)
	notify := func(err error, wait time.Duration) {
		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", &ai.TransportError{Op: "generate content", Err: err}
	}

	return output, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func toConfig(opts ai.GenerationOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{MaxOutputTokens: opts.MaxOutputTokens}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(opts.Temperature)
	}
	if opts.TopP > 0 {
		config.TopP = genai.Ptr(opts.TopP)
	}
	if opts.TopK > 0 {
		config.TopK = genai.Ptr(opts.TopK)
	}
	return config
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// retryable reports whether an API error is worth another attempt: server
// side failures and rate limiting. Everything else fails fast.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return false
}
