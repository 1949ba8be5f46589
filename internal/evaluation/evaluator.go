// Package evaluation scores a résumé against job requirements with the LLM
// and falls back to a deterministic keyword score when the model fails.
package evaluation

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/cv-evaluator/internal/ai"
	"github.com/spigell/cv-evaluator/internal/ai/response"
	"github.com/spigell/cv-evaluator/internal/logger"
	"github.com/spigell/cv-evaluator/internal/profile"
	"github.com/spigell/cv-evaluator/internal/utils"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultMaxLogLength = 200

	maxListItems = 5
	maxSkills    = 10
)

var evaluationOptions = ai.GenerationOptions{
	Temperature:     0.3,
	TopP:            0.8,
	TopK:            40,
	MaxOutputTokens: 2048,
}

// Reason explains why the fallback scorer was used.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonTransport Reason = "transport"
	ReasonEmpty     Reason = "empty_response"
	ReasonParse     Reason = "parse"
)

// Outcome is the raw evaluation payload plus how it was produced.
type Outcome struct {
	Raw          map[string]any
	FallbackUsed bool
	Reason       Reason
	Err          error
}

// Evaluator sends evaluation prompts to the model.
type Evaluator struct {
	generator ai.Generator
	logger    *zap.Logger
	timeout   time.Duration
	maxLogLen int
}

// Option customises an Evaluator.
type Option func(*Evaluator)

// WithTimeout bounds the model call.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxLogLength limits prompt and response previews in debug logs.
func WithMaxLogLength(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxLogLen = n
		}
	}
}

// NewEvaluator returns an Evaluator. Without a generator every evaluation
// goes straight to the fallback scorer.
func NewEvaluator(generator ai.Generator, log *zap.Logger, opts ...Option) *Evaluator {
	e := &Evaluator{
		generator: generator,
		logger:    logger.WithFields(log, zap.String("component", "evaluation")),
		timeout:   defaultTimeout,
		maxLogLen: defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores resumeText against jobRequirements enriched with p. It
// never fails; model errors produce a fallback payload.
func (e *Evaluator) Evaluate(ctx context.Context, resumeText, jobRequirements string, p *profile.CandidateProfile) Outcome {
	requirements := EnrichRequirements(jobRequirements, p)

	raw, reason, err := e.ask(ctx, BuildPrompt(resumeText, requirements))
	if err != nil {
		e.logger.Warn("evaluation failed, using fallback scorer", zap.String("reason", string(reason)), zap.Error(err))
		fallback := FallbackScore(resumeText, jobRequirements, err)
		fallback["fallback_reason"] = string(reason)
		return Outcome{Raw: fallback, FallbackUsed: true, Reason: reason, Err: err}
	}

	return Outcome{Raw: capLists(raw)}
}

func (e *Evaluator) ask(ctx context.Context, prompt string) (map[string]any, Reason, error) {
	if e.generator == nil {
		return nil, ReasonTransport, &ai.TransportError{Op: "evaluate", Err: errors.New("llm generator is not configured")}
	}

	e.logger.Debug("evaluation request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.generator.Generate(callCtx, prompt, evaluationOptions)
	switch {
	case errors.Is(err, ai.ErrEmptyResponse):
		return nil, ReasonEmpty, err
	case err != nil:
		if !ai.IsTransport(err) {
			err = &ai.TransportError{Op: "evaluate", Err: err}
		}
		return nil, ReasonTransport, err
	case strings.TrimSpace(text) == "":
		return nil, ReasonEmpty, &ai.TransportError{Op: "evaluate", Err: ai.ErrEmptyResponse}
	}

	e.logger.Debug("evaluation response",
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, e.maxLogLen)),
	)

	raw, err := response.Parse(text)
	if err != nil {
		return nil, ReasonParse, err
	}
	return raw, ReasonNone, nil
}

// capLists applies the evaluation layer limits before normalisation.
func capLists(raw map[string]any) map[string]any {
	for key, limit := range map[string]int{"strengths": maxListItems, "weaknesses": maxListItems, "top_skills": maxSkills} {
		if list, ok := raw[key].([]any); ok && len(list) > limit {
			raw[key] = list[:limit]
		}
	}
	return raw
}
