// Package extraction builds a structured candidate profile from résumé text
// with five independent LLM passes, falling back to heuristics when the
// model cannot be used.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/cv-evaluator/internal/ai"
	"github.com/spigell/cv-evaluator/internal/ai/response"
	"github.com/spigell/cv-evaluator/internal/heuristic"
	"github.com/spigell/cv-evaluator/internal/logger"
	"github.com/spigell/cv-evaluator/internal/profile"
	"github.com/spigell/cv-evaluator/internal/utils"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultMaxLogLength = 200
)

// ErrNotConfigured is recorded on fallback profiles when no generator is set.
var ErrNotConfigured = errors.New("structured extraction is not configured")

// PassObserver is notified about failed passes.
type PassObserver interface {
	ObservePassFailure(pass string)
}

// Extractor runs the structured extraction passes.
type Extractor struct {
	generator  ai.Generator
	logger     *zap.Logger
	passes     []pass
	timeout    time.Duration
	concurrent bool
	maxLogLen  int
	observer   PassObserver
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithTimeout bounds every model call.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithConcurrency issues the passes in parallel when enabled.
func WithConcurrency(enabled bool) Option {
	return func(e *Extractor) { e.concurrent = enabled }
}

// WithMaxLogLength limits prompt and response previews in debug logs.
func WithMaxLogLength(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxLogLen = n
		}
	}
}

// WithObserver reports pass failures to o.
func WithObserver(o PassObserver) Option {
	return func(e *Extractor) { e.observer = o }
}

// New returns an Extractor. A nil generator makes every extraction fall back
// to heuristics.
func New(generator ai.Generator, log *zap.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		generator: generator,
		logger:    logger.WithFields(log, zap.String("component", "structured_extraction")),
		passes:    loadPasses(),
		timeout:   defaultTimeout,
		maxLogLen: defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractComplete runs all passes with a fresh session.
func (e *Extractor) ExtractComplete(ctx context.Context, text string) profile.CandidateProfile {
	return e.ExtractWithSession(ctx, text, response.NewSession())
}

// ExtractWithSession runs all passes, reusing parses cached in session. It
// never fails: when nothing usable comes back from the model the heuristic
// profile is returned, tagged FALLBACK_REGEX.
func (e *Extractor) ExtractWithSession(ctx context.Context, text string, session *response.Session) (result profile.CandidateProfile) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("structured extraction panicked", zap.Any("panic", r))
			result = Fallback(text, fmt.Errorf("structured extraction panicked: %v", r))
		}
	}()

	if e.generator == nil {
		return Fallback(text, ErrNotConfigured)
	}

	outcomes := e.run(ctx, text, session)

	p := profile.CandidateProfile{
		Quality:     profile.QualityAIComplete,
		ExtractedAt: time.Now(),
	}
	var errs []error
	for i, ps := range e.passes {
		err := outcomes[i].err
		if err == nil {
			err = ps.apply(&p, outcomes[i].data)
		}
		if err == nil {
			continue
		}

		ps.defaults(&p)
		if p.PassErrors == nil {
			p.PassErrors = make(map[profile.Pass]string)
		}
		p.PassErrors[ps.name] = err.Error()
		errs = append(errs, fmt.Errorf("%s: %w", ps.name, err))

		if e.observer != nil {
			e.observer.ObservePassFailure(string(ps.name))
		}
		e.logger.Warn("extraction pass failed, using defaults", zap.String(logger.FieldPass, string(ps.name)), zap.Error(err))
	}

	if len(errs) == len(e.passes) {
		return Fallback(text, errors.Join(errs...))
	}

	Enrich(&p, text)
	return p
}

type passOutcome struct {
	data map[string]any
	err  error
}

func (e *Extractor) run(ctx context.Context, text string, session *response.Session) []passOutcome {
	outcomes := make([]passOutcome, len(e.passes))

	if !e.concurrent {
		for i, ps := range e.passes {
			outcomes[i] = e.runPass(ctx, ps, text, session)
		}
		return outcomes
	}

	var wg sync.WaitGroup
	for i, ps := range e.passes {
		wg.Add(1)
		go func(i int, ps pass) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = passOutcome{err: fmt.Errorf("pass panicked: %v", r)}
				}
			}()
			outcomes[i] = e.runPass(ctx, ps, text, session)
		}(i, ps)
	}
	wg.Wait()

	return outcomes
}

func (e *Extractor) runPass(ctx context.Context, ps pass, text string, session *response.Session) passOutcome {
	if data, ok := session.Lookup(string(ps.name)); ok {
		return passOutcome{data: data}
	}

	log := e.logger.With(zap.String(logger.FieldPass, string(ps.name)))
	prompt := ps.prompt(text)
	log.Debug("extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.generator.Generate(callCtx, prompt, passOptions)
	if err != nil {
		if !ai.IsTransport(err) {
			err = &ai.TransportError{Op: string(ps.name), Err: err}
		}
		return passOutcome{err: err}
	}
	if strings.TrimSpace(raw) == "" {
		return passOutcome{err: &ai.TransportError{Op: string(ps.name), Err: ai.ErrEmptyResponse}}
	}

	log.Debug("extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	data, err := response.Parse(raw)
	if err != nil {
		return passOutcome{err: err}
	}
	session.Store(string(ps.name), data)

	return passOutcome{data: data}
}

// Fallback returns the heuristic profile tagged FALLBACK_REGEX with cause
// recorded.
func Fallback(text string, cause error) profile.CandidateProfile {
	p := heuristic.ExtractBasic(text)
	p.Quality = profile.QualityFallbackRegex
	if cause != nil {
		p.Error = cause.Error()
	}
	return p
}
