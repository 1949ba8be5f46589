// Package pipeline runs a résumé through validation, text extraction,
// structured extraction, evaluation and normalisation as named stages.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/cv-evaluator/internal/ai/response"
	"github.com/spigell/cv-evaluator/internal/document"
	"github.com/spigell/cv-evaluator/internal/evaluation"
	"github.com/spigell/cv-evaluator/internal/history"
	"github.com/spigell/cv-evaluator/internal/logger"
	"github.com/spigell/cv-evaluator/internal/metrics"
	"github.com/spigell/cv-evaluator/internal/profile"
	"github.com/spigell/cv-evaluator/internal/result"
)

// DocumentExtractor validates and decodes uploaded files.
type DocumentExtractor interface {
	Validate(doc document.RawDocument) error
	Extract(ctx context.Context, doc document.RawDocument) (*document.ExtractedText, error)
}

// ProfileExtractor builds the structured candidate profile.
type ProfileExtractor interface {
	ExtractWithSession(ctx context.Context, text string, session *response.Session) profile.CandidateProfile
}

// Evaluator scores résumé text against job requirements.
type Evaluator interface {
	Evaluate(ctx context.Context, resumeText, jobRequirements string, p *profile.CandidateProfile) evaluation.Outcome
}

// Deps aggregates the components used by the stages. Profiles may be left
// nil to skip structured extraction; History and Metrics are optional.
type Deps struct {
	Documents DocumentExtractor
	Profiles  ProfileExtractor
	Evaluator Evaluator
	History   *history.History
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Submission is one résumé file and the job description to match.
type Submission struct {
	Document     document.RawDocument
	Requirements string
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithStrictQuality makes a failed text quality check abort the run.
func WithStrictQuality(enabled bool) Option {
	return func(p *Pipeline) { p.strictQuality = enabled }
}

// Pipeline evaluates submissions.
type Pipeline struct {
	deps          Deps
	logger        *zap.Logger
	strictQuality bool
}

// New returns a Pipeline over deps.
func New(deps Deps, opts ...Option) *Pipeline {
	p := &Pipeline{deps: deps, logger: logger.WithFields(deps.Logger, zap.String("component", "pipeline"))}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Status describes the pipeline configuration and history usage.
type Status struct {
	StructuredExtraction bool `json:"structured_extraction"`
	StrictQuality        bool `json:"strict_quality"`
	HistoryLen           int  `json:"history_len"`
	HistoryCapacity      int  `json:"history_capacity"`
}

// Status reports the current configuration.
func (p *Pipeline) Status() Status {
	s := Status{StructuredExtraction: p.deps.Profiles != nil, StrictQuality: p.strictQuality}
	if p.deps.History != nil {
		s.HistoryLen = p.deps.History.Len()
		s.HistoryCapacity = p.deps.History.Capacity()
	}
	return s
}

// state carries one invocation through the stages.
type state struct {
	filename     string
	requirements string
	document     document.RawDocument
	text         string
	quality      evaluation.QualityReport
	session      *response.Session
	profile      *profile.CandidateProfile
	outcome      evaluation.Outcome
	result       result.EvaluationResult
}

type stage struct {
	name  string
	apply func(ctx context.Context, s *state) error
}

// Process evaluates a résumé file.
func (p *Pipeline) Process(ctx context.Context, sub Submission) (*result.EvaluationResult, error) {
	s := &state{
		filename:     sub.Document.Filename,
		requirements: strings.TrimSpace(sub.Requirements),
		document:     sub.Document,
	}

	stages := []stage{
		{StageValidation, func(context.Context, *state) error {
			return checkSubmission(fileSubmission{Filename: s.filename, Content: s.document.Content, Requirements: s.requirements})
		}},
		{StageFileValidation, p.validateFile},
		{StageExtraction, p.extractText},
	}
	stages = append(stages, p.analysisStages()...)

	return p.execute(ctx, s, stages)
}

// ProcessText evaluates résumé text that was extracted elsewhere.
func (p *Pipeline) ProcessText(ctx context.Context, filename, text, requirements string) (*result.EvaluationResult, error) {
	s := &state{
		filename:     filename,
		requirements: strings.TrimSpace(requirements),
		text:         strings.TrimSpace(text),
	}

	stages := []stage{
		{StageValidation, func(context.Context, *state) error {
			return checkSubmission(textSubmission{Filename: s.filename, ResumeText: s.text, Requirements: s.requirements})
		}},
	}
	stages = append(stages, p.analysisStages()...)

	return p.execute(ctx, s, stages)
}

func (p *Pipeline) analysisStages() []stage {
	return []stage{
		{StageTextQuality, p.checkQuality},
		{StageStructuredExtraction, p.extractProfile},
		{StageEvaluation, p.evaluate},
		{StageNormalization, p.normalize},
		{StageHistory, p.record},
	}
}

func (p *Pipeline) execute(ctx context.Context, s *state, stages []stage) (res *result.EvaluationResult, err error) {
	s.session = response.NewSession()
	current := StageValidation

	defer func() {
		if rec := recover(); rec != nil {
			res, err = nil, fromPanic(rec)
		}
		if err != nil {
			p.fail(s, current, err)
		}
	}()

	for _, st := range stages {
		current = st.name
		if err := ctx.Err(); err != nil {
			return nil, classify(fmt.Errorf("%s: %w", st.name, err))
		}

		start := time.Now()
		if err := st.apply(ctx, s); err != nil {
			return nil, classify(err)
		}

		p.logger.Info("pipeline stage",
			append(logger.StageFields(st.name, s.filename), zap.Duration("elapsed", time.Since(start)))...,
		)
	}

	out := s.result
	return &out, nil
}

func (p *Pipeline) fail(s *state, stageName string, err error) {
	p.logger.Error("evaluation failed", append(logger.StageFields(stageName, s.filename), zap.Error(err))...)

	failed := result.Failed(s.filename, err)
	if p.deps.History != nil {
		p.deps.History.Record(&failed)
	}
	p.deps.Metrics.ObserveEvaluation(false, 0)
}

func (p *Pipeline) validateFile(_ context.Context, s *state) error {
	if err := p.deps.Documents.Validate(s.document); err != nil {
		return &ValidationError{Stage: StageFileValidation, Field: "document", Message: err.Error()}
	}
	return nil
}

func (p *Pipeline) extractText(ctx context.Context, s *state) error {
	extracted, err := p.deps.Documents.Extract(ctx, s.document)
	if err != nil {
		return &ExtractionError{Stage: StageExtraction, Err: err}
	}
	s.text = extracted.Text

	p.logger.Debug("document text extracted",
		append(logger.StageFields(StageExtraction, s.filename),
			zap.String("method", string(extracted.Method)),
			zap.Int("pages", extracted.Pages),
			zap.Int("words", extracted.Metadata.Words),
		)...,
	)
	return nil
}

func (p *Pipeline) checkQuality(_ context.Context, s *state) error {
	s.quality = evaluation.CheckQuality(s.text)
	if s.quality.Valid {
		return nil
	}
	if p.strictQuality {
		return &ExtractionError{Stage: StageTextQuality, Err: fmt.Errorf("%w: %s", ErrLowQuality, s.quality.Reason)}
	}
	p.logger.Warn("low text quality, continuing",
		append(logger.StageFields(StageTextQuality, s.filename), zap.String("reason", s.quality.Reason))...,
	)
	return nil
}

func (p *Pipeline) extractProfile(ctx context.Context, s *state) error {
	if p.deps.Profiles == nil {
		return nil
	}
	extracted := p.deps.Profiles.ExtractWithSession(ctx, s.text, s.session)
	s.profile = &extracted
	return nil
}

func (p *Pipeline) evaluate(ctx context.Context, s *state) error {
	s.outcome = p.deps.Evaluator.Evaluate(ctx, evaluation.PrepareText(s.text), s.requirements, s.profile)
	if s.outcome.FallbackUsed {
		p.deps.Metrics.ObserveFallback(string(s.outcome.Reason))
	}
	return nil
}

func (p *Pipeline) normalize(_ context.Context, s *state) error {
	r := result.Normalize(s.outcome.Raw)
	r.Compatibility = evaluation.Compatibility(s.text, s.requirements)
	r.Suggestions = evaluation.Suggestions(r.Score, r.Weaknesses)
	r = result.Merge(r, s.profile)
	r.Filename = s.filename
	s.result = r.Normalized()
	return nil
}

func (p *Pipeline) record(_ context.Context, s *state) error {
	if p.deps.History != nil {
		p.deps.History.Record(&s.result)
	}
	p.deps.Metrics.ObserveEvaluation(true, s.result.Score)
	return nil
}
