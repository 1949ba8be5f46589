// Package metrics exposes prometheus collectors for the evaluation pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spigell/cv-evaluator/internal/ai"
)

const namespace = "cv_evaluator"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics groups the pipeline collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	evaluations       *prometheus.CounterVec
	fallbacks         *prometheus.CounterVec
	passFailures      *prometheus.CounterVec
	aiRequests        *prometheus.CounterVec
	aiRequestDuration *prometheus.HistogramVec
	scores            prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and gathers from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) (*Metrics, error) {
	m := &Metrics{
		gatherer: g,
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Total number of résumé evaluations by outcome",
			},
			[]string{"outcome"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluation_fallback_total",
				Help:      "Evaluations scored by the fallback scorer by reason",
			},
			[]string{"reason"},
		),
		passFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extraction_pass_failures_total",
				Help:      "Structured extraction passes that fell back to defaults",
			},
			[]string{"pass"},
		),
		aiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_requests_total",
				Help:      "Total number of LLM requests by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		aiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ai_request_duration_seconds",
				Help:      "LLM request duration in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
		scores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_score",
				Help:      "Distribution of normalised evaluation scores",
				Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.evaluations, m.fallbacks, m.passFailures, m.aiRequests, m.aiRequestDuration, m.scores,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics collector: %w", err)
		}
	}

	return m, nil
}

// ObserveEvaluation counts a finished evaluation. Successful ones also record
// their score.
func (m *Metrics) ObserveEvaluation(success bool, score int) {
	if m == nil {
		return
	}
	if !success {
		m.evaluations.WithLabelValues(OutcomeError).Inc()
		return
	}
	m.evaluations.WithLabelValues(OutcomeSuccess).Inc()
	m.scores.Observe(float64(score))
}

// ObserveFallback counts an evaluation answered by the fallback scorer.
func (m *Metrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(reason).Inc()
}

// ObservePassFailure counts a failed extraction pass.
func (m *Metrics) ObservePassFailure(pass string) {
	if m == nil {
		return
	}
	m.passFailures.WithLabelValues(pass).Inc()
}

func (m *Metrics) observeRequest(provider string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.aiRequests.WithLabelValues(provider, outcome).Inc()
	m.aiRequestDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// WriteTextfile writes the gathered metrics in the node exporter textfile
// format. Metrics without a gatherer are a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || m.gatherer == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// InstrumentGenerator wraps g so every request is counted and timed.
func (m *Metrics) InstrumentGenerator(provider string, g ai.Generator) ai.Generator {
	if m == nil || g == nil {
		return g
	}
	return &instrumentedGenerator{metrics: m, provider: provider, next: g}
}

type instrumentedGenerator struct {
	metrics  *Metrics
	provider string
	next     ai.Generator
}

func (g *instrumentedGenerator) Generate(ctx context.Context, prompt string, opts ai.GenerationOptions) (string, error) {
	start := time.Now()
	text, err := g.next.Generate(ctx, prompt, opts)
	g.metrics.observeRequest(g.provider, err, time.Since(start))
	return text, err
}
