package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/cv-evaluator/internal/ai"
)

type fixedGenerator struct {
	text string
	err  error
}

func (g fixedGenerator) Generate(context.Context, string, ai.GenerationOptions) (string, error) {
	return g.text, g.err
}

func TestObserveCounters(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.ObserveEvaluation(true, 82)
	m.ObserveEvaluation(true, 40)
	m.ObserveEvaluation(false, 0)
	m.ObserveFallback("parse")
	m.ObservePassFailure("skills")
	m.ObservePassFailure("skills")

	assert.InDelta(t, 2, testutil.ToFloat64(m.evaluations.WithLabelValues(OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.evaluations.WithLabelValues(OutcomeError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.fallbacks.WithLabelValues("parse")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.passFailures.WithLabelValues("skills")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.scores))
}

func TestInstrumentGenerator(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	ok := m.InstrumentGenerator("gemini", fixedGenerator{text: "{}"})
	failing := m.InstrumentGenerator("gemini", fixedGenerator{err: errors.New("quota")})

	text, err := ok.Generate(context.Background(), "p", ai.GenerationOptions{})
	require.NoError(t, err)
	assert.Equal(t, "{}", text)

	_, err = failing.Generate(context.Background(), "p", ai.GenerationOptions{})
	assert.EqualError(t, err, "quota")

	assert.InDelta(t, 1, testutil.ToFloat64(m.aiRequests.WithLabelValues("gemini", OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.aiRequests.WithLabelValues("gemini", OutcomeError)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.aiRequestDuration))

	assert.Nil(t, m.InstrumentGenerator("gemini", nil))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.ObserveEvaluation(true, 90)
	m.ObserveFallback("transport")
	m.ObservePassFailure("identity")
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))

	g := fixedGenerator{text: "ok"}
	assert.Equal(t, g, m.InstrumentGenerator("gemini", g))
}

func TestDuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewWithRegistry(reg, reg)
	require.NoError(t, err)

	_, err = NewWithRegistry(reg, reg)
	assert.Error(t, err)
}

func TestWriteTextfile(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.ObserveEvaluation(true, 75)

	path := filepath.Join(t.TempDir(), "cv_evaluator.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cv_evaluator_evaluations_total{outcome="success"} 1`)
	assert.Contains(t, string(data), "cv_evaluator_evaluation_score_bucket")
}
