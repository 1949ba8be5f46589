package extraction

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-evaluator/internal/ai"
	"github.com/spigell/cv-evaluator/internal/ai/response"
	"github.com/spigell/cv-evaluator/internal/profile"
)

type reply struct {
	text string
	err  error
}

type stubGenerator struct {
	mu      sync.Mutex
	replies map[profile.Pass]reply
	calls   map[profile.Pass]int
	options []ai.GenerationOptions
}

var passMarkers = map[profile.Pass]string{
	profile.PassIdentity:   "candidate identification data",
	profile.PassExperience: "EVERY professional experience",
	profile.PassSkills:     "competency mapping",
	profile.PassEducation:  "academic background specialist",
	profile.PassProjects:   "projects and achievements analyst",
}

func newStub(replies map[profile.Pass]reply) *stubGenerator {
	return &stubGenerator{replies: replies, calls: make(map[profile.Pass]int)}
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, opts ai.GenerationOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = append(s.options, opts)
	for name, marker := range passMarkers {
		if strings.Contains(prompt, marker) {
			s.calls[name]++
			r, ok := s.replies[name]
			if !ok {
				return "", &ai.TransportError{Op: "stub", Err: errors.New("no reply configured")}
			}
			return r.text, r.err
		}
	}
	return "", errors.New("unknown prompt")
}

func (s *stubGenerator) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

type countingObserver struct {
	mu     sync.Mutex
	failed []string
}

func (o *countingObserver) ObservePassFailure(pass string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, pass)
}

const resumeText = `Ana Beatriz Costa
ana.costa@example.com
(21) 99876-5432
Senior backend engineer with 7 years of experience in Python and Go.`

func fullReplies() map[profile.Pass]reply {
	return map[profile.Pass]reply{
		profile.PassIdentity:   {text: "```json\n" + `{"full_name": "Ana Beatriz Costa", "email": "ana.costa@example.com", "phone": "(21) 99876-5432", "linkedin": "", "github": "Not identified"}` + "\n```"},
		profile.PassExperience: {text: `{"jobs": [{"employer": "Acme", "title": "Backend Engineer", "technologies": ["Go", "Python"]}], "total_years": 7, "areas": ["Backend"], "career_progression": "Growing"}`},
		profile.PassSkills:     {text: `{"languages": ["Python", "Go", "Java", "SQL"], "frameworks": ["Django", "React", "FastAPI"], "devops_tools": ["Docker"], "technical_level": "Senior"}`},
		profile.PassEducation:  {text: `Sure! {"degrees": [{"course": "Computer Science", "institution": "UFRJ", "level": "Bachelor"}], "certifications": ["CKA"], "highest_level": "Higher education"}`},
		profile.PassProjects:   {text: `{"highlighted": [{"name": "Billing", "technologies": ["Go"]}], "quantified_achievements": ["Cut latency by 40%"]}`},
	}
}

func TestExtractCompleteAllPasses(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		stub := newStub(fullReplies())
		e := New(stub, zap.NewNop(), WithConcurrency(concurrent))

		p := e.ExtractComplete(context.Background(), resumeText)

		assert.Equal(t, profile.QualityAIComplete, p.Quality)
		assert.Empty(t, p.PassErrors)
		require.NotNil(t, p.Personal)
		assert.Equal(t, "Ana Beatriz Costa", p.Personal.FullName)
		assert.Equal(t, profile.NotIdentified, p.Personal.LinkedIn)
		assert.Equal(t, profile.NotIdentified, p.Personal.Address)
		assert.Equal(t, 7.0, p.Experience.TotalYears)
		assert.Equal(t, "Senior", p.Skills.TechnicalLevel)
		assert.Equal(t, []string{"CKA"}, p.Education.Certifications)
		require.Len(t, p.Projects.Highlighted, 1)
		assert.Equal(t, "Billing", p.Projects.Highlighted[0].Name)

		assert.Equal(t, 100, p.Metrics.CompletenessScore)
		assert.Equal(t, "Senior", p.Metrics.Seniority)
		assert.Equal(t, []string{"Frontend", "Backend", "DevOps/Cloud"}, p.Metrics.Specialties)
		assert.Equal(t, []string{"Solid experience (7 years)", "Broad technical range", "Solid academic background", "Technical certifications"}, p.Metrics.Strengths)
		assert.Empty(t, p.Metrics.Gaps)
		require.NotNil(t, p.Analysis)
		assert.Equal(t, "high", p.Analysis.DetailRichness)

		assert.Equal(t, 5, stub.total())
		for _, opts := range stub.options {
			assert.Equal(t, passOptions, opts)
		}
	}
}

func TestExtractPartialFailureUsesPassDefaults(t *testing.T) {
	replies := fullReplies()
	replies[profile.PassSkills] = reply{text: "I cannot answer that"}
	delete(replies, profile.PassProjects)

	core, logs := observer.New(zapcore.WarnLevel)
	obs := &countingObserver{}
	e := New(newStub(replies), zap.New(core), WithObserver(obs))

	p := e.ExtractComplete(context.Background(), resumeText)

	assert.Equal(t, profile.QualityAIComplete, p.Quality)
	require.Contains(t, p.PassErrors, profile.PassSkills)
	require.Contains(t, p.PassErrors, profile.PassProjects)
	assert.Len(t, p.PassErrors, 2)

	require.NotNil(t, p.Skills)
	assert.Empty(t, p.Skills.Languages)
	assert.Equal(t, profile.ToBeDefined, p.Skills.TechnicalLevel)
	require.NotNil(t, p.Projects)
	assert.Empty(t, p.Projects.Highlighted)
	assert.Equal(t, "Ana Beatriz Costa", p.Personal.FullName)

	assert.ElementsMatch(t, []string{"skills", "projects"}, obs.failed)
	assert.Equal(t, 2, logs.FilterMessage("extraction pass failed, using defaults").Len())
}

func TestExtractAllPassesFailFallsBack(t *testing.T) {
	e := New(newStub(map[profile.Pass]reply{}), nil, WithConcurrency(true))

	p := e.ExtractComplete(context.Background(), resumeText)

	assert.Equal(t, profile.QualityFallbackRegex, p.Quality)
	assert.Contains(t, p.Error, "identity")
	assert.Contains(t, p.Error, "projects")
	assert.Equal(t, "Ana Beatriz Costa", p.Personal.FullName)
	assert.Equal(t, "ana.costa@example.com", p.Personal.Email)
}

func TestExtractWithoutGenerator(t *testing.T) {
	p := New(nil, nil).ExtractComplete(context.Background(), resumeText)

	assert.Equal(t, profile.QualityFallbackRegex, p.Quality)
	assert.Equal(t, ErrNotConfigured.Error(), p.Error)
}

type panicGenerator struct{}

func (panicGenerator) Generate(context.Context, string, ai.GenerationOptions) (string, error) {
	panic("boom")
}

func TestExtractRecoversPanics(t *testing.T) {
	p := New(panicGenerator{}, nil).ExtractComplete(context.Background(), resumeText)

	assert.Equal(t, profile.QualityFallbackRegex, p.Quality)
	assert.Contains(t, p.Error, "boom")
}

func TestExtractReusesSessionCache(t *testing.T) {
	stub := newStub(fullReplies())
	e := New(stub, nil)
	session := response.NewSession()

	first := e.ExtractWithSession(context.Background(), resumeText, session)
	second := e.ExtractWithSession(context.Background(), resumeText, session)

	assert.Equal(t, 5, stub.total())
	assert.Equal(t, 5, session.Len())
	assert.Equal(t, first.Personal, second.Personal)
}

func TestPassWindows(t *testing.T) {
	long := strings.Repeat("ж", 5000)
	for _, ps := range loadPasses() {
		prompt := ps.prompt(long)
		assert.NotContains(t, prompt, resumePlaceholder)
		assert.Equal(t, ps.window, strings.Count(prompt, "ж"), "pass %s", ps.name)
	}
}
