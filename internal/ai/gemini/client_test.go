package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/cv-evaluator/internal/ai"
)

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	mu      sync.Mutex
	queue   []fakeResponse
	configs []*genai.GenerateContentConfig
	prompts []string
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	f.configs = append(f.configs, config)
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	}
	return next.resp, next.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func newTestGenerator(models *fakeModels, retries int) *Generator {
	g := newGenerator(models, "gemini-test", retries, zap.NewNop())
	g.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return g
}

func TestGeneratorSendsOptions(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse(" {\"score\": 1} ", "", "tail"), nil)
	g := newTestGenerator(models, 0)

	out, err := g.Generate(context.Background(), "  prompt  ", ai.GenerationOptions{Temperature: 0.3, TopP: 0.8, TopK: 40, MaxOutputTokens: 2048})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "{\"score\": 1}\ntail" {
		t.Fatalf("unexpected output %q", out)
	}

	cfg := models.configs[0]
	if cfg.Temperature == nil || *cfg.Temperature != 0.3 {
		t.Fatalf("temperature not forwarded: %+v", cfg.Temperature)
	}
	if cfg.TopK == nil || *cfg.TopK != 40 || cfg.TopP == nil || *cfg.TopP != 0.8 {
		t.Fatalf("top-k/top-p not forwarded")
	}
	if cfg.MaxOutputTokens != 2048 {
		t.Fatalf("unexpected max output tokens %d", cfg.MaxOutputTokens)
	}
	if models.prompts[0] != "prompt" {
		t.Fatalf("expected trimmed prompt, got %q", models.prompts[0])
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(textResponse("retry ok"), nil)
	g := newTestGenerator(models, 2)

	out, err := g.Generate(context.Background(), "p", ai.GenerationOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "retry ok" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(models.configs) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.configs))
	}
}

func TestGeneratorSingleAttemptByDefault(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusServiceUnavailable})
	models.enqueue(textResponse("never used"), nil)
	g := newTestGenerator(models, 0)

	_, err := g.Generate(context.Background(), "p", ai.GenerationOptions{})
	if !ai.IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if len(models.configs) != 1 {
		t.Fatalf("expected a single call, got %d", len(models.configs))
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusUnauthorized, Status: "UNAUTHENTICATED"})
	g := newTestGenerator(models, 3)

	_, err := g.Generate(context.Background(), "p", ai.GenerationOptions{})
	if err == nil {
		t.Fatal("expected error for unauthorized call")
	}
	if len(models.configs) != 1 {
		t.Fatalf("expected single call, got %d", len(models.configs))
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(textResponse("   "), nil)
	g := newTestGenerator(models, 2)

	_, err := g.Generate(context.Background(), "p", ai.GenerationOptions{})
	if !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("expected empty response error, got %v", err)
	}
	if !ai.IsTransport(err) {
		t.Fatalf("empty response must be reported as transport error")
	}
	if len(models.configs) != 1 {
		t.Fatalf("empty responses are not retried, got %d calls", len(models.configs))
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "  ", "", 0, nil); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestGeneratorDefaultModel(t *testing.T) {
	g := newGenerator(&fakeModels{}, " ", 0, nil)
	if g.Model() != DefaultModel {
		t.Fatalf("expected default model, got %q", g.Model())
	}
}
