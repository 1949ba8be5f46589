package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned empty response")

// GenerationOptions are the sampling knobs sent with every request.
type GenerationOptions struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
}

// Generator is the LLM transport used by extraction and evaluation.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

// TransportError marks a failure to obtain text from the model: network,
// auth, quota, timeout or an empty answer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("llm transport: %v", e.Err)
	}
	return fmt.Sprintf("llm transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
