package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts generative-text providers for career guidance prompts.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}

// ErrEmptyResponse is returned when the provider answers with no usable text.
var ErrEmptyResponse = errors.New("llm: empty response")

// ErrTimeout is returned when the provider does not answer within the
// configured deadline.
var ErrTimeout = errors.New("llm: request timeout")

// StatusError reports a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: provider returned status %d", e.StatusCode)
}

// DryRunClient echoes the prompt instead of calling a provider. Used when no
// API key is configured so flows stay exercisable in development.
type DryRunClient struct{}

// Generate returns the prompt that would have been sent.
func (DryRunClient) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	return "[dry-run] no API key configured, prompt that would be sent:\n---\n" + prompt, nil
}

// Provider identifies the dry-run pseudo provider.
func (DryRunClient) Provider() string { return "dry-run" }

// Model returns an empty model name.
func (DryRunClient) Model() string { return "" }

var _ Client = DryRunClient{}
