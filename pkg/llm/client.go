package llm

import (
	"context"
	"errors"
)

var (
	// ErrNoChoices is returned when a provider answers without any candidate.
	ErrNoChoices = errors.New("no choices in response")
	// ErrMissingAPIKey is returned by providers constructed without a credential.
	ErrMissingAPIKey = errors.New("missing API key")
)

// Client interface for LLM API interactions
type Client interface {
	// ChatCompletion sends a non-streaming chat completion request
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
