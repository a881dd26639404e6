// Package assistant answers free-form questions with a language model primed
// on the facility data.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/themobileprof/fitzone-bot/internal/privacy"
	"github.com/themobileprof/fitzone-bot/internal/prompt"
	"github.com/themobileprof/fitzone-bot/pkg/llm"
)

var (
	ErrEmptyQuestion = errors.New("empty question")
	ErrEmptyAnswer   = errors.New("model returned an empty answer")
)

// Config carries the request knobs sent with every completion.
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Assistant adapts an llm.Client into a single-shot question answerer.
type Assistant struct {
	client  llm.Client
	prompts *prompt.Builder
	cfg     Config
}

// New returns an Assistant that sends cfg unchanged; a zero Temperature
// asks for deterministic output.
func New(client llm.Client, prompts *prompt.Builder, cfg Config) *Assistant {
	return &Assistant{client: client, prompts: prompts, cfg: cfg}
}

// Answer sends the redacted question with the system prompt and returns the
// trimmed reply.
func (a *Assistant) Answer(ctx context.Context, question string) (string, error) {
	question = privacy.SanitizeForAPI(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	resp, err := a.client.ChatCompletion(ctx, llm.ChatRequest{
		Model:       a.cfg.Model,
		Messages:    a.prompts.BuildMessages(question),
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	answer, err := resp.Text()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}
