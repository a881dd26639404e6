// Package openai adapts the go-openai SDK to llm.Client. A custom base URL
// points it at any OpenAI-compatible endpoint.
package openai

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/themobileprof/fitzone-bot/pkg/llm"
)

const DefaultModel = goopenai.GPT4oMini

// Config holds configuration for the OpenAI client
type Config struct {
	APIKey  string
	BaseURL string        // Default: SDK default (https://api.openai.com/v1)
	Model   string        // Default: gpt-4o-mini
	Timeout time.Duration // Default: 30s
}

// Client implements llm.Client on top of go-openai.
type Client struct {
	sdk    *goopenai.Client
	apiKey string
	model  string
}

var _ llm.Client = (*Client)(nil)

// NewClient creates a new OpenAI client
func NewClient(config Config) *Client {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	sdkConfig := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		sdkConfig.BaseURL = config.BaseURL
	}
	sdkConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Client{
		sdk:    goopenai.NewClientWithConfig(sdkConfig),
		apiKey: config.APIKey,
		model:  config.Model,
	}
}

// ChatCompletion implements llm.Client.ChatCompletion
func (c *Client) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if c.apiKey == "" {
		return nil, llm.ErrMissingAPIKey
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}

	// the SDK omits a zero temperature, which the API reads as 1
	temperature := float32(req.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.sdk.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, llm.ErrNoChoices
	}

	out := &llm.ChatResponse{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, choice := range resp.Choices {
		out.Choices = append(out.Choices, llm.Choice{
			Index:        choice.Index,
			Message:      llm.ChatMessage{Role: choice.Message.Role, Content: choice.Message.Content},
			FinishReason: string(choice.FinishReason),
		})
	}
	return out, nil
}
