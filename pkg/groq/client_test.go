package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/themobileprof/fitzone-bot/pkg/llm"
)

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantBaseURL string
		wantModel   string
		wantTimeout time.Duration
	}{
		{
			name:        "default configuration",
			config:      Config{APIKey: "test-key"},
			wantBaseURL: DefaultBaseURL,
			wantModel:   DefaultModel,
			wantTimeout: 30 * time.Second,
		},
		{
			name: "custom configuration",
			config: Config{
				APIKey:  "test-key",
				BaseURL: "https://custom.api.com",
				Model:   "mixtral-8x7b-32768",
				Timeout: 60 * time.Second,
			},
			wantBaseURL: "https://custom.api.com",
			wantModel:   "mixtral-8x7b-32768",
			wantTimeout: 60 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewHTTPClient(tt.config)

			if client.baseURL != tt.wantBaseURL {
				t.Errorf("baseURL = %v, want %v", client.baseURL, tt.wantBaseURL)
			}
			if client.model != tt.wantModel {
				t.Errorf("model = %v, want %v", client.model, tt.wantModel)
			}
			if client.timeout != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v", client.timeout, tt.wantTimeout)
			}
			if client.httpClient == nil {
				t.Error("httpClient is nil")
			}
		})
	}
}

func TestHTTPClient_ChatCompletion(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse string
		statusCode     int
		wantError      bool
		wantContent    string
	}{
		{
			name:       "successful completion",
			statusCode: http.StatusOK,
			serverResponse: `{
				"id": "chatcmpl-123",
				"object": "chat.completion",
				"created": 1234567890,
				"model": "llama-3.3-70b-versatile",
				"choices": [{
					"index": 0,
					"message": {"role": "assistant", "content": "  We open at 5 AM!  "},
					"finish_reason": "stop"
				}],
				"usage": {"prompt_tokens": 10, "completion_tokens": 8, "total_tokens": 18}
			}`,
			wantContent: "We open at 5 AM!",
		},
		{
			name:           "API error response",
			statusCode:     http.StatusUnauthorized,
			serverResponse: `{"error": {"message": "Invalid API Key"}}`,
			wantError:      true,
		},
		{
			name:           "malformed JSON response",
			statusCode:     http.StatusOK,
			serverResponse: `{invalid json}`,
			wantError:      true,
		},
		{
			name:           "no choices",
			statusCode:     http.StatusOK,
			serverResponse: `{"id": "x", "choices": []}`,
			wantError:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("Expected POST request, got %s", r.Method)
				}
				if r.URL.Path != "/chat/completions" {
					t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
				}
				if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
					t.Errorf("Expected Authorization header with Bearer token")
				}

				var req llm.ChatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode request: %v", err)
				}
				if req.Model != DefaultModel {
					t.Errorf("model = %q, want default", req.Model)
				}
				if req.Stream {
					t.Error("expected non-streaming request")
				}

				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.serverResponse))
			}))
			defer server.Close()

			client := NewHTTPClient(Config{
				APIKey:  "test-api-key",
				BaseURL: server.URL,
				Timeout: 5 * time.Second,
			})

			resp, err := client.ChatCompletion(context.Background(), llm.ChatRequest{
				Messages:    []llm.ChatMessage{{Role: llm.RoleUser, Content: "When do you open?"}},
				Temperature: 0.7,
				MaxTokens:   500,
			})

			if tt.wantError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ChatCompletion() error = %v", err)
			}

			got, err := resp.Text()
			if err != nil {
				t.Fatalf("Text() error = %v", err)
			}
			if got != tt.wantContent {
				t.Errorf("content = %q, want %q", got, tt.wantContent)
			}
		})
	}
}

func TestHTTPClient_MissingAPIKey(t *testing.T) {
	client := NewHTTPClient(Config{})

	_, err := client.ChatCompletion(context.Background(), llm.ChatRequest{})
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewHTTPClient(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ChatCompletion(ctx, llm.ChatRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestHTTPClient_SendsZeroTemperature(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if temp, ok := body["temperature"]; !ok || temp != float64(0) {
			t.Errorf("temperature = %v (present %v), want 0", temp, ok)
		}
		w.Write([]byte(`{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5 * time.Second})
	if _, err := client.ChatCompletion(context.Background(), llm.ChatRequest{
		Messages: []llm.ChatMessage{{Role: llm.RoleUser, Content: "hi"}},
	}); err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
}
