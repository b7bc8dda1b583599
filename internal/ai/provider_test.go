package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hoanghai1803/adcraft/internal/apperr"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErr  error
		wantType string
	}{
		{
			name:     "ollama without key or base URL",
			cfg:      Config{Provider: ProviderOllama, Model: "gemma3:4b"},
			wantType: "*ai.OpenAIProvider",
		},
		{
			name:     "compatible provider",
			cfg:      Config{Provider: ProviderCompatible, APIKey: "k", BaseURL: "https://openrouter.ai/api/v1", Model: "m"},
			wantType: "*ai.OpenAIProvider",
		},
		{
			name:    "compatible without base URL",
			cfg:     Config{Provider: ProviderCompatible, APIKey: "k", Model: "m"},
			wantErr: ErrMissingBaseURL,
		},
		{
			name:     "openai provider",
			cfg:      Config{Provider: ProviderOpenAI, APIKey: "test-key", Model: "gpt-4o-mini"},
			wantType: "*ai.OpenAIProvider",
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: ProviderOpenAI, Model: "gpt-4o-mini"},
			wantErr: ErrMissingAPIKey,
		},
		{
			name:     "anthropic provider",
			cfg:      Config{Provider: ProviderAnthropic, APIKey: "test-key", Model: "claude-haiku-4-5"},
			wantType: "*ai.AnthropicProvider",
		},
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: ProviderAnthropic, Model: "claude-haiku-4-5"},
			wantErr: ErrMissingAPIKey,
		},
		{
			name:     "gemini provider",
			cfg:      Config{Provider: ProviderGemini, APIKey: "test-key", Model: "gemini-2.5-flash"},
			wantType: "*ai.GeminiProvider",
		},
		{
			name:    "missing model",
			cfg:     Config{Provider: ProviderOpenAI, APIKey: "test-key"},
			wantErr: ErrMissingModel,
		},
		{
			name:    "unsupported provider",
			cfg:     Config{Provider: "invalid", APIKey: "test-key", Model: "m"},
			wantErr: ErrInvalidProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(context.Background(), tt.cfg)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if provider != nil {
					t.Fatal("expected nil provider when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch tt.wantType {
			case "*ai.OpenAIProvider":
				p, ok := provider.(*OpenAIProvider)
				if !ok {
					t.Fatalf("expected *OpenAIProvider, got %T", provider)
				}
				if p.Name() != tt.cfg.Provider {
					t.Errorf("Name() = %q, want %q", p.Name(), tt.cfg.Provider)
				}
			case "*ai.AnthropicProvider":
				if _, ok := provider.(*AnthropicProvider); !ok {
					t.Errorf("expected *AnthropicProvider, got %T", provider)
				}
			case "*ai.GeminiProvider":
				if _, ok := provider.(*GeminiProvider); !ok {
					t.Errorf("expected *GeminiProvider, got %T", provider)
				}
			}
		})
	}
}

func TestNewProviderOrUnavailable(t *testing.T) {
	p := NewProviderOrUnavailable(context.Background(), Config{Provider: ProviderAnthropic, Model: "claude-haiku-4-5"})

	if p.Name() != ProviderAnthropic {
		t.Errorf("Name() = %q, want %q", p.Name(), ProviderAnthropic)
	}

	_, err := p.Complete(context.Background(), "", "hello")
	if apperr.KindOf(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected cause ErrMissingAPIKey, got %v", err)
	}
}

const chatCompletionJSON = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gemma3:4b",
  "choices": [{
    "index": 0,
    "message": {"role": "assistant", "content": "**1. Reklam Başlıkları (1 adet):**\n- Merhaba"},
    "finish_reason": "stop"
  }]
}`

func TestOpenAIProviderComplete(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionJSON))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(ProviderOllama, "ollama", srv.URL+"/v1/", "gemma3:4b")
	text, err := p.Complete(context.Background(), "sistem", "istem")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if text != "**1. Reklam Başlıkları (1 adet):**\n- Merhaba" {
		t.Errorf("Complete() = %q", text)
	}
	for _, want := range []string{`"gemma3:4b"`, `"sistem"`, `"istem"`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request body missing %s: %s", want, gotBody)
		}
	}
}

func TestOpenAIProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"model not loaded"}}`},
		{"no choices", http.StatusOK, `{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			p := NewOpenAIProvider(ProviderCompatible, "k", srv.URL+"/v1/", "m")
			_, err := p.Complete(context.Background(), "", "istem")
			if apperr.KindOf(err) != apperr.KindUnavailable {
				t.Fatalf("expected unavailable error, got %v", err)
			}
		})
	}
}

func TestOpenAIProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewOpenAIProvider(ProviderOllama, "ollama", url+"/v1/", "gemma3:4b")
	_, err := p.Complete(context.Background(), "", "istem")
	if apperr.KindOf(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestAnthropicProviderComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"system"`) {
			t.Errorf("request should carry a system prompt: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "Merhaba "}, {"type": "text", "text": "dünya"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 3, "output_tokens": 2}
		}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("test-key", srv.URL, "claude-haiku-4-5")
	text, err := p.Complete(context.Background(), "sistem", "istem")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if text != "Merhaba dünya" {
		t.Errorf("Complete() = %q, want %q", text, "Merhaba dünya")
	}
}
