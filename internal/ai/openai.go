package ai

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Compile-time interface check.
var _ Completer = (*OpenAIProvider)(nil)

// OpenAIProvider implements Completer using the Chat Completions API. It
// also serves Ollama and other OpenAI-compatible endpoints through a base URL.
type OpenAIProvider struct {
	name   string
	client openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAIProvider. baseURL may be empty for the
// public OpenAI endpoint.
func NewOpenAIProvider(name, apiKey, baseURL, model string) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIProvider{
		name:   name,
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Complete sends the prompts as a system and a user message and returns the
// content of the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	slog.Debug("calling chat completions", "provider", p.name, "model", p.model)

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: messages,
	})
	if err != nil {
		return "", unavailable(p.name, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", unavailable(p.name, errEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
