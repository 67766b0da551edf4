package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend implements Backend using the OpenAI chat completion API.
type OpenAIBackend struct {
	client *openai.Client
	config *Config
}

// NewOpenAIBackend creates a new OpenAI translator backend.
func NewOpenAIBackend(config *Config) *OpenAIBackend {
	var client *openai.Client
	if config.OpenAIBaseURL != "" {
		clientConfig := openai.DefaultConfig(config.OpenAIKey)
		clientConfig.BaseURL = config.OpenAIBaseURL
		client = openai.NewClientWithConfig(clientConfig)
	} else {
		client = openai.NewClient(config.OpenAIKey)
	}

	return &OpenAIBackend{
		client: client,
		config: config,
	}
}

// Translate sends one text unit through the chat completion endpoint.
func (b *OpenAIBackend) Translate(ctx context.Context, req Request) (string, error) {
	if b.config.OpenAIKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	chatReq := openai.ChatCompletionRequest{
		Model: b.config.OpenAIModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a professional technical document translator.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req),
			},
		},
		MaxTokens:   b.config.MaxTokens,
		Temperature: b.config.Temperature,
	}

	resp, err := b.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return CleanResponse(strings.TrimSpace(resp.Choices[0].Message.Content)), nil
}

// Name returns the backend name.
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// IsAvailable checks that the backend is configured. No test call is made;
// that would spend credits.
func (b *OpenAIBackend) IsAvailable() error {
	if b.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}
