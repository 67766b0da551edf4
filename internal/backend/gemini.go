package backend

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiBackend implements Backend using the Gemini API. It is the usual
// fallback when OpenAI is the primary backend.
type GeminiBackend struct {
	client *genai.Client
	config *Config
}

// NewGeminiBackend creates a new Gemini translator backend. The client is
// created lazily on first use because genai.NewClient needs a context.
func NewGeminiBackend(config *Config) *GeminiBackend {
	return &GeminiBackend{config: config}
}

func (b *GeminiBackend) ensureClient(ctx context.Context) error {
	if b.client != nil {
		return nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  b.config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	b.client = client
	return nil
}

// Translate sends one text unit through the Gemini generate-content API.
func (b *GeminiBackend) Translate(ctx context.Context, req Request) (string, error) {
	if b.config.GeminiKey == "" {
		return "", fmt.Errorf("Gemini API key not found")
	}
	if err := b.ensureClient(ctx); err != nil {
		return "", err
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(b.config.Temperature),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.config.GeminiModel,
		genai.Text(BuildPrompt(req)), genConfig)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no translation returned")
	}

	return CleanResponse(text), nil
}

// Name returns the backend name.
func (b *GeminiBackend) Name() string {
	return "gemini"
}

// IsAvailable checks that the backend is configured.
func (b *GeminiBackend) IsAvailable() error {
	if b.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}
