// Package backend defines the translator backend contract and its OpenAI
// and Gemini implementations. The orchestrator never inspects concrete
// backend types; everything goes through the single Translate capability.
package backend

import (
	"context"
	"fmt"
)

// Request carries one text unit into a backend call. Terminology, when
// present, is injected into the prompt so the model respects approved
// translations it is asked to produce around placeholders.
type Request struct {
	Text        string
	SourceLang  string
	TargetLang  string
	Terminology map[string]string
	Prompt      string // optional extra instruction appended to the prompt
}

// Backend is the single capability every translator variant implements.
type Backend interface {
	// Translate returns the translated text. It errors on unrecoverable
	// failure (auth, malformed request); a low-quality result is still
	// returned as a string for the orchestrator to judge.
	Translate(ctx context.Context, req Request) (string, error)

	// Name returns the backend name.
	Name() string

	// IsAvailable checks if the backend is properly configured.
	IsAvailable() error
}

// Config holds common configuration for translator backends.
type Config struct {
	Provider string // "openai" or "gemini"

	// OpenAI-specific settings
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string

	Temperature float32
	MaxTokens   int
}

// DefaultConfig returns default backend configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
		Temperature: 0.3,
		MaxTokens:   4096,
	}
}

// New creates the appropriate translator backend based on configuration.
func New(config *Config) (Backend, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIBackend(config), nil

	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiBackend(config), nil

	default:
		return nil, fmt.Errorf("unknown translator backend: %s", config.Provider)
	}
}
