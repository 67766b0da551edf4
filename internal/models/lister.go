package models

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// ListAvailableModels lists the chat models usable for translation.
func (l *Lister) ListAvailableModels() error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .doctrans.yaml")
	}

	ctx := context.Background()
	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	chatModels := filterChatModels(ids)

	fmt.Println("Available OpenAI chat models for translation:")
	if len(chatModels) == 0 {
		fmt.Println("  No chat models found")
		return nil
	}

	if len(chatModels) > 10 {
		// Show only the models people actually translate with
		relevantModels := []string{}
		for _, model := range chatModels {
			if strings.Contains(model, "gpt-4") || strings.Contains(model, "gpt-3.5") {
				relevantModels = append(relevantModels, model)
			}
		}
		for _, model := range relevantModels {
			fmt.Printf("  %s\n", model)
		}
		fmt.Printf("  ... and %d more models\n", len(chatModels)-len(relevantModels))
	} else {
		for _, model := range chatModels {
			fmt.Printf("  %s\n", model)
		}
	}

	return nil
}

// filterChatModels keeps the model IDs usable for chat translation,
// sorted. TTS, audio, image, embedding and transcription models are out
// even when their ID also carries a "gpt" marker.
func filterChatModels(ids []string) []string {
	chatModels := []string{}
	for _, id := range ids {
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") ||
			strings.Contains(id, "dall-e") || strings.Contains(id, "whisper") ||
			strings.Contains(id, "embedding") {
			continue
		}
		if strings.Contains(id, "gpt") || strings.Contains(id, "chat") {
			chatModels = append(chatModels, id)
		}
	}
	sort.Strings(chatModels)
	return chatModels
}
