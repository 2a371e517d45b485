package ai

import (
	"context"

	"summarizer-backend/pkg/gemini"
)

// SummarizerService is the interface for text generation providers.
// Implement this interface to add new AI providers.
type SummarizerService interface {
	// Summarize performs one request/response call for prompt.
	Summarize(ctx context.Context, prompt string) (string, error)
	// Name identifies provider and model in logs.
	Name() string
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini    ProviderType = "gemini"
	ProviderOllama    ProviderType = "ollama"
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
)

// ErrEmptyResponse is returned when a provider answers with no text.
var ErrEmptyResponse = gemini.ErrEmptyResponse
