package ai

import (
	"context"
	"fmt"
	"strings"

	"summarizer-backend/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType

	GeminiAPIKey string
	GeminiModel  string

	// Ollama settings can change at runtime; the getters win over the static values.
	OllamaBaseURL    string
	OllamaModel      string
	GetOllamaBaseURL func() string
	GetOllamaModel   func() string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	AnthropicAPIKey string
	AnthropicModel  string
}

// NewSummarizerService creates a SummarizerService based on the config.
// Switch AI provider by changing cfg.Provider.
func NewSummarizerService(ctx context.Context, cfg Config) (SummarizerService, error) {
	switch ProviderType(strings.ToLower(strings.TrimSpace(string(cfg.Provider)))) {
	case ProviderGemini, "":
		svc, err := gemini.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return svc, nil

	case ProviderOllama:
		if cfg.GetOllamaBaseURL != nil && cfg.GetOllamaModel != nil {
			return NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel), nil
		}
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	case ProviderOpenAI:
		svc, err := NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return svc, nil

	case ProviderAnthropic:
		svc, err := NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
