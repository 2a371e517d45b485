package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("no summary returned")

type GeminiService struct {
	client *genai.Client
	model  string
}

func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required for Gemini provider")
	}
	if model == "" {
		model = DefaultModel
	}

	return newGeminiService(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newGeminiService(ctx context.Context, cc *genai.ClientConfig, model string) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiService{client: client, model: model}, nil
}

// Summarize sends prompt as a single user turn and returns the response text.
func (g *GeminiService) Summarize(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *GeminiService) Name() string { return "gemini/" + g.model }
