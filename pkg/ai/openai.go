package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIService implements SummarizerService with the chat completions API.
// It also serves OpenAI-compatible endpoints through baseURL.
type OpenAIService struct {
	client openai.Client
	model  string
}

func NewOpenAIService(apiKey, model, baseURL string) (*OpenAIService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("OPENAI_API_KEY is required for OpenAI provider")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}

	return &OpenAIService{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (s *OpenAIService) Name() string { return "openai/" + s.model }

func (s *OpenAIService) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
