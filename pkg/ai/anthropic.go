package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 1024

// AnthropicService implements SummarizerService with the Messages API.
type AnthropicService struct {
	client anthropic.Client
	model  string
}

func NewAnthropicService(apiKey, model string, extra ...option.RequestOption) (*AnthropicService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is required for Anthropic provider")
	}
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}

	opts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, extra...)

	return &AnthropicService{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

func (s *AnthropicService) Name() string { return "anthropic/" + s.model }

func (s *AnthropicService) Summarize(ctx context.Context, prompt string) (string, error) {
	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
