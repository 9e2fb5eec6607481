package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider classifies through the chat completions API.
type OpenAIProvider struct {
	APIKey string
	Model  string
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Classify(ctx context.Context, text string) (Result, error) {
	if p.APIKey == "" {
		return Result{}, errors.New("openai api key not set")
	}
	model := p.Model
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}

	client := openai.NewClient(option.WithAPIKey(p.APIKey))
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(prompt, text)),
		},
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return Result{}, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("openai returned no choices")
	}
	return parseResult(resp.Choices[0].Message.Content)
}
