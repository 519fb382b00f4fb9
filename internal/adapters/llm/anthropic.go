package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/PabloGalante/sequential-thinking/internal/domain"
)

// AnthropicClient sends single-prompt requests to the Messages API.
type AnthropicClient struct {
	client    *anthropic.Client
	modelName string
}

func NewAnthropicClient(apiKey, modelName string, opts ...option.RequestOption) *AnthropicClient {
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return NewAnthropicClientFromClient(&client, modelName)
}

func NewAnthropicClientFromClient(client *anthropic.Client, modelName string) *AnthropicClient {
	if modelName == "" {
		modelName = string(anthropic.ModelClaude3_5Sonnet20241022)
	}
	return &AnthropicClient{client: client, modelName: modelName}
}

func (c *AnthropicClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.modelName
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		// The Messages API rejects requests without a bound.
		maxTokens = 1024
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}

	text := sb.String()
	if text == "" {
		return "", fmt.Errorf("anthropic returned empty text")
	}
	return text, nil
}
