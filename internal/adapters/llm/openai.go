package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/PabloGalante/sequential-thinking/internal/domain"
)

// OpenAIClient sends single-prompt requests to the Chat Completions API.
type OpenAIClient struct {
	client    *openai.Client
	modelName string
}

// NewOpenAIClient builds a client. An empty apiKey falls back to the
// OPENAI_API_KEY variable read by the SDK.
func NewOpenAIClient(apiKey, modelName string, opts ...option.RequestOption) *OpenAIClient {
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := openai.NewClient(opts...)
	return NewOpenAIClientFromClient(&client, modelName)
}

func NewOpenAIClientFromClient(client *openai.Client, modelName string) *OpenAIClient {
	if modelName == "" {
		modelName = openai.ChatModelGPT4
	}
	return &OpenAIClient{client: client, modelName: modelName}
}

func (c *OpenAIClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.modelName
	}

	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("openai returned empty text")
	}
	return text, nil
}
