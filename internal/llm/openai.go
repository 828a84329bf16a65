package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ChatProvider talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, DeepSeek, Groq, OpenRouter, gateways) through the openai-go SDK.
type ChatProvider struct {
	name   string
	model  string
	client openai.Client
}

func NewChatProvider(name, apiKey, baseURL, model string, opts ...option.RequestOption) *ChatProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// One attempt per submission; failures go straight back to the user.
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		base = append(base, option.WithBaseURL(baseURL))
	}
	return &ChatProvider{
		name:   name,
		model:  model,
		client: openai.NewClient(append(base, opts...)...),
	}
}

func (c *ChatProvider) Name() string {
	return c.name
}

func (c *ChatProvider) Ping(ctx context.Context) error {
	if _, err := c.client.Models.List(ctx); err != nil {
		return fmt.Errorf("cannot connect to %s API: %w", c.name, err)
	}
	return nil
}

func (c *ChatProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toChatMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(c.name + ": empty choices")
	}

	return &CompletionResponse{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func toChatMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
