package provider

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/tenang/internal/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI calls the chat completions API with the prompt as a single user message.
type OpenAI struct {
	client    openai.Client
	model     string
	retryTime time.Duration
}

// NewOpenAI creates an OpenAI provider. The SDK's own retries are disabled;
// rateLimitRetry bounds 429 retries instead.
func NewOpenAI(cfg config.ProviderConfig, rateLimitRetry time.Duration) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		retryTime: rateLimitRetry,
	}
}

// Name returns "openai".
func (o *OpenAI) Name() string { return "openai" }

// Generate returns the first choice's content, or the raw response when it is empty.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	return retryRateLimited(ctx, o.retryTime, func() (string, error) {
		resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Model: openai.ChatModel(o.model),
		})
		if err != nil {
			var apiErr *openai.Error
			if errors.As(err, &apiErr) {
				return "", &StatusError{Provider: o.Name(), StatusCode: apiErr.StatusCode, Body: apiErr.Message}
			}
			return "", err
		}
		if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
			return resp.Choices[0].Message.Content, nil
		}
		return resp.RawJSON(), nil
	})
}
