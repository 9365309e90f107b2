package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hyperjump/tenang/internal/config"
)

const defaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"

// HuggingFace calls the hosted inference API for a text-generation model.
type HuggingFace struct {
	apiKey    string
	model     string
	baseURL   string
	client    *http.Client
	retryTime time.Duration
}

// NewHuggingFace creates a HuggingFace provider. rateLimitRetry bounds 429 retries.
func NewHuggingFace(cfg config.ProviderConfig, rateLimitRetry time.Duration) *HuggingFace {
	base := cfg.BaseURL
	if base == "" {
		base = defaultHuggingFaceBaseURL
	}
	return &HuggingFace{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		baseURL:   strings.TrimRight(base, "/"),
		client:    &http.Client{},
		retryTime: rateLimitRetry,
	}
}

// Name returns "huggingface".
func (h *HuggingFace) Name() string { return "huggingface" }

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// Generate returns generated_text from either response shape the API uses
// (a list of generations or a single object), or the raw body otherwise.
func (h *HuggingFace) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint := h.baseURL + "/models/" + h.model
	headers := map[string]string{"Authorization": "Bearer " + h.apiKey}
	body := map[string]any{
		"inputs":     prompt,
		"parameters": map[string]any{"max_new_tokens": 300},
	}

	raw, err := retryRateLimited(ctx, h.retryTime, func() ([]byte, error) {
		return postJSON(ctx, h.client, h.Name(), endpoint, headers, body)
	})
	if err != nil {
		return "", err
	}
	return extractGeneratedText(raw), nil
}

func extractGeneratedText(raw []byte) string {
	var list []hfGeneration
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 && list[0].GeneratedText != "" {
		return list[0].GeneratedText
	}
	var single hfGeneration
	if err := json.Unmarshal(raw, &single); err == nil && single.GeneratedText != "" {
		return single.GeneratedText
	}
	return string(raw)
}
