package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hyperjump/tenang/internal/config"
)

const defaultGoogleBaseURL = "https://generativelanguage.googleapis.com/v1beta2"

// Google calls the Generative Language generateText endpoint.
type Google struct {
	apiKey    string
	model     string
	baseURL   string
	client    *http.Client
	retryTime time.Duration
}

// NewGoogle creates a Google provider. rateLimitRetry bounds 429 retries.
func NewGoogle(cfg config.ProviderConfig, rateLimitRetry time.Duration) *Google {
	base := cfg.BaseURL
	if base == "" {
		base = defaultGoogleBaseURL
	}
	return &Google{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		baseURL:   strings.TrimRight(base, "/"),
		client:    &http.Client{},
		retryTime: rateLimitRetry,
	}
}

// Name returns "google".
func (g *Google) Name() string { return "google" }

type googleRequest struct {
	Prompt struct {
		Text string `json:"text"`
	} `json:"prompt"`
	Temperature    float64 `json:"temperature"`
	CandidateCount int     `json:"candidateCount"`
}

type googleResponse struct {
	Candidates []struct {
		Output string `json:"output"`
	} `json:"candidates"`
}

// Generate returns the first candidate's output, or the raw body when it has none.
func (g *Google) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateText?key=%s", g.baseURL, g.model, url.QueryEscape(g.apiKey))
	var body googleRequest
	body.Prompt.Text = prompt
	body.Temperature = 0.7
	body.CandidateCount = 1

	raw, err := retryRateLimited(ctx, g.retryTime, func() ([]byte, error) {
		return postJSON(ctx, g.client, g.Name(), endpoint, nil, body)
	})
	if err != nil {
		return "", err
	}
	var resp googleResponse
	if err := json.Unmarshal(raw, &resp); err == nil && len(resp.Candidates) > 0 && resp.Candidates[0].Output != "" {
		return resp.Candidates[0].Output, nil
	}
	return string(raw), nil
}
