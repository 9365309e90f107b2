// Package provider routes generation requests across external text-generation services.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hyperjump/tenang/internal/config"
)

var (
	// ErrNoProviders is returned when the router has nothing configured.
	ErrNoProviders = errors.New("no providers configured")
	// ErrAllProvidersFailed is returned when every attempt in one call failed.
	ErrAllProvidersFailed = errors.New("all providers failed")
)

// Provider generates text for a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// StatusError is a non-2xx response from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// RateLimited reports whether the provider asked the caller to slow down.
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == 429
}

// FromConfig builds the configured providers in routing order: google, openai,
// huggingface. Providers without an API key are skipped.
func FromConfig(cfg config.ProvidersConfig) []Provider {
	var out []Provider
	if cfg.Google.APIKey != "" {
		out = append(out, NewGoogle(cfg.Google, cfg.RateLimitRetry))
	}
	if cfg.OpenAI.APIKey != "" {
		out = append(out, NewOpenAI(cfg.OpenAI, cfg.RateLimitRetry))
	}
	if cfg.HuggingFace.APIKey != "" {
		out = append(out, NewHuggingFace(cfg.HuggingFace, cfg.RateLimitRetry))
	}
	return out
}

// retryRateLimited runs op, retrying with exponential backoff while it fails with
// a 429 StatusError and maxElapsed has not passed. Other errors return at once.
func retryRateLimited[T any](ctx context.Context, maxElapsed time.Duration, op func() (T, error)) (T, error) {
	if maxElapsed <= 0 {
		return op()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = maxElapsed
	return backoff.RetryWithData(func() (T, error) {
		v, err := op()
		if err == nil {
			return v, nil
		}
		var se *StatusError
		if errors.As(err, &se) && se.RateLimited() {
			return v, err
		}
		return v, backoff.Permanent(err)
	}, backoff.WithContext(b, ctx))
}
