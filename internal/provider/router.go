package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Result is a successful generation and the provider that produced it.
type Result struct {
	Text     string
	Provider string
	Attempts int
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTimeout bounds each provider call. Zero means no per-call deadline.
func WithTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		r.timeout = d
	}
}

// WithLogger sets the logger used for failover messages.
func WithLogger(logger *zap.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// Router distributes calls round-robin across providers and fails over to the
// next distinct provider on error. The cursor persists across calls.
type Router struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger

	mu     sync.Mutex
	cursor int
}

// NewRouter creates a router over providers in the given order.
func NewRouter(providers []Provider, opts ...RouterOption) *Router {
	r := &Router{
		providers: providers,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Len returns the number of providers.
func (r *Router) Len() int {
	return len(r.providers)
}

// Names returns provider names in routing order.
func (r *Router) Names() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

func (r *Router) next() Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.providers[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.providers)
	return p
}

// Generate tries up to min(maxAttempts, Len()) providers. Each attempt takes the
// provider under the cursor and advances it; a provider already tried in this
// call is skipped and the attempt is spent. The first success is returned.
// When every attempt fails the error wraps ErrAllProvidersFailed and the last
// provider error.
func (r *Router) Generate(ctx context.Context, prompt string, maxAttempts int) (*Result, error) {
	if len(r.providers) == 0 {
		return nil, ErrNoProviders
	}
	attempts := min(maxAttempts, len(r.providers))
	tried := make(map[string]struct{}, attempts)
	var lastErr error

	for i := 0; i < attempts; i++ {
		p := r.next()
		if _, ok := tried[p.Name()]; ok {
			continue
		}
		tried[p.Name()] = struct{}{}

		text, err := r.call(ctx, p, prompt)
		if err == nil {
			return &Result{Text: text, Provider: p.Name(), Attempts: len(tried)}, nil
		}
		lastErr = err
		r.logger.Warn("provider failed",
			zap.String("provider", p.Name()),
			zap.Int("attempt", i+1),
			zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}

	if lastErr == nil {
		return nil, ErrAllProvidersFailed
	}
	return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

func (r *Router) call(ctx context.Context, p Provider, prompt string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return p.Generate(ctx, prompt)
}
