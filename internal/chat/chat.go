// Package chat orchestrates safety screening, retrieval, prompting and generation
// for a single user message.
package chat

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperjump/tenang/internal/models"
	"github.com/hyperjump/tenang/internal/prompt"
	"github.com/hyperjump/tenang/internal/provider"
	"github.com/hyperjump/tenang/internal/safety"
	"github.com/hyperjump/tenang/pkg/utils"
	"go.uber.org/zap"
)

// ErrEmptyMessage is returned for a missing or whitespace-only message.
var ErrEmptyMessage = models.ErrEmptyMessage

var bookingIntent = regexp.MustCompile(`(?i)\b(book|appointment|session|slot)`)

// Retriever returns the documents most relevant to a query.
type Retriever interface {
	TopK(query string, k int) []models.Document
}

// Generator produces text for a prompt, failing over between providers.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxAttempts int) (*provider.Result, error)
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithBookingURL sets the link attached to replies that mention booking.
func WithBookingURL(url string) ServiceOption {
	return func(s *Service) {
		s.bookingURL = url
	}
}

// WithTopK sets how many documents are retrieved per message.
func WithTopK(k int) ServiceOption {
	return func(s *Service) {
		s.topK = k
	}
}

// WithMaxAttempts sets the provider attempts per message.
func WithMaxAttempts(n int) ServiceOption {
	return func(s *Service) {
		s.maxAttempts = n
	}
}

// Service answers chat messages.
type Service struct {
	retriever   Retriever
	generator   Generator
	logger      *zap.Logger
	bookingURL  string
	topK        int
	maxAttempts int
}

// NewService creates a chat service. generator may be nil, in which case every
// non-emergency message gets the demo reply.
func NewService(retriever Retriever, generator Generator, opts ...ServiceOption) *Service {
	s := &Service{
		retriever:   retriever,
		generator:   generator,
		logger:      zap.NewNop(),
		topK:        prompt.MaxContextDocs,
		maxAttempts: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reply answers message. Emergency messages get the fixed safety reply without
// retrieval or generation. When no provider succeeds the reply is a demo answer
// echoing the message, so only an empty message is an error.
func (s *Service) Reply(ctx context.Context, message string) (*models.ChatResponse, error) {
	req := models.ChatRequest{Message: message}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if safety.IsEmergency(message) {
		s.logger.Warn("emergency message detected", utils.MessagePreview(message))
		return &models.ChatResponse{Reply: safety.Reply(), Emergency: true}, nil
	}

	docs := s.retriever.TopK(message, s.topK)
	sources := make([]string, len(docs))
	for i, d := range docs {
		sources[i] = d.ID
	}

	resp := &models.ChatResponse{Sources: sources}
	result, err := s.generate(ctx, prompt.Build(docs, message))
	if err != nil {
		s.logger.Info("serving demo reply",
			zap.Error(err),
			zap.Strings("sources", sources))
		resp.Reply = DemoReply(message, sources)
	} else {
		resp.Reply = result.Text
		resp.Provider = result.Provider
	}

	if s.bookingURL != "" && bookingIntent.MatchString(message) {
		resp.Booking = &models.BookingLink{URL: s.bookingURL}
	}
	return resp, nil
}

func (s *Service) generate(ctx context.Context, p string) (*provider.Result, error) {
	if s.generator == nil {
		return nil, provider.ErrNoProviders
	}
	result, err := s.generator.Generate(ctx, p, s.maxAttempts)
	if err != nil {
		if !errors.Is(err, provider.ErrNoProviders) {
			s.logger.Warn("generation failed", zap.Error(err))
		}
		return nil, err
	}
	return result, nil
}

// DemoReply is the deterministic answer used when no provider is available.
func DemoReply(message string, sources []string) string {
	related := "none found"
	if len(sources) > 0 {
		related = strings.Join(sources, ", ")
	}
	return fmt.Sprintf("(demo mode) No AI service is available right now, but I hear you. "+
		"You said: %q. Related notes: %s.", strings.TrimSpace(message), related)
}
