// Package server provides the HTTP API for Tenang.
package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/tenang/internal/chat"
	"github.com/hyperjump/tenang/internal/config"
	"github.com/hyperjump/tenang/internal/indexer"
	"github.com/hyperjump/tenang/internal/storage"
	"github.com/hyperjump/tenang/internal/vector"
	"go.uber.org/zap"
)

// Server is the HTTP server for the Tenang API.
type Server struct {
	chat      *chat.Service
	indexer   *indexer.Indexer
	store     *vector.Store
	bookings  storage.Storage
	refs      *storage.RefGenerator
	providers []string
	config    *config.Config
	logger    *zap.Logger
	now       func() time.Time
	server    *http.Server
}

// NewServer creates a server with the given dependencies. providers lists the
// configured generation services by name for the status endpoint. refs may be
// nil, in which case references start from the clock.
func NewServer(
	chatSvc *chat.Service,
	idx *indexer.Indexer,
	store *vector.Store,
	bookings storage.Storage,
	refs *storage.RefGenerator,
	providers []string,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if refs == nil {
		refs = storage.NewRefGenerator()
	}
	return &Server{
		chat:      chatSvc,
		indexer:   idx,
		store:     store,
		bookings:  bookings,
		refs:      refs,
		providers: providers,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	timeout := s.config.RequestTimeout()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/index", s.handleIndex)
		r.Post("/chat", s.handleChat)
		r.Post("/book", s.handleBook)
		if s.config.Booking.ExposeList {
			r.With(s.requireAdminToken).Get("/bookings", s.handleListBookings)
		}
	})
	return r
}

// requireAdminToken rejects requests without the configured bearer token.
// With no token configured every request passes.
func (s *Server) requireAdminToken(next http.Handler) http.Handler {
	token := s.config.Booking.AdminToken
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				s.respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr), zap.Strings("providers", s.providers))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
