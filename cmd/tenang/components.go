package main

import (
	"context"
	"fmt"

	"github.com/hyperjump/tenang/internal/chat"
	"github.com/hyperjump/tenang/internal/config"
	"github.com/hyperjump/tenang/internal/extract"
	"github.com/hyperjump/tenang/internal/indexer"
	"github.com/hyperjump/tenang/internal/provider"
	"github.com/hyperjump/tenang/internal/search"
	"github.com/hyperjump/tenang/internal/storage"
	"github.com/hyperjump/tenang/internal/vector"
	"go.uber.org/zap"
)

// Components holds initialized services.
type Components struct {
	Store    *vector.Store
	Indexer  *indexer.Indexer
	Router   *provider.Router
	Chat     *chat.Service
	Bookings storage.Storage
	Refs     *storage.RefGenerator
}

// Close releases the booking store, if one was opened.
func (c *Components) Close() {
	if c.Bookings != nil {
		_ = c.Bookings.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, withBookings bool) (*Components, error) {
	store := vector.NewStore()
	idx := indexer.NewIndexer(store, &cfg.Knowledge, extract.NewExtractor(), indexer.WithLogger(logger))

	router := provider.NewRouter(
		provider.FromConfig(cfg.Providers),
		provider.WithTimeout(cfg.Providers.Timeout),
		provider.WithLogger(logger),
	)
	if router.Len() == 0 {
		logger.Warn("no providers configured; serving demo replies")
	} else {
		logger.Info("providers configured", zap.Strings("providers", router.Names()))
	}

	chatSvc := chat.NewService(
		search.NewRetriever(store),
		router,
		chat.WithLogger(logger),
		chat.WithBookingURL(cfg.Booking.URL),
		chat.WithTopK(cfg.Knowledge.TopK),
		chat.WithMaxAttempts(cfg.Providers.MaxAttempts),
	)

	c := &Components{
		Store:   store,
		Indexer: idx,
		Router:  router,
		Chat:    chatSvc,
	}
	if withBookings {
		bookings, err := storage.Open(cfg.Booking)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize booking storage: %w", err)
		}
		refs, err := storage.NewRefGeneratorFrom(context.Background(), bookings)
		if err != nil {
			_ = bookings.Close()
			return nil, err
		}
		c.Bookings = bookings
		c.Refs = refs
	}
	return c, nil
}
