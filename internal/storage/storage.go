// Package storage defines the persistence interface for booking requests.
package storage

import (
	"context"
	"fmt"

	"github.com/hyperjump/tenang/internal/config"
	"github.com/hyperjump/tenang/internal/models"
)

// Storage persists booking records.
type Storage interface {
	// AppendBooking stores rec. Records are never updated or deleted.
	AppendBooking(ctx context.Context, rec *models.BookingRecord) error
	// ListBookings returns all records in the order they were stored.
	ListBookings(ctx context.Context) ([]*models.BookingRecord, error)

	Close() error
}

// Open creates the Storage selected by cfg.Backend.
func Open(cfg config.BookingConfig) (Storage, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStorage(cfg.Path), nil
	case "sqlite":
		return NewSQLiteStorage(cfg.Path)
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires booking.dsn")
		}
		s, err := NewPostgresStorage(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown booking backend %q", cfg.Backend)
	}
}
