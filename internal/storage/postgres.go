package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hyperjump/tenang/internal/models"
)

// PostgresStorage implements Storage using PostgreSQL through the pgx driver.
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage connects to dsn and creates the bookings table if needed.
func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bookings (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			ref TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			preferred TEXT,
			notes TEXT,
			source TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &PostgresStorage{db: db}, nil
}

// AppendBooking inserts rec.
func (s *PostgresStorage) AppendBooking(ctx context.Context, rec *models.BookingRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (id, ref, name, phone, preferred, notes, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Ref, rec.Name, rec.Phone, rec.Preferred, rec.Notes, rec.Source, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// ListBookings returns all bookings in insertion order.
func (s *PostgresStorage) ListBookings(ctx context.Context) ([]*models.BookingRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ref, name, phone, preferred, notes, source, created_at
		 FROM bookings ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// Close closes the connection pool.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
