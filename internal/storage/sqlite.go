package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/tenang/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS bookings (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		ref TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		preferred TEXT,
		notes TEXT,
		source TEXT,
		created_at TIMESTAMP NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// AppendBooking inserts rec.
func (s *SQLiteStorage) AppendBooking(ctx context.Context, rec *models.BookingRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (id, ref, name, phone, preferred, notes, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Ref, rec.Name, rec.Phone, rec.Preferred, rec.Notes, rec.Source, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// ListBookings returns all bookings in insertion order.
func (s *SQLiteStorage) ListBookings(ctx context.Context) ([]*models.BookingRecord, error) {
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

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func scanBookings(rows *sql.Rows) ([]*models.BookingRecord, error) {
	records := []*models.BookingRecord{}
	for rows.Next() {
		var rec models.BookingRecord
		var preferred, notes, source sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Ref, &rec.Name, &rec.Phone, &preferred, &notes, &source, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Preferred = preferred.String
		rec.Notes = notes.String
		rec.Source = source.String
		records = append(records, &rec)
	}
	return records, rows.Err()
}
