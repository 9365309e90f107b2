package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hyperjump/tenang/internal/models"
)

// FileStorage keeps bookings as a JSON array in a single file. Each append
// rewrites the file through a temp file and rename.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage creates a file store at path. The file is created on first append.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// AppendBooking adds rec to the end of the file.
func (s *FileStorage) AppendBooking(ctx context.Context, rec *models.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records = append(records, rec)
	return s.write(records)
}

// ListBookings returns all stored records. A missing file yields an empty list.
func (s *FileStorage) ListBookings(ctx context.Context) ([]*models.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Close is a no-op.
func (s *FileStorage) Close() error {
	return nil
}

func (s *FileStorage) read() ([]*models.BookingRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*models.BookingRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}
	records := []*models.BookingRecord{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse bookings: %w", err)
	}
	return records, nil
}

func (s *FileStorage) write(records []*models.BookingRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create bookings directory: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bookings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".bookings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write bookings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write bookings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace bookings file: %w", err)
	}
	return nil
}
