package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/tenang/internal/models"
)

// ErrInvalidBooking is returned when a booking request lacks a name or phone.
var ErrInvalidBooking = errors.New("invalid booking")

// RefGenerator issues booking references of the form "BK<unix millis>".
// References are strictly increasing: if the clock has not moved past the last
// issued value, the next one is last+1.
type RefGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewRefGenerator creates a generator using the wall clock.
func NewRefGenerator() *RefGenerator {
	return &RefGenerator{now: time.Now}
}

// Next returns a new unique reference.
func (g *RefGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return "BK" + strconv.FormatInt(ms, 10)
}

// Observe records ref as issued so later references sort after it. Values not
// of the form "BK<digits>" are ignored.
func (g *RefGenerator) Observe(ref string) {
	digits, ok := strings.CutPrefix(ref, "BK")
	if !ok {
		return
	}
	ms, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if ms > g.last {
		g.last = ms
	}
}

// NewRefGeneratorFrom creates a generator that continues after the highest
// reference already held by st, so a clock set back between runs cannot
// reissue a stored reference.
func NewRefGeneratorFrom(ctx context.Context, st Storage) (*RefGenerator, error) {
	g := NewRefGenerator()
	records, err := st.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking refs: %w", err)
	}
	for _, rec := range records {
		g.Observe(rec.Ref)
	}
	return g, nil
}

// NewBookingRecord validates in and builds a record with a fresh ID and ref.
func NewBookingRecord(in models.BookingInput, refs *RefGenerator, now time.Time) (*models.BookingRecord, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidBooking)
	}
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidBooking)
	}
	return &models.BookingRecord{
		ID:        uuid.New().String(),
		Ref:       refs.Next(),
		Name:      name,
		Phone:     phone,
		Preferred: strings.TrimSpace(in.Preferred),
		Notes:     strings.TrimSpace(in.Notes),
		Source:    strings.TrimSpace(in.Source),
		CreatedAt: now.UTC(),
	}, nil
}
