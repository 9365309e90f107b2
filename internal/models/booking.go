package models

import "time"

// BookingInput is the body of POST /api/book.
type BookingInput struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Preferred string `json:"preferred,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Source    string `json:"source,omitempty"`
}

// BookingRecord is a persisted booking request. Ref is the user-facing
// reference ("BK" followed by a millisecond timestamp).
type BookingRecord struct {
	ID        string    `json:"id" db:"id"`
	Ref       string    `json:"ref" db:"ref"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Preferred string    `json:"preferred,omitempty" db:"preferred"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	Source    string    `json:"source,omitempty" db:"source"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
