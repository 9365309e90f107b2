package models

import (
	"errors"
	"strings"
)

// ErrEmptyMessage is returned when a chat request carries no message text.
var ErrEmptyMessage = errors.New("message is required")

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// Validate rejects requests whose message is missing or only whitespace.
func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// BookingLink points the user at the booking page.
type BookingLink struct {
	URL string `json:"url"`
}

// ChatResponse is the reply to a chat request. Emergency and Booking are
// omitted from JSON unless set.
type ChatResponse struct {
	Reply     string       `json:"reply"`
	Emergency bool         `json:"emergency,omitempty"`
	Booking   *BookingLink `json:"booking,omitempty"`

	// Provider names the generation service that produced Reply; empty for
	// safety and demo replies. Not part of the HTTP response.
	Provider string `json:"-"`
	// Sources lists the IDs of the documents used as context.
	Sources []string `json:"-"`
}
