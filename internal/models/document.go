// Package models defines core data structures for documents, chat exchanges, and bookings.
package models

// Document is a knowledge file loaded for one index generation.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// EmbeddedDocument is a Document with its term-frequency vector over the
// vocabulary of the generation it was indexed in.
type EmbeddedDocument struct {
	Document
	Embedding []float64 `json:"-"`
}

// ScoredDocument is a retrieval hit.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}
