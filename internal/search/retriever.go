// Package search ranks indexed documents against a query.
package search

import (
	"sort"

	"github.com/hyperjump/tenang/internal/models"
	"github.com/hyperjump/tenang/internal/vector"
)

// Retriever ranks the documents of the store's current generation by cosine
// similarity to a query.
type Retriever struct {
	store *vector.Store
}

// NewRetriever creates a retriever over store.
func NewRetriever(store *vector.Store) *Retriever {
	return &Retriever{store: store}
}

// TopK returns up to k documents most similar to query. It returns an empty
// slice when k <= 0 or nothing has been indexed.
func (r *Retriever) TopK(query string, k int) []models.Document {
	scored := r.Scored(query, k)
	docs := make([]models.Document, len(scored))
	for i, s := range scored {
		docs[i] = s.Document
	}
	return docs
}

// Scored is TopK with similarity scores. Results are ordered by descending
// score; equal scores keep index order.
func (r *Retriever) Scored(query string, k int) []models.ScoredDocument {
	snap := r.store.Snapshot()
	if k <= 0 || snap.Size() == 0 {
		return []models.ScoredDocument{}
	}
	// The query is embedded against the same snapshot it is compared with,
	// so a concurrent rebuild cannot mix generations.
	q := snap.Vocabulary.EmbedText(query)
	results := make([]models.ScoredDocument, len(snap.Documents))
	for i, d := range snap.Documents {
		results[i] = models.ScoredDocument{
			Document: d.Document,
			Score:    vector.CosineSimilarity(q, d.Embedding),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results
}
