// Package vector holds the in-memory term-frequency index that retrieval reads.
package vector

import (
	"sync"
	"time"

	"github.com/hyperjump/tenang/internal/embedding"
	"github.com/hyperjump/tenang/internal/models"
)

// Snapshot is one index generation: a vocabulary and the documents embedded
// against it. A Snapshot is never mutated after it is built, so readers may
// use it without holding the store lock.
type Snapshot struct {
	Generation uint64
	Vocabulary *embedding.Vocabulary
	Documents  []models.EmbeddedDocument
	IndexedAt  time.Time
}

// Size returns the number of documents in the snapshot.
func (s *Snapshot) Size() int {
	return len(s.Documents)
}

// BuildSnapshot tokenizes docs, selects a vocabulary of at most maxVocab
// terms, and embeds every document against it. The returned snapshot has
// generation 0 until it is installed with Store.Replace.
func BuildSnapshot(docs []models.Document, maxVocab int) *Snapshot {
	corpus := make([][]string, len(docs))
	for i, d := range docs {
		corpus[i] = embedding.Tokenize(d.Text)
	}
	vocab := embedding.BuildVocabulary(corpus, maxVocab)
	embedded := make([]models.EmbeddedDocument, len(docs))
	for i, d := range docs {
		embedded[i] = models.EmbeddedDocument{
			Document:  d,
			Embedding: vocab.Embed(corpus[i]),
		}
	}
	return &Snapshot{Vocabulary: vocab, Documents: embedded}
}

// Store is the process-wide holder of the current Snapshot. Replacement is
// wholesale: a new snapshot never merges with the previous one.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewStore returns a store holding an empty generation-0 snapshot.
func NewStore() *Store {
	return &Store{current: &Snapshot{}}
}

// Replace installs snap as the current generation and returns it with its
// generation number and timestamp set.
func (s *Store) Replace(snap *Snapshot) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Generation = s.current.Generation + 1
	snap.IndexedAt = time.Now()
	s.current = snap
	return snap
}

// Snapshot returns the current generation. The result is never nil.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Size returns the number of documents in the current generation.
func (s *Store) Size() int {
	return s.Snapshot().Size()
}
