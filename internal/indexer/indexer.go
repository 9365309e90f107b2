// Package indexer discovers knowledge documents and rebuilds the vector store from them.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hyperjump/tenang/internal/config"
	"github.com/hyperjump/tenang/internal/extract"
	"github.com/hyperjump/tenang/internal/fileid"
	"github.com/hyperjump/tenang/internal/models"
	"github.com/hyperjump/tenang/internal/vector"
	"go.uber.org/zap"
)

// ErrNoDocuments is returned when neither the knowledge directory nor the
// fallback file yields a document.
var ErrNoDocuments = errors.New("no documents found")

// Indexer builds snapshots from the knowledge directory and installs them in a store.
type Indexer struct {
	store     *vector.Store
	config    *config.KnowledgeConfig
	extractor *extract.Extractor
	logger    *zap.Logger

	// mu serializes rebuilds so two runs cannot interleave their Replace.
	mu sync.Mutex
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for indexing events.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer. extractor may be nil, in which case a default
// extract.Extractor is used.
func NewIndexer(store *vector.Store, cfg *config.KnowledgeConfig, extractor *extract.Extractor, opts ...IndexerOption) *Indexer {
	if extractor == nil {
		extractor = extract.NewExtractor()
	}
	idx := &Indexer{
		store:     store,
		config:    cfg,
		extractor: extractor,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Rebuild discovers documents and replaces the store's contents with a new
// generation built from them. On ErrNoDocuments or any other error the store
// is left as it was.
func (idx *Indexer) Rebuild(ctx context.Context) (*vector.Snapshot, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	start := time.Now()
	docs, err := idx.Discover(ctx)
	if err != nil {
		return nil, err
	}
	snap := vector.BuildSnapshot(docs, idx.config.MaxVocab)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap = idx.store.Replace(snap)
	idx.logger.Info("knowledge indexed",
		zap.Int("documents", snap.Size()),
		zap.Int("vocabulary", snap.Vocabulary.Len()),
		zap.Uint64("generation", snap.Generation),
		zap.Duration("took", time.Since(start)))
	return snap, nil
}

// Discover returns the documents directly inside the knowledge directory whose
// extension is allowed, ordered by file name. If there are none it returns the
// fallback file as a single document. Files that fail to extract or contain
// only whitespace are skipped.
func (idx *Indexer) Discover(ctx context.Context) ([]models.Document, error) {
	docs, err := idx.discoverDir(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		return docs, nil
	}

	fallback := idx.config.FallbackFile
	if fallback == "" {
		return nil, ErrNoDocuments
	}
	content, err := os.ReadFile(fallback)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback file: %w", err)
	}
	text := strings.TrimSpace(strings.ToValidUTF8(string(content), "�"))
	if text == "" {
		return nil, ErrNoDocuments
	}
	idx.logger.Debug("using fallback knowledge file", zap.String("path", fallback))
	return []models.Document{{ID: fileid.DocID(fallback), Text: text}}, nil
}

func (idx *Indexer) discoverDir(ctx context.Context) ([]models.Document, error) {
	dir := idx.config.Dir
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		idx.logger.Debug("knowledge directory missing", zap.String("dir", dir))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge directory: %w", err)
	}

	// os.ReadDir returns entries sorted by file name.
	var docs []models.Document
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !extensionAllowed(filepath.Ext(e.Name()), idx.config.Extensions) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		text, err := idx.extractor.Extract(path)
		if err != nil {
			idx.logger.Warn("skipping knowledge file", zap.String("path", path), zap.Error(err))
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			idx.logger.Debug("skipping empty knowledge file", zap.String("path", path))
			continue
		}
		docs = append(docs, models.Document{ID: fileid.DocID(path), Text: text})
	}
	return docs, nil
}

// extensionAllowed reports whether ext is in allowed, ignoring case.
func extensionAllowed(ext string, allowed []string) bool {
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}
