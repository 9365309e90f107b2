package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hyperjump/tenang/internal/config"
	"github.com/hyperjump/tenang/internal/search"
	"github.com/hyperjump/tenang/internal/vector"
	"github.com/xuri/excelize/v2"
)

func TestExtensionAllowed(t *testing.T) {
	tests := []struct {
		ext     string
		allowed []string
		want    bool
	}{
		{".txt", []string{".txt", ".md"}, true},
		{".TXT", []string{".txt"}, true},
		{".md", []string{".txt", ".md"}, true},
		{".go", []string{".txt"}, false},
		{"", []string{".txt"}, false},
	}
	for _, tt := range tests {
		got := extensionAllowed(tt.ext, tt.allowed)
		if got != tt.want {
			t.Errorf("extensionAllowed(%q, %v) = %v, want %v", tt.ext, tt.allowed, got, tt.want)
		}
	}
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestIndexer(t *testing.T, root string) (*Indexer, *vector.Store) {
	t.Helper()
	cfg := &config.KnowledgeConfig{
		Dir:          filepath.Join(root, "knowledge"),
		FallbackFile: filepath.Join(root, "knowledge.txt"),
		Extensions:   []string{".txt", ".md"},
		MaxVocab:     400,
	}
	store := vector.NewStore()
	return NewIndexer(store, cfg, nil), store
}

func TestRebuild_directory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "knowledge"), map[string]string{
		"b_sleep.md":      "Sleep hygiene: keep a regular bedtime.",
		"a_breathing.txt": "Box breathing helps with anxiety and panic.",
		"ignored.go":      "package main",
		"blank.txt":       "   \n",
	})
	if err := os.Mkdir(filepath.Join(root, "knowledge", "sub.txt"), 0755); err != nil {
		t.Fatal(err)
	}
	idx, store := newTestIndexer(t, root)

	snap, err := idx.Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Size() != 2 {
		t.Fatalf("expected 2 documents, got %d", snap.Size())
	}
	if snap.Documents[0].ID != "a_breathing.txt" || snap.Documents[1].ID != "b_sleep.md" {
		t.Errorf("documents should be ordered by name: %s, %s", snap.Documents[0].ID, snap.Documents[1].ID)
	}
	if snap.Generation != 1 || store.Snapshot().Generation != 1 {
		t.Errorf("generation = %d", snap.Generation)
	}

	got := search.NewRetriever(store).TopK("I have anxiety", 1)
	if len(got) != 1 || got[0].ID != "a_breathing.txt" {
		t.Errorf("retrieval after rebuild: got %+v", got)
	}
}

func TestRebuild_fallbackFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "knowledge.txt"), []byte("General wellness notes."), 0644); err != nil {
		t.Fatal(err)
	}
	idx, _ := newTestIndexer(t, root)

	snap, err := idx.Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Size() != 1 || snap.Documents[0].ID != "knowledge.txt" {
		t.Errorf("expected fallback document, got %+v", snap.Documents)
	}
	if snap.Documents[0].Text != "General wellness notes." {
		t.Errorf("text = %q", snap.Documents[0].Text)
	}
}

func TestRebuild_directoryWinsOverFallback(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "knowledge"), map[string]string{"a.txt": "from dir"})
	if err := os.WriteFile(filepath.Join(root, "knowledge.txt"), []byte("from fallback"), 0644); err != nil {
		t.Fatal(err)
	}
	idx, _ := newTestIndexer(t, root)

	snap, err := idx.Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Size() != 1 || snap.Documents[0].ID != "a.txt" {
		t.Errorf("expected directory document only, got %+v", snap.Documents)
	}
}

func TestRebuild_noDocumentsKeepsPriorStore(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "knowledge")
	writeFiles(t, dir, map[string]string{"a.txt": "calm"})
	idx, store := newTestIndexer(t, root)

	if _, err := idx.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := store.Snapshot()

	if err := os.Remove(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatal(err)
	}
	_, err := idx.Rebuild(context.Background())
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
	if store.Snapshot() != before {
		t.Error("store should be untouched after a failed rebuild")
	}
}

func TestRebuild_emptyStoreStaysEmpty(t *testing.T) {
	idx, store := newTestIndexer(t, t.TempDir())
	_, err := idx.Rebuild(context.Background())
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
	if store.Size() != 0 || store.Snapshot().Generation != 0 {
		t.Error("store should remain at generation 0")
	}
}

func TestRebuild_deterministic(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "knowledge"), map[string]string{
		"a.txt": "rest rest sleep water",
		"b.txt": "walk sleep sunlight",
	})
	idx, _ := newTestIndexer(t, root)

	first, err := idx.Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := idx.Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second.Generation != first.Generation+1 {
		t.Errorf("generation should increase: %d then %d", first.Generation, second.Generation)
	}
	ft, st := first.Vocabulary.Terms(), second.Vocabulary.Terms()
	if len(ft) != len(st) {
		t.Fatalf("vocabulary size differs: %d vs %d", len(ft), len(st))
	}
	for i := range ft {
		if ft[i] != st[i] {
			t.Errorf("term %d: %q vs %q", i, ft[i], st[i])
		}
	}
	for d := range first.Documents {
		a, b := first.Documents[d].Embedding, second.Documents[d].Embedding
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("doc %d dim %d: %v vs %v", d, i, a[i], b[i])
			}
		}
	}
}

func TestRebuild_extraFormats(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "knowledge")
	writeFiles(t, dir, map[string]string{"broken.pdf": "not a pdf", "notes.txt": "journaling"})

	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "Helpline")
	if err := f.SaveAs(filepath.Join(dir, "helplines.xlsx")); err != nil {
		t.Fatal(err)
	}

	idx, _ := newTestIndexer(t, root)
	idx.config.Extensions = []string{".txt", ".xlsx", ".pdf"}

	snap, err := idx.Rebuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Size() != 2 {
		t.Fatalf("expected xlsx and txt documents (broken pdf skipped), got %d", snap.Size())
	}
	if snap.Documents[0].ID != "helplines.xlsx" || snap.Documents[0].Text != "Helpline" {
		t.Errorf("unexpected first document: %+v", snap.Documents[0].Document)
	}
}

func TestRebuild_concurrent(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "knowledge"), map[string]string{"a.txt": "one", "b.txt": "two"})
	idx, store := newTestIndexer(t, root)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := idx.Rebuild(context.Background()); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if got := store.Snapshot().Generation; got != 8 {
		t.Errorf("generation = %d, want 8", got)
	}
}

func TestRebuild_cancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "knowledge"), map[string]string{"a.txt": "one"})
	idx, store := newTestIndexer(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := idx.Rebuild(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if store.Snapshot().Generation != 0 {
		t.Error("cancelled rebuild should not replace the store")
	}
}
