package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func startWatcher(t *testing.T, dir string, extensions []string) (*Watcher, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	w := NewWatcher(dir, extensions, func() { calls.Add(1) }, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w, &calls
}

func TestWatcher_coalescesBurstIntoOneChange(t *testing.T) {
	dir := t.TempDir()
	_, calls := startWatcher(t, dir, []string{".txt", ".md"})

	for _, name := range []string{"a.txt", "b.md", "c.txt"} {
		if err := writeFile(filepath.Join(dir, name), "hello"); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(400 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("expected one change callback, got %d", got)
	}
}

func TestWatcher_removeTriggersChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := writeFile(path, "hello"); err != nil {
		t.Fatal(err)
	}
	_, calls := startWatcher(t, dir, []string{".txt"})

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)

	if calls.Load() != 1 {
		t.Errorf("expected a change callback after remove, got %d", calls.Load())
	}
}

func TestWatcher_ignoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	_, calls := startWatcher(t, dir, []string{".txt"})

	if err := writeFile(filepath.Join(dir, "image.png"), "x"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	if calls.Load() != 0 {
		t.Errorf("expected no callback, got %d", calls.Load())
	}
}

func TestWatcher_stopCancelsPendingChange(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := NewWatcher(dir, nil, func() { calls.Add(1) }, WithDebounce(200*time.Millisecond))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "a.txt"), "hello"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	w.Stop()
	w.Stop()
	time.Sleep(400 * time.Millisecond)

	if calls.Load() != 0 {
		t.Errorf("expected no callback after Stop, got %d", calls.Load())
	}
}

func TestWatcher_Start_createsMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "knowledge", "docs")
	w := NewWatcher(dir, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory should exist after Start: %v", err)
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.txt", []string{".txt"}, true},
		{"/a/b.TXT", []string{".txt"}, true},
		{"/a/b.md", []string{"md"}, true},
		{"/a/b.md", []string{".txt"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
