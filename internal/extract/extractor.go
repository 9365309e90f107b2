// Package extract turns knowledge files into plain text.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupported is returned for a file extension with no registered extractor.
var ErrUnsupported = errors.New("unsupported file type")

// Func extracts text from the raw bytes of one file.
type Func func(content []byte) (string, error)

// Extractor dispatches extraction by lowercase file extension.
type Extractor struct {
	byExt map[string]Func
}

// NewExtractor returns an Extractor for .txt, .md, .pdf, .xlsx and .docx files.
func NewExtractor() *Extractor {
	return &Extractor{byExt: map[string]Func{
		".txt":  extractPlain,
		".md":   extractPlain,
		".pdf":  extractPDF,
		".xlsx": extractExcel,
		".docx": extractDOCX,
	}}
}

// Register adds or replaces the extractor for ext (with leading dot).
func (e *Extractor) Register(ext string, fn Func) {
	e.byExt[strings.ToLower(ext)] = fn
}

// Supports reports whether ext has an extractor.
func (e *Extractor) Supports(ext string) bool {
	_, ok := e.byExt[strings.ToLower(ext)]
	return ok
}

// Extensions lists the supported extensions in sorted order.
func (e *Extractor) Extensions() []string {
	out := make([]string, 0, len(e.byExt))
	for ext := range e.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Extract reads the file at path and returns its text.
func (e *Extractor) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	fn, ok := e.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	text, err := fn(content)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	return text, nil
}
