// Package fileid derives document IDs from knowledge file paths.
package fileid

import "path/filepath"

// DocID returns the document ID for path: its base file name. Documents are
// discovered from a single flat directory, so names are unique within a run.
func DocID(path string) string {
	return filepath.Base(filepath.Clean(path))
}
