// Package cli provides output formatting for the Tenang command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/tenang/internal/models"
	"github.com/hyperjump/tenang/internal/vector"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("invalid output format %q (use text or json)", s)
	}
}

// askOutput is the JSON shape of an ask reply. Unlike the HTTP response it
// includes the provider and the context documents.
type askOutput struct {
	Reply     string              `json:"reply"`
	Emergency bool                `json:"emergency"`
	Booking   *models.BookingLink `json:"booking,omitempty"`
	Provider  string              `json:"provider,omitempty"`
	Sources   []string            `json:"sources"`
}

// WriteChatReply writes resp to w in the given format.
func WriteChatReply(w io.Writer, resp *models.ChatResponse, format OutputFormat) error {
	if format == OutputJSON {
		sources := resp.Sources
		if sources == nil {
			sources = []string{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(askOutput{
			Reply:     resp.Reply,
			Emergency: resp.Emergency,
			Booking:   resp.Booking,
			Provider:  resp.Provider,
			Sources:   sources,
		})
	}

	if resp.Emergency {
		fmt.Fprintln(w, "!! Emergency resources")
	}
	fmt.Fprintf(w, "\n%s\n\n", resp.Reply)
	if resp.Booking != nil {
		fmt.Fprintf(w, "Book a session: %s\n", resp.Booking.URL)
	}
	if len(resp.Sources) > 0 {
		fmt.Fprintf(w, "Sources: %s\n", strings.Join(resp.Sources, ", "))
	}
	if resp.Provider != "" {
		fmt.Fprintf(w, "Provider: %s\n", resp.Provider)
	}
	return nil
}

// WriteIndexSummary writes a one-line summary of an installed snapshot.
func WriteIndexSummary(w io.Writer, snap *vector.Snapshot) {
	ids := make([]string, len(snap.Documents))
	for i, d := range snap.Documents {
		ids[i] = d.ID
	}
	fmt.Fprintf(w, "Indexed %d documents (vocabulary %d, generation %d): %s\n",
		snap.Size(), snap.Vocabulary.Len(), snap.Generation, strings.Join(ids, ", "))
}
