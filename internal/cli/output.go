// Package cli provides output formatting for the Techou command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/notewell/techou/internal/format"
	"github.com/notewell/techou/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResults writes search result views to w in the given format.
func WriteSearchResults(w io.Writer, views []format.MatchView, queryTime int64, outputFormat OutputFormat) error {
	if outputFormat == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}
	fmt.Fprintf(w, "\nFound %d matching pages in %dms\n\n", len(views), queryTime)
	for i, view := range views {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. %s", i+1, view.Label)
		if view.Occurrences > 1 {
			fmt.Fprintf(w, " (%d occurrences)", view.Occurrences)
		}
		if view.NameMatch {
			fmt.Fprint(w, " [name match]")
		}
		fmt.Fprintln(w)
		if view.Snippet != "" {
			fmt.Fprintf(w, "\n%s\n", utils.TruncateWords(view.Snippet, 40))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteCountView writes a word statistics view to w in the given format.
func WriteCountView(w io.Writer, view format.CountView, outputFormat OutputFormat) error {
	if outputFormat == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	fmt.Fprintf(w, "\n%s\n", view.Label)
	fmt.Fprintf(w, "Total words: %d (distinct: %d)\n", view.TotalWords, view.DistinctWords)
	fmt.Fprintf(w, "Total weighted score: %.2f\n", view.TotalWeightedScore)
	if len(view.TopWords) > 0 {
		fmt.Fprintf(w, "\nTop words:\n")
		for i, ws := range view.TopWords {
			fmt.Fprintf(w, "%3d. %-20s count=%-5d score=%.2f\n", i+1, utils.Truncate(ws.Word, 20), ws.Count, ws.Score)
		}
	}
	return nil
}
