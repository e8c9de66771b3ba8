// Package cli formats hotelrag results for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/hotelrag/internal/expansion"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/security"
	"github.com/hyperjump/hotelrag/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is indented JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const (
	separator       = "─────────────────────────────────────────────────────────"
	textExcerptSize = 200
)

// ParseOutputFormat accepts "text" or "json" in any case.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResponse writes a search response in the given format.
func WriteSearchResponse(w io.Writer, resp *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, resp)
	}
	if resp.Blocked {
		_, err := fmt.Fprintf(w, "Query blocked: %s\n", resp.BlockReason)
		return err
	}
	fmt.Fprintf(w, "\nFound %d results in %dms\n", resp.Total, resp.QueryTime)
	if resp.ExpandedQuery != "" && resp.ExpandedQuery != resp.Query {
		fmt.Fprintf(w, "Expanded: %s\n", resp.ExpandedQuery)
	}
	fmt.Fprintln(w)
	for _, item := range resp.Results {
		fmt.Fprintln(w, separator)
		fmt.Fprintf(w, "Rank: %d | Relevance: %.2f (Hybrid: %.2f, Keyword: %.2f, Semantic: %.2f)\n",
			item.Rank, item.Relevance, item.HybridScore, item.KeywordScore, item.SemanticScore)
		fmt.Fprintf(w, "Document: %s #%d", item.DocumentID, item.ChunkIndex)
		if item.FileName != "" {
			fmt.Fprintf(w, " (%s, %s)", item.FileName, item.DocumentType)
		}
		fmt.Fprintf(w, "\n\n%s\n\n", utils.Truncate(item.Excerpt, textExcerptSize))
	}
	_, err := fmt.Fprintln(w, resp.Summary)
	return err
}

// WriteVerdict writes a gate verdict.
func WriteVerdict(w io.Writer, v security.Verdict, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, v)
	}
	if !v.Blocked {
		_, err := fmt.Fprintln(w, "allowed")
		return err
	}
	fmt.Fprintf(w, "blocked: %s\n", v.Reason)
	if v.Pattern != "" {
		fmt.Fprintf(w, "pattern: %s\n", v.Pattern)
	}
	if v.Category != "" {
		fmt.Fprintf(w, "category: %s\n", v.Category)
	}
	return nil
}

// ExpansionReport bundles the analysis of one query.
type ExpansionReport struct {
	expansion.ExpandedQuery
	Keywords   []string `json:"keywords"`
	KeyPhrases []string `json:"key_phrases"`
}

// WriteExpansion writes an expansion report.
func WriteExpansion(w io.Writer, r ExpansionReport, format OutputFormat) error {
	if format == OutputJSON {
		return WriteJSON(w, r)
	}
	fmt.Fprintf(w, "Original:  %s\n", r.Original)
	fmt.Fprintf(w, "Expanded:  %s\n", r.Expanded)
	fmt.Fprintf(w, "Expansion: %t\n", r.HasExpansion)
	fmt.Fprintf(w, "Important: %s\n", strings.Join(r.ImportantTerms, ", "))
	fmt.Fprintf(w, "Keywords:  %s\n", strings.Join(r.Keywords, ", "))
	_, err := fmt.Fprintf(w, "Phrases:   %s\n", strings.Join(r.KeyPhrases, ", "))
	return err
}
