// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report formats ranked search results for people and tools:
// terminal tables with highlighted matches, JSON, CSL-YAML bibliographies,
// and saved query files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/research-assistant/internal/highlight"
	"github.com/pdiddy/research-assistant/internal/match"
	"github.com/pdiddy/research-assistant/internal/rank"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// Output is one ranked search over a corpus.
type Output struct {
	Query   string              `json:"query"`
	Results []types.ScoredPaper `json:"results"`

	// Fallback is true when the query matched nothing and Results holds
	// the full corpus in its original order.
	Fallback bool `json:"fallback"`

	// CorpusSize is the number of papers searched.
	CorpusSize int `json:"corpus_size"`
}

// Build ranks corpus for query. An empty query or a query matching nothing
// yields the corpus as-is with zero scores, matching rank.Ranker.Rank.
func Build(r *rank.Ranker, corpus []types.Paper, query string) Output {
	q := match.Normalize(query)
	out := Output{Query: q, CorpusSize: len(corpus)}
	if q != "" {
		out.Results = r.Scored(corpus, q)
	}
	if len(out.Results) == 0 {
		out.Fallback = q != "" && len(corpus) > 0
		out.Results = make([]types.ScoredPaper, len(corpus))
		for i, p := range corpus {
			out.Results[i] = types.ScoredPaper{Paper: p}
		}
	}
	return out
}

// Limit truncates the results to at most n entries. n <= 0 keeps all.
func (o Output) Limit(n int) Output {
	if n > 0 && len(o.Results) > n {
		o.Results = o.Results[:n]
	}
	return o
}

// Renderer turns highlight spans into display text.
type Renderer func([]highlight.Span) string

// Plain renders spans without marking matches.
func Plain(spans []highlight.Span) string {
	return highlight.Render(spans, func(s string) string { return s })
}

const (
	titleWidth   = 60
	authorsWidth = 20
	journalWidth = 24
)

// FormatTable writes results as a human-readable table to w. Title
// matches are marked with render; nil means Plain.
func FormatTable(out Output, w io.Writer, render Renderer) {
	if render == nil {
		render = Plain
	}
	if out.CorpusSize == 0 {
		fmt.Fprintln(w, "No papers available.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-*s  %-*s  %-4s  %-*s  %6s  %5s\n",
		"Rank", titleWidth, "Title", authorsWidth, "Authors", "Year",
		journalWidth, "Journal", "Cites", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 4+titleWidth+authorsWidth+4+journalWidth+6+5+12))

	for i, r := range out.Results {
		title := truncate(r.Title, titleWidth)
		cell := render(highlight.Highlight(title, out.Query))
		fmt.Fprintf(w, "%-4d  %s  %-*s  %-4s  %-*s  %6d  %5d\n",
			i+1, pad(cell, titleWidth),
			authorsWidth, formatAuthors(r.Authors), r.Year,
			journalWidth, truncate(r.Journal, journalWidth), r.Citations, r.Score)
	}

	fmt.Fprintln(w)
	switch {
	case out.Query == "":
		fmt.Fprintf(w, "%d papers\n", len(out.Results))
	case out.Fallback:
		fmt.Fprintf(w, "no papers matched %q; showing all %d papers\n", out.Query, out.CorpusSize)
	default:
		fmt.Fprintf(w, "%d of %d papers match %q\n", len(out.Results), out.CorpusSize, out.Query)
	}
}

// FormatJSON writes the output as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], authorsWidth)
	default:
		return truncate(authors[0], authorsWidth-6) + " et al."
	}
}

// truncate shortens s to at most max runes, ending in "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// pad right-pads styled text to width visible cells.
func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
