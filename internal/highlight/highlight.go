// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package highlight marks the parts of a text that match a search query.
// Matching goes through the same primitive as the relevance ranker, so a
// highlighted span is always a span the ranker scored.
package highlight

import (
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/research-assistant/internal/match"
)

// Span is a contiguous piece of text, either plain or matching the query.
type Span struct {
	Text    string `json:"text" yaml:"text"`
	Matched bool   `json:"matched" yaml:"matched"`
}

// Highlight splits text into plain and matched spans. Concatenating the
// span texts always reproduces text. An empty query, a query with no
// occurrences, or a query that cannot be compiled yields a single plain
// span holding the whole text.
func Highlight(text, query string) []Span {
	plain := []Span{{Text: text}}

	m, err := match.Compile(query)
	if err != nil {
		return plain
	}
	locs := m.Indexes(text)
	if len(locs) == 0 {
		return plain
	}

	spans := make([]Span, 0, 2*len(locs)+1)
	pos := 0
	for _, loc := range locs {
		if loc[0] > pos {
			spans = append(spans, Span{Text: text[pos:loc[0]]})
		}
		spans = append(spans, Span{Text: text[loc[0]:loc[1]], Matched: true})
		pos = loc[1]
	}
	if pos < len(text) {
		spans = append(spans, Span{Text: text[pos:]})
	}
	return spans
}

// HasMatch reports whether any span is matched.
func HasMatch(spans []Span) bool {
	for _, s := range spans {
		if s.Matched {
			return true
		}
	}
	return false
}

// Render joins spans, passing matched text through mark and plain text
// through unchanged.
func Render(spans []Span, mark func(string) string) string {
	return RenderWith(spans, func(s string) string { return s }, mark)
}

// RenderWith joins spans, passing plain text through plain and matched text
// through mark.
func RenderWith(spans []Span, plain, mark func(string) string) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Matched {
			b.WriteString(mark(s.Text))
		} else {
			b.WriteString(plain(s.Text))
		}
	}
	return b.String()
}

// Markdown renders matched spans in bold.
func Markdown(spans []Span) string {
	return Render(spans, func(s string) string { return "**" + s + "**" })
}

// HTML renders spans as escaped HTML with matched text wrapped in <mark>.
func HTML(spans []Span) string {
	return RenderWith(spans, html.EscapeString, func(s string) string {
		return "<mark>" + html.EscapeString(s) + "</mark>"
	})
}

// Terminal renders spans for a terminal, styling matched text.
type Terminal struct {
	Style lipgloss.Style
}

// DefaultTerminal highlights matches in bold yellow.
func DefaultTerminal() Terminal {
	return Terminal{
		Style: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF")),
	}
}

// Render implements the span renderer for terminal output.
func (t Terminal) Render(spans []Span) string {
	return Render(spans, func(s string) string { return t.Style.Render(s) })
}
