// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package highlight

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-assistant/internal/rank"
	"github.com/pdiddy/research-assistant/pkg/types"
)

func join(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestHighlightEmptyQuery(t *testing.T) {
	text := "Microgravity Effects on Bone"
	for _, q := range []string{"", "   ", "\n"} {
		got := Highlight(text, q)
		assert.Equal(t, []Span{{Text: text}}, got, "query %q", q)
	}
}

func TestHighlightEmptyText(t *testing.T) {
	assert.Equal(t, []Span{{Text: ""}}, Highlight("", "bone"))
}

func TestHighlightNoMatch(t *testing.T) {
	assert.Equal(t, []Span{{Text: "Radiation"}}, Highlight("Radiation", "bone"))
}

func TestHighlightEscapesQuery(t *testing.T) {
	got := Highlight("Cost: $3.5 million", "3.5")
	assert.Equal(t, []Span{
		{Text: "Cost: $"},
		{Text: "3.5", Matched: true},
		{Text: " million"},
	}, got)

	got = Highlight("Cost: $315 million", "3.5")
	assert.Equal(t, []Span{{Text: "Cost: $315 million"}}, got, "dot must not match an arbitrary character")
}

func TestHighlightCaseInsensitivePreservesText(t *testing.T) {
	text := "DNA repair and dna damage in Dna"
	got := Highlight(text, "dna")

	assert.Equal(t, text, join(got))
	assert.Equal(t, []Span{
		{Text: "DNA", Matched: true},
		{Text: " repair and "},
		{Text: "dna", Matched: true},
		{Text: " damage in "},
		{Text: "Dna", Matched: true},
	}, got)
}

func TestHighlightTrimsQuery(t *testing.T) {
	got := Highlight("bone density", "  bone ")
	assert.Equal(t, []Span{{Text: "bone", Matched: true}, {Text: " density"}}, got)
}

func TestHighlightAgreesWithRanker(t *testing.T) {
	papers := []types.Paper{
		{ID: 1, Title: "Effects of Microgravity (μg) on bone", Abstract: "Results for 3.5 g and 3x5 g."},
		{ID: 2, Title: "c++ tooling [draft]", Abstract: "Uses c++ and C++ heavily."},
	}
	queries := []string{"microgravity", "3.5", "c++", "[draft]", "(μg)", "zzz"}

	for _, p := range papers {
		for _, q := range queries {
			scoredAbstract := rank.New(types.RankingPolicy{Abstract: 1}).Score(p, q)
			spans := Highlight(p.Abstract, q)
			matched := 0
			for _, s := range spans {
				if s.Matched {
					matched++
				}
			}
			assert.Equal(t, scoredAbstract, matched, "paper %d query %q", p.ID, q)

			titleScored := rank.New(types.RankingPolicy{TitleSubstring: 1}).Score(p, q) > 0
			assert.Equal(t, titleScored, HasMatch(Highlight(p.Title, q)), "paper %d query %q", p.ID, q)
		}
	}
}

func TestRenderers(t *testing.T) {
	spans := Highlight("a <b> & bone", "bone")
	require.True(t, HasMatch(spans))

	assert.Equal(t, "a <b> & **bone**", Markdown(spans))
	assert.Equal(t, "a &lt;b&gt; &amp; <mark>bone</mark>", HTML(spans))
	assert.Equal(t, "a <b> & [bone]", Render(spans, func(s string) string { return "[" + s + "]" }))
}

func TestTerminalRender(t *testing.T) {
	term := Terminal{Style: lipgloss.NewStyle()}
	spans := Highlight("bone density", "bone")
	assert.Equal(t, "bone density", term.Render(spans))

	// The default style must keep the underlying text intact.
	out := DefaultTerminal().Render(spans)
	assert.Contains(t, out, "bone")
	assert.Contains(t, out, " density")
}
