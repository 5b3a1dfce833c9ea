// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-assistant/pkg/types"
)

func TestNormalizeAssignsPositionalIDs(t *testing.T) {
	papers := Normalize([]Record{
		{"title": "First"},
		{"title": "Second"},
		{"title": "Third"},
	})

	require.Len(t, papers, 3)
	for i, p := range papers {
		assert.Equal(t, i+1, p.ID)
	}
	assert.Equal(t, "Second", papers[1].Title)
}

func TestNormalizeEmptyInput(t *testing.T) {
	papers := Normalize(nil)
	assert.NotNil(t, papers)
	assert.Empty(t, papers)
}

func TestNormalizeDefaults(t *testing.T) {
	papers := Normalize([]Record{{}})
	require.Len(t, papers, 1)

	p := papers[0]
	assert.Equal(t, types.UntitledTitle, p.Title)
	assert.Equal(t, "", p.Abstract)
	assert.Equal(t, []string{}, p.Authors)
	assert.Equal(t, types.YearUnavailable, p.Year)
	assert.Equal(t, types.NoJournal, p.Journal)
	assert.Equal(t, []string{}, p.Keywords)
	assert.Equal(t, 0, p.Citations)
	assert.Equal(t, types.NoURL, p.URL)
	assert.False(t, p.HasURL())
}

func TestNormalizeFieldPreference(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		check  func(t *testing.T, p types.Paper)
	}{
		{
			name:   "alternate title wins",
			record: Record{"Title": "From Title", "title": "from title"},
			check: func(t *testing.T, p types.Paper) {
				assert.Equal(t, "From Title", p.Title)
			},
		},
		{
			name:   "empty alternate title falls through",
			record: Record{"Title": "  ", "title": "lowercase title"},
			check: func(t *testing.T, p types.Paper) {
				assert.Equal(t, "lowercase title", p.Title)
			},
		},
		{
			name:   "publication_year used when year is absent",
			record: Record{"publication_year": float64(2021)},
			check: func(t *testing.T, p types.Paper) {
				assert.Equal(t, "2021", p.Year)
			},
		},
		{
			name:   "numeric year renders without fraction",
			record: Record{"year": float64(2023), "publication_year": "1999"},
			check: func(t *testing.T, p types.Paper) {
				assert.Equal(t, "2023", p.Year)
			},
		},
		{
			name:   "source used when journal is absent",
			record: Record{"source": "Astrobiology"},
			check: func(t *testing.T, p types.Paper) {
				assert.Equal(t, "Astrobiology", p.Journal)
			},
		},
		{
			name:   "link used when url is absent",
			record: Record{"link": "https://example.org/p1"},
			check: func(t *testing.T, p types.Paper) {
				assert.Equal(t, "https://example.org/p1", p.URL)
				assert.True(t, p.HasURL())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			papers := Normalize([]Record{tt.record})
			require.Len(t, papers, 1)
			tt.check(t, papers[0])
		})
	}
}

func TestNormalizeAuthors(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"delimited string", "Sarah Johnson, Michael Chen,Elena Rodriguez", []string{"Sarah Johnson", "Michael Chen", "Elena Rodriguez"}},
		{"string with empty parts", "A. Smith, , B. Jones,", []string{"A. Smith", "B. Jones"}},
		{"sequence kept as-is", []any{"Jones, K.", "Lee, D."}, []string{"Jones, K.", "Lee, D."}},
		{"typed sequence", []string{"Solo Author"}, []string{"Solo Author"}},
		{"sequence keeps empty and non-string elements", []any{"A. Smith", "", float64(42), nil, true}, []string{"A. Smith", "", "42", "", "true"}},
		{"blank string", "   ", []string{}},
		{"absent", nil, []string{}},
		{"unexpected type", float64(3), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := authorsValue(tt.value)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeKeywords(t *testing.T) {
	assert.Equal(t, []string{"microgravity", "bone"}, keywordsValue([]any{"microgravity", "bone"}))
	assert.Equal(t, []string{"plant biology, cells"}, keywordsValue("plant biology, cells"))
	assert.Equal(t, []string{}, keywordsValue(nil))
	assert.Equal(t, []string{"iss", "", "2021"}, keywordsValue([]any{"iss", "", float64(2021)}))
}

func TestNormalizeCitations(t *testing.T) {
	tests := []struct {
		value any
		want  int
	}{
		{float64(45), 45},
		{45, 45},
		{"62", 62},
		{" 7 ", 7},
		{float64(-3), 0},
		{"many", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countValue(tt.value), "value %#v", tt.value)
	}
}
