// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Placeholders used when a source record omits a field. The normalizer
// never leaves these fields blank so downstream display code can print
// them without checks.
const (
	// UntitledTitle replaces a missing title.
	UntitledTitle = "Untitled"

	// YearUnavailable replaces a missing publication year. A missing year
	// is never reported as 0.
	YearUnavailable = "N/A"

	// NoJournal replaces a missing journal or source.
	NoJournal = "-"

	// NoURL marks a paper without a link.
	NoURL = "#"
)

// Paper is a normalized corpus entry. Every field is populated by the
// corpus normalizer regardless of the shape of the source record.
type Paper struct {
	// ID is the 1-based position of the paper in the source list. It is
	// stable for the lifetime of one corpus snapshot; selection state and
	// citation numbering key off it.
	ID int `json:"id" yaml:"id"`

	// Title is the paper title, or UntitledTitle.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract. It may be empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year as decimal text, or YearUnavailable.
	Year string `json:"year" yaml:"year"`

	// Journal is the journal or source name, or NoJournal.
	Journal string `json:"journal" yaml:"journal"`

	// Keywords are short topic tags taken verbatim from the source.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Citations is the citation count. Never negative.
	Citations int `json:"citations" yaml:"citations"`

	// URL links to the paper, or NoURL.
	URL string `json:"url" yaml:"url"`
}

// HasURL reports whether the paper carries a real link.
func (p Paper) HasURL() bool {
	return p.URL != "" && p.URL != NoURL
}
