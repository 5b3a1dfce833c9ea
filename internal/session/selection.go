// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Selection is an order-preserving set of papers keyed by paper ID. The
// position of a paper in the selection is its citation number: [1] refers
// to the first selected paper.
type Selection struct {
	mu     sync.RWMutex
	max    int
	papers []types.Paper
}

// NewSelection returns an empty selection holding at most max papers
// (0 means no limit).
func NewSelection(max int) *Selection {
	return &Selection{max: max, papers: []types.Paper{}}
}

// Max returns the selection limit; 0 means no limit.
func (s *Selection) Max() int { return s.max }

// Len returns the number of selected papers.
func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.papers)
}

// Contains reports whether the paper with id is selected.
func (s *Selection) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

func (s *Selection) indexOf(id int) int {
	for i, p := range s.papers {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Selection) full() bool {
	return s.max > 0 && len(s.papers) >= s.max
}

// Add appends p unless it is already selected or the selection is full.
// It reports whether p is selected afterwards.
func (s *Selection) Add(p types.Paper) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(p.ID) >= 0 {
		return true
	}
	if s.full() {
		return false
	}
	s.papers = append(s.papers, p)
	return true
}

// Remove drops the paper with id, keeping the order of the rest.
func (s *Selection) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.papers = append(s.papers[:i:i], s.papers[i+1:]...)
	}
}

// Toggle selects p if it is not selected and deselects it otherwise. It
// reports whether p is selected afterwards; adding to a full selection
// is refused.
func (s *Selection) Toggle(p types.Paper) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(p.ID); i >= 0 {
		s.papers = append(s.papers[:i:i], s.papers[i+1:]...)
		return false
	}
	if s.full() {
		return false
	}
	s.papers = append(s.papers, p)
	return true
}

// SelectAll replaces the selection with the leading results up to the
// limit. When every result is already selected it clears the selection
// instead.
func (s *Selection) SelectAll(results []types.Paper) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.papers) == len(results) {
		s.papers = []types.Paper{}
		return
	}
	n := len(results)
	if s.max > 0 && n > s.max {
		n = s.max
	}
	s.papers = append([]types.Paper{}, results[:n]...)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.papers = []types.Paper{}
}

// Papers returns a copy of the selected papers in selection order.
func (s *Selection) Papers() []types.Paper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Paper{}, s.papers...)
}

// Cited returns the paper for citation number n (1-based).
func (s *Selection) Cited(n int) (types.Paper, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n < 1 || n > len(s.papers) {
		return types.Paper{}, false
	}
	return s.papers[n-1], true
}

// Context renders the selection as numbered source text for the question
// answering collaborator. The numbers match citation markers.
func (s *Selection) Context() string {
	return BuildContext(s.Papers())
}

// BuildContext renders papers as numbered source text: a "[n] Title" line
// followed by authors, year and abstract.
func BuildContext(papers []types.Paper) string {
	var b strings.Builder
	for i, p := range papers {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s", i+1, p.Title)
		if len(p.Authors) > 0 {
			fmt.Fprintf(&b, "\nAuthors: %s", strings.Join(p.Authors, ", "))
		}
		if p.Year != "" && p.Year != types.YearUnavailable {
			fmt.Fprintf(&b, "\nYear: %s", p.Year)
		}
		if p.Abstract != "" {
			fmt.Fprintf(&b, "\n%s", p.Abstract)
		}
	}
	return b.String()
}

// citationMarker matches inline citations such as [1] or [12].
var citationMarker = regexp.MustCompile(`\[(\d+)\]`)

// Citation links an inline marker in an answer to a selected paper.
type Citation struct {
	Number int         `json:"number" yaml:"number"`
	Paper  types.Paper `json:"paper" yaml:"paper"`
}

// ResolveCitations maps the [n] markers in answer to selected papers, in
// order of first appearance. Numbers with no selected paper are ignored
// and remain plain text for display.
func (s *Selection) ResolveCitations(answer string) []Citation {
	var out []Citation
	seen := make(map[int]bool)
	for _, m := range citationMarker.FindAllStringSubmatch(answer, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		if p, ok := s.Cited(n); ok {
			out = append(out, Citation{Number: n, Paper: p})
		}
	}
	return out
}
