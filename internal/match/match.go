// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match is the matching primitive shared by the relevance ranker and
// the match highlighter. Both compile the query through Compile so that any
// substring the ranker scores is exactly a substring the highlighter marks.
//
// Queries are treated as literal text: characters meaningful to regular
// expressions are escaped before any pattern is built, so "3.5" matches
// the text "3.5" and never "3x5".
package match

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPattern reports a query that could not be turned into a match
// pattern. Callers treat it as "no match" rather than a failure.
var ErrInvalidPattern = errors.New("invalid query pattern")

// Matcher holds the compiled case-insensitive patterns for one query.
type Matcher struct {
	query     string
	substring *regexp.Regexp
	equal     *regexp.Regexp
	prefix    *regexp.Regexp
	word      *regexp.Regexp // nil when the word-boundary pattern failed
}

// Normalize trims surrounding whitespace from a raw query.
func Normalize(query string) string {
	return strings.TrimSpace(query)
}

// Escape quotes every regular expression metacharacter in query.
func Escape(query string) string {
	return regexp.QuoteMeta(query)
}

// Compile builds a Matcher for the normalized query. An empty query has no
// pattern and returns ErrInvalidPattern.
func Compile(query string) (*Matcher, error) {
	q := Normalize(query)
	if q == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidPattern)
	}
	escaped := Escape(q)

	substring, err := regexp.Compile(`(?i)` + escaped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	equal, err := regexp.Compile(`(?i)\A` + escaped + `\z`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	prefix, err := regexp.Compile(`(?i)\A` + escaped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	m := &Matcher{
		query:     q,
		substring: substring,
		equal:     equal,
		prefix:    prefix,
	}
	// Word-boundary failures only disable that one rule.
	if word, err := regexp.Compile(`(?i)\b` + escaped + `\b`); err == nil {
		m.word = word
	}
	return m, nil
}

// Query returns the normalized query the matcher was built from.
func (m *Matcher) Query() string { return m.query }

// Equal reports whether s equals the query, ignoring case.
func (m *Matcher) Equal(s string) bool {
	return m.equal.MatchString(s)
}

// HasPrefix reports whether s starts with the query, ignoring case.
func (m *Matcher) HasPrefix(s string) bool {
	return m.prefix.MatchString(s)
}

// Contains reports whether the query occurs anywhere in s, ignoring case.
func (m *Matcher) Contains(s string) bool {
	return m.substring.MatchString(s)
}

// ContainsWord reports whether the query occurs in s as a whole word: the
// match is not immediately preceded or followed by a word character.
func (m *Matcher) ContainsWord(s string) bool {
	if m.word == nil {
		return false
	}
	return m.word.MatchString(s)
}

// Count returns the number of non-overlapping occurrences of the query in s.
func (m *Matcher) Count(s string) int {
	if s == "" {
		return 0
	}
	return len(m.substring.FindAllStringIndex(s, -1))
}

// Indexes returns the byte ranges of every non-overlapping occurrence of
// the query in s, in order. Each element is a [start, end) pair.
func (m *Matcher) Indexes(s string) [][]int {
	if s == "" {
		return nil
	}
	return m.substring.FindAllStringIndex(s, -1)
}
