// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads a paper dataset and normalizes its heterogeneous
// records into types.Paper values. A corpus snapshot is built once per
// dataset load and is never mutated afterwards.
package corpus

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Record is one raw paper as decoded from a dataset. Field names and value
// types vary between datasets; Normalize resolves the differences.
type Record map[string]any

// Source field names, in order of preference.
var (
	titleFields    = []string{"Title", "title"}
	yearFields     = []string{"year", "publication_year"}
	journalFields  = []string{"journal", "source"}
	urlFields      = []string{"url", "link"}
	abstractField  = "abstract"
	authorsField   = "authors"
	keywordsField  = "keywords"
	citationsField = "citations"
)

// authorSeparator splits a delimited author string on a comma followed by
// optional whitespace.
var authorSeparator = regexp.MustCompile(`,\s*`)

// Normalize converts raw records into papers, one per record, in input
// order. Each paper's ID is its 1-based position in records. The result is
// never nil.
func Normalize(records []Record) []types.Paper {
	papers := make([]types.Paper, 0, len(records))
	for i, r := range records {
		papers = append(papers, normalizeRecord(i+1, r))
	}
	return papers
}

func normalizeRecord(id int, r Record) types.Paper {
	return types.Paper{
		ID:        id,
		Title:     firstText(r, titleFields, types.UntitledTitle),
		Abstract:  textValue(r[abstractField]),
		Authors:   authorsValue(r[authorsField]),
		Year:      firstText(r, yearFields, types.YearUnavailable),
		Journal:   firstText(r, journalFields, types.NoJournal),
		Keywords:  keywordsValue(r[keywordsField]),
		Citations: countValue(r[citationsField]),
		URL:       firstText(r, urlFields, types.NoURL),
	}
}

// firstText returns the first non-empty field among names, or fallback.
func firstText(r Record, names []string, fallback string) string {
	for _, name := range names {
		if s := strings.TrimSpace(textValue(r[name])); s != "" {
			return s
		}
	}
	return fallback
}

// textValue renders scalar values as text. Whole numbers print without a
// fractional part so a JSON year of 2023 becomes "2023".
func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case bool, []any, map[string]any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// authorsValue accepts a delimited string or a sequence.
func authorsValue(v any) []string {
	switch t := v.(type) {
	case string:
		var names []string
		for _, name := range authorSeparator.Split(t, -1) {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if names == nil {
			return []string{}
		}
		return names
	case []string:
		return append([]string{}, t...)
	case []any:
		return stringSlice(t)
	default:
		return []string{}
	}
}

// keywordsValue takes the source value as-is. A single string becomes a
// one-element list; keywords are never derived from other text.
func keywordsValue(v any) []string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return []string{}
		}
		return []string{t}
	case []string:
		return append([]string{}, t...)
	case []any:
		return stringSlice(t)
	default:
		return []string{}
	}
}

// stringSlice keeps every element in place. Non-string elements are
// stringified and null becomes an empty string.
func stringSlice(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case nil:
			out = append(out, "")
		case bool, []any, map[string]any:
			out = append(out, fmt.Sprint(t))
		default:
			out = append(out, textValue(t))
		}
	}
	return out
}

// countValue reads a non-negative integer, defaulting to 0.
func countValue(v any) int {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case uint64:
		n = float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		n = f
	default:
		return 0
	}
	switch {
	case math.IsNaN(n) || n <= 0:
		return 0
	case n > math.MaxInt32:
		return math.MaxInt32
	}
	return int(n)
}
