// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research assistant:
// the normalized Paper, the ephemeral ScoredPaper produced while ranking,
// the ranking policy, and configuration for every component.
package types

// ScoredPaper pairs a paper with its relevance score for one query.
// Scores are non-negative integers used only for ordering; they carry no
// absolute meaning and are discarded once results are displayed.
type ScoredPaper struct {
	Paper `yaml:",inline"`

	// Score is the relevance score for the query that produced this result.
	Score int `json:"score" yaml:"score"`
}

// Papers strips the scores from a ranked result list.
func Papers(scored []ScoredPaper) []Paper {
	out := make([]Paper, len(scored))
	for i, s := range scored {
		out[i] = s.Paper
	}
	return out
}
