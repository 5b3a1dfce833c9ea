// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders a paper corpus by relevance to a free-text query.
//
// Ranking is a pure function of (corpus, query, policy): it never mutates
// the corpus, never returns an error, and degrades to the unranked corpus
// whenever relevance filtering would leave nothing to show.
package rank

import (
	"sort"
	"strings"

	"github.com/pdiddy/research-assistant/internal/match"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// Ranker scores papers with a fixed policy.
type Ranker struct {
	policy types.RankingPolicy
}

// New returns a Ranker using policy. Negative weights are clamped to zero
// so scores stay non-negative; use RankingPolicy.Validate to reject them
// up front.
func New(policy types.RankingPolicy) *Ranker {
	clamp := func(w int) int { return max(w, 0) }
	return &Ranker{policy: types.RankingPolicy{
		ExactTitle:     clamp(policy.ExactTitle),
		TitlePrefix:    clamp(policy.TitlePrefix),
		TitleSubstring: clamp(policy.TitleSubstring),
		TitleWord:      clamp(policy.TitleWord),
		Keyword:        clamp(policy.Keyword),
		Abstract:       clamp(policy.Abstract),
		Author:         clamp(policy.Author),
	}}
}

// Default is a Ranker with the stock weights.
var Default = New(types.DefaultRankingPolicy())

// Rank orders corpus by relevance to query using the stock weights.
func Rank(corpus []types.Paper, query string) []types.Paper {
	return Default.Rank(corpus, query)
}

// Policy returns the weights in effect.
func (r *Ranker) Policy() types.RankingPolicy { return r.policy }

// Rank returns the papers of corpus ordered by descending score.
//
// An empty (or whitespace-only) query returns corpus unchanged. Papers
// scoring zero are dropped; ties keep their corpus order. When no paper
// scores above zero the full corpus is returned in its original order.
func (r *Ranker) Rank(corpus []types.Paper, query string) []types.Paper {
	if match.Normalize(query) == "" {
		return corpus
	}
	scored := r.Scored(corpus, query)
	if len(scored) == 0 {
		return corpus
	}
	return types.Papers(scored)
}

// Scored returns only the papers that score above zero, sorted by
// descending score with ties in corpus order. It returns an empty slice
// for an empty query or when nothing matches; callers that want the
// fallback behaviour use Rank.
func (r *Ranker) Scored(corpus []types.Paper, query string) []types.ScoredPaper {
	m, err := match.Compile(query)
	if err != nil {
		return []types.ScoredPaper{}
	}

	scored := make([]types.ScoredPaper, 0, len(corpus))
	for _, p := range corpus {
		if s := r.score(p, m); s > 0 {
			scored = append(scored, types.ScoredPaper{Paper: p, Score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Score computes the relevance of a single paper. It returns 0 for an
// empty or unusable query.
func (r *Ranker) Score(p types.Paper, query string) int {
	m, err := match.Compile(query)
	if err != nil {
		return 0
	}
	return r.score(p, m)
}

// score sums every rule independently; a title that equals the query also
// starts with it and contains it, and collects all three weights.
func (r *Ranker) score(p types.Paper, m *match.Matcher) int {
	w := r.policy
	total := 0

	if m.Equal(p.Title) {
		total += w.ExactTitle
	}
	if m.HasPrefix(p.Title) {
		total += w.TitlePrefix
	}
	if m.Contains(p.Title) {
		total += w.TitleSubstring
	}
	if m.ContainsWord(p.Title) {
		total += w.TitleWord
	}

	total += w.Keyword * m.Count(strings.Join(p.Keywords, " "))
	total += w.Abstract * m.Count(p.Abstract)
	total += w.Author * m.Count(strings.Join(p.Authors, ", "))

	return total
}
