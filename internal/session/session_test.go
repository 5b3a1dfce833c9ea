// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-assistant/internal/corpus"
	"github.com/pdiddy/research-assistant/internal/rank"
	"github.com/pdiddy/research-assistant/pkg/types"
)

type blockingLoader struct {
	release chan struct{}
	records []corpus.Record
	err     error
}

func (b *blockingLoader) Load(ctx context.Context) ([]corpus.Record, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.records, b.err
}

func sampleRecords() []corpus.Record {
	return []corpus.Record{
		{"title": "Microgravity Effects on Bone", "keywords": []any{"microgravity", "bone"}},
		{"title": "Radiation and DNA Repair", "keywords": []any{"radiation"}},
		{"title": "Protein Crystallization in Microgravity"},
	}
}

func testConfig() types.SessionConfig {
	return types.SessionConfig{Debounce: 20 * time.Millisecond, MaxSelections: 10}
}

func TestSessionLoadingWithholdsResults(t *testing.T) {
	loader := &blockingLoader{release: make(chan struct{}), records: sampleRecords()}
	s := New(testConfig())
	assert.NotEmpty(t, s.ID())

	s.Start(context.Background(), loader)
	assert.Equal(t, StateLoading, s.State())
	_, ok := s.Results()
	assert.False(t, ok)

	// Queries typed while loading apply once the corpus arrives.
	s.SetQuery("radiation")

	close(loader.release)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))

	assert.Equal(t, StateReady, s.State())
	assert.NoError(t, s.Err())
	require.Len(t, s.Corpus(), 3)

	assert.Eventually(t, func() bool {
		results, ok := s.Results()
		return ok && len(results) == 1 && results[0].ID == 2
	}, time.Second, 5*time.Millisecond)
}

func TestSessionLoadFailureGivesEmptyCorpus(t *testing.T) {
	loader := &blockingLoader{release: make(chan struct{}), err: errors.New("fetch failed")}
	close(loader.release)

	s := New(testConfig())
	s.Start(context.Background(), loader)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))

	assert.ErrorIs(t, s.Err(), corpus.ErrCorpusUnavailable)
	results, ok := s.Results()
	assert.True(t, ok)
	assert.Empty(t, results)

	s.SetQuery("anything")
	s.RankNow()
	results, ok = s.Results()
	assert.True(t, ok)
	assert.Empty(t, results)
}

func TestSessionEmptyQueryShowsCorpus(t *testing.T) {
	s := New(testConfig())
	s.SetCorpus(corpus.Normalize(sampleRecords()))

	results, ok := s.Results()
	require.True(t, ok)
	assert.Len(t, results, 3)
	assert.Equal(t, 1, results[0].ID)
}

func TestSessionDebouncesQueryChanges(t *testing.T) {
	var (
		mu   sync.Mutex
		seen [][]types.Paper
	)
	s := New(testConfig(), OnResults(func(r []types.Paper) {
		mu.Lock()
		seen = append(seen, r)
		mu.Unlock()
	}))
	s.SetCorpus(corpus.Normalize(sampleRecords()))
	require.Equal(t, 1, s.RankCount())

	for _, q := range []string{"m", "mi", "mic", "micro", "microgravity"} {
		s.SetQuery(q)
	}

	assert.Eventually(t, func() bool { return s.RankCount() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 2, s.RankCount(), "rapid changes must coalesce into one rank")

	results, ok := s.Results()
	require.True(t, ok)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].ID)
	assert.Equal(t, "microgravity", s.Query())

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 2)
}

func TestSessionRankNowIsSynchronous(t *testing.T) {
	s := New(testConfig())
	s.SetCorpus(corpus.Normalize(sampleRecords()))

	s.SetQuery("zzz-no-match")
	s.RankNow()
	results, ok := s.Results()
	require.True(t, ok)
	assert.Len(t, results, 3, "no match falls back to the full corpus")
}

func TestSessionCustomRanker(t *testing.T) {
	s := New(testConfig(), WithRanker(rank.New(types.RankingPolicy{Keyword: 1})))
	s.SetCorpus(corpus.Normalize(sampleRecords()))

	s.SetQuery("microgravity")
	s.RankNow()
	results, _ := s.Results()
	require.Len(t, results, 1, "only keyword matches count under this policy")
	assert.Equal(t, 1, results[0].ID)
}

func TestSessionSetCorpusOnlyOnce(t *testing.T) {
	s := New(testConfig())
	s.SetCorpus(corpus.Normalize(sampleRecords()))
	s.SetCorpus([]types.Paper{})
	assert.Len(t, s.Corpus(), 3)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "unknown", State(7).String())
}
