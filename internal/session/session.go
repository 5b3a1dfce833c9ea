// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the state of one interactive search session: the
// corpus snapshot, the current query and its ranked results, and the
// user's selection set. State is explicit and passed to the pure ranking
// and highlighting functions as plain arguments.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"

	"github.com/pdiddy/research-assistant/internal/corpus"
	"github.com/pdiddy/research-assistant/internal/rank"
	"github.com/pdiddy/research-assistant/pkg/types"
)

const (
	// DefaultDebounce is the quiet period after the last query change.
	DefaultDebounce = 200 * time.Millisecond

	// DefaultMaxSelections caps the selection set.
	DefaultMaxSelections = 10
)

// State describes whether the corpus is available.
type State int

const (
	// StateLoading means the corpus is still being fetched. Results are
	// withheld so nothing stale is displayed.
	StateLoading State = iota

	// StateReady means the corpus finished loading, possibly empty after a
	// failed load.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Session is safe for concurrent use.
type Session struct {
	id       string
	ranker   *rank.Ranker
	logger   *slog.Logger
	schedule func(func())
	ready    chan struct{}

	mu        sync.Mutex
	state     State
	loadErr   error
	corpus    []types.Paper
	query     string
	results   []types.Paper
	rankCount int
	onResults func([]types.Paper)

	selection *Selection
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRanker sets the ranker. Default is rank.Default.
func WithRanker(r *rank.Ranker) Option {
	return func(s *Session) {
		if r != nil {
			s.ranker = r
		}
	}
}

// OnResults registers a callback invoked after every re-rank with the new
// results. It runs on the goroutine that performed the rank.
func OnResults(fn func([]types.Paper)) Option {
	return func(s *Session) {
		s.onResults = fn
	}
}

// New creates a session in the loading state.
func New(cfg types.SessionConfig, opts ...Option) *Session {
	delay := cfg.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}
	maxSel := cfg.MaxSelections
	if maxSel < 0 {
		maxSel = DefaultMaxSelections
	}

	s := &Session{
		id:        uuid.NewString(),
		ranker:    rank.Default,
		logger:    slog.Default(),
		schedule:  debounce.New(delay),
		ready:     make(chan struct{}),
		state:     StateLoading,
		selection: NewSelection(maxSel),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Start loads the corpus in the background. The session moves to
// StateReady when loading finishes, with an empty corpus on failure.
func (s *Session) Start(ctx context.Context, l corpus.Loader) {
	go func() {
		papers, err := corpus.Load(ctx, l)
		if err != nil {
			s.logger.Warn("corpus load failed, session continues with an empty corpus",
				"session", s.id, "error", err)
		}
		s.setCorpus(papers, err)
	}()
}

// SetCorpus installs an already-loaded corpus and marks the session ready.
func (s *Session) SetCorpus(papers []types.Paper) {
	s.setCorpus(papers, nil)
}

func (s *Session) setCorpus(papers []types.Paper, err error) {
	if papers == nil {
		papers = []types.Paper{}
	}
	s.mu.Lock()
	if s.state == StateReady {
		s.mu.Unlock()
		return
	}
	s.corpus = papers
	s.loadErr = err
	s.state = StateReady
	s.mu.Unlock()

	close(s.ready)
	s.RankNow()
}

// Ready is closed once the corpus has loaded or failed to load.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// Wait blocks until the session is ready or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the loading state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the corpus load error, if any. A non-nil error wraps
// corpus.ErrCorpusUnavailable.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Corpus returns the corpus snapshot; nil while loading.
func (s *Session) Corpus() []types.Paper {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.corpus
}

// Query returns the current query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetQuery records a new query and schedules a re-rank after the quiet
// period. A pending re-rank from an earlier call is cancelled, so at most
// one rank runs per quiet period.
func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
	s.schedule(s.RankNow)
}

// RankNow re-ranks the corpus against the current query immediately. It is
// a no-op while loading.
func (s *Session) RankNow() {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return
	}
	corpusSnap, query := s.corpus, s.query
	s.mu.Unlock()

	results := s.ranker.Rank(corpusSnap, query)

	s.mu.Lock()
	// A newer query may have arrived while ranking; keep the latest only.
	if s.query != query {
		s.mu.Unlock()
		return
	}
	s.results = results
	s.rankCount++
	cb := s.onResults
	s.mu.Unlock()

	s.logger.Debug("ranked corpus", "session", s.id, "query", query, "results", len(results))
	if cb != nil {
		cb(results)
	}
}

// Results returns the ranked results for the current query. ok is false
// while the corpus is loading.
func (s *Session) Results() (results []types.Paper, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil, false
	}
	return s.results, true
}

// RankCount returns how many ranks have completed. Used to observe
// debouncing.
func (s *Session) RankCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rankCount
}

// Selection returns the session's selection set.
func (s *Session) Selection() *Selection { return s.selection }
