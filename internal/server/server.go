// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the corpus, the ranker, interactive sessions and
// the question answering collaborator over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/pdiddy/research-assistant/internal/ask"
	"github.com/pdiddy/research-assistant/internal/rank"
	"github.com/pdiddy/research-assistant/internal/session"
	"github.com/pdiddy/research-assistant/pkg/types"
)

const (
	shutdownTimeout = 5 * time.Second

	// DefaultSessionIdle is how long a session may go unused before it is
	// dropped.
	DefaultSessionIdle = 30 * time.Minute

	// DefaultMaxSessions caps the number of live sessions.
	DefaultMaxSessions = 1000
)

// Server serves one corpus snapshot. It is safe for concurrent use.
type Server struct {
	corpus     []types.Paper
	ranker     *rank.Ranker
	answerer   ask.Answerer
	limiter    *rate.Limiter
	sessionCfg types.SessionConfig
	logger     *slog.Logger

	sessionIdle time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	sess     *session.Session
	lastUsed time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRanker sets the ranker. Default is rank.Default.
func WithRanker(r *rank.Ranker) Option {
	return func(s *Server) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithAnswerer sets the question answering backend. Without one, ask
// requests fail with 503.
func WithAnswerer(a ask.Answerer) Option {
	return func(s *Server) {
		s.answerer = a
	}
}

// WithRateLimit limits ask requests to perSecond with the given burst.
// perSecond <= 0 disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// WithSessionConfig sets the configuration of sessions created over HTTP.
func WithSessionConfig(cfg types.SessionConfig) Option {
	return func(s *Server) {
		s.sessionCfg = cfg
	}
}

// WithSessionLimits drops sessions unused for longer than idle and keeps
// at most maxSessions, evicting the least recently used. Zero or negative
// values keep the defaults.
func WithSessionLimits(idle time.Duration, maxSessions int) Option {
	return func(s *Server) {
		if idle > 0 {
			s.sessionIdle = idle
		}
		if maxSessions > 0 {
			s.maxSessions = maxSessions
		}
	}
}

// New creates a server for papers. Sessions use session.DefaultDebounce
// and session.DefaultMaxSelections unless WithSessionConfig says otherwise.
func New(papers []types.Paper, opts ...Option) *Server {
	if papers == nil {
		papers = []types.Paper{}
	}
	s := &Server{
		corpus: papers,
		ranker: rank.Default,
		logger: slog.Default(),
		sessionCfg: types.SessionConfig{
			Debounce:      session.DefaultDebounce,
			MaxSelections: session.DefaultMaxSelections,
		},
		sessionIdle: DefaultSessionIdle,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/health", s.healthHandler)

	api := r.Group("/api")
	{
		api.GET("/papers", s.papersHandler)
		api.GET("/search", s.searchHandler)
		api.POST("/ask", s.askHandler)

		api.POST("/sessions", s.createSessionHandler)
		api.GET("/sessions/:id", s.withSession(s.getSessionHandler))
		api.DELETE("/sessions/:id", s.deleteSessionHandler)
		api.PUT("/sessions/:id/query", s.withSession(s.setQueryHandler))
		api.GET("/sessions/:id/results", s.withSession(s.resultsHandler))
		api.GET("/sessions/:id/selection", s.withSession(s.selectionHandler))
		api.POST("/sessions/:id/selection", s.withSession(s.selectAllHandler))
		api.POST("/sessions/:id/selection/:paper", s.withSession(s.toggleSelectionHandler))
		api.DELETE("/sessions/:id/selection", s.withSession(s.clearSelectionHandler))
		api.POST("/sessions/:id/ask", s.withSession(s.sessionAskHandler))
	}
	return r
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", addr, "papers", len(s.corpus))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request through slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
