// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/research-assistant/internal/ask"
	"github.com/pdiddy/research-assistant/internal/highlight"
	"github.com/pdiddy/research-assistant/internal/report"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// searchHit is one ranked paper with its highlighted title and abstract.
type searchHit struct {
	types.ScoredPaper
	TitleHighlight    []highlight.Span `json:"title_highlight"`
	AbstractHighlight []highlight.Span `json:"abstract_highlight"`
}

type searchResponse struct {
	Query      string      `json:"query"`
	Fallback   bool        `json:"fallback"`
	CorpusSize int         `json:"corpus_size"`
	Results    []searchHit `json:"results"`
}

// GET /health
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"papers": len(s.corpus),
	})
}

// GET /api/papers
func (s *Server) papersHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.corpus)
}

// GET /api/search?q=...&limit=...
func (s *Server) searchHandler(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	out := report.Build(s.ranker, s.corpus, c.Query("q")).Limit(limit)
	resp := searchResponse{
		Query:      out.Query,
		Fallback:   out.Fallback,
		CorpusSize: out.CorpusSize,
		Results:    make([]searchHit, len(out.Results)),
	}
	for i, r := range out.Results {
		resp.Results[i] = searchHit{
			ScoredPaper:       r,
			TitleHighlight:    highlight.Highlight(r.Title, out.Query),
			AbstractHighlight: highlight.Highlight(r.Abstract, out.Query),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/ask
func (s *Server) askHandler(c *gin.Context) {
	var req ask.Request
	if err := c.ShouldBindJSON(&req); err != nil || req.Validate() != nil {
		c.JSON(http.StatusBadRequest, ask.Response{Error: "Missing question or context"})
		return
	}
	resp, status := s.answer(c, req)
	c.JSON(status, resp)
}

// answer runs req through the rate limiter and the backend and returns the
// response body with its HTTP status.
func (s *Server) answer(c *gin.Context, req ask.Request) (ask.Response, int) {
	if s.answerer == nil {
		return ask.Response{Error: "Question answering is not configured"}, http.StatusServiceUnavailable
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return ask.Response{Error: "Too many questions, try again shortly"}, http.StatusTooManyRequests
	}

	text, err := s.answerer.Answer(c.Request.Context(), req.Question, req.Context)
	if err != nil {
		if errors.Is(err, ask.ErrMissingInput) {
			return ask.Response{Error: "Missing question or context"}, http.StatusBadRequest
		}
		s.logger.Error("ask backend failed", "error", err)
		return ask.Response{Error: "Failed to get AI response"}, http.StatusInternalServerError
	}
	return ask.Response{Answer: text}, http.StatusOK
}

// intQuery parses an optional integer query parameter; absent means 0.
func intQuery(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
