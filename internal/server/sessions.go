// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/research-assistant/internal/ask"
	"github.com/pdiddy/research-assistant/internal/session"
	"github.com/pdiddy/research-assistant/pkg/types"
)

type sessionResponse struct {
	ID        string        `json:"id"`
	State     string        `json:"state"`
	Query     string        `json:"query"`
	Selection []types.Paper `json:"selection"`
	Max       int           `json:"max_selections"`
}

type resultsResponse struct {
	State   string        `json:"state"`
	Query   string        `json:"query"`
	Results []types.Paper `json:"results"`
}

type queryRequest struct {
	Query string `json:"query"`

	// Immediate ranks now instead of after the quiet period.
	Immediate bool `json:"immediate"`
}

type sessionAskRequest struct {
	Question string `json:"question"`
}

type sessionAskResponse struct {
	Answer    string             `json:"answer"`
	Citations []session.Citation `json:"citations"`
}

// withSession resolves the :id parameter and passes the session on.
func (s *Server) withSession(h func(*gin.Context, *session.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.expireLocked()
		e, ok := s.sessions[c.Param("id")]
		if ok {
			e.lastUsed = s.now()
		}
		s.mu.Unlock()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h(c, e.sess)
	}
}

// expireLocked drops sessions idle for longer than s.sessionIdle. s.mu
// must be held.
func (s *Server) expireLocked() {
	cutoff := s.now().Add(-s.sessionIdle)
	for id, e := range s.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Debug("session expired", "session", id)
		}
	}
}

// makeRoomLocked expires idle sessions, then evicts the least recently
// used ones until one more fits. s.mu must be held.
func (s *Server) makeRoomLocked() {
	s.expireLocked()
	for len(s.sessions) >= s.maxSessions {
		oldest := ""
		for id, e := range s.sessions {
			if oldest == "" || e.lastUsed.Before(s.sessions[oldest].lastUsed) {
				oldest = id
			}
		}
		delete(s.sessions, oldest)
		s.logger.Debug("session evicted", "session", oldest)
	}
}

// POST /api/sessions
func (s *Server) createSessionHandler(c *gin.Context) {
	sess := session.New(s.sessionCfg, session.WithRanker(s.ranker), session.WithLogger(s.logger))
	sess.SetCorpus(s.corpus)

	s.mu.Lock()
	s.makeRoomLocked()
	s.sessions[sess.ID()] = &sessionEntry{sess: sess, lastUsed: s.now()}
	s.mu.Unlock()

	s.logger.Debug("session created", "session", sess.ID())
	c.JSON(http.StatusCreated, describe(sess))
}

// GET /api/sessions/:id
func (s *Server) getSessionHandler(c *gin.Context, sess *session.Session) {
	c.JSON(http.StatusOK, describe(sess))
}

// DELETE /api/sessions/:id
func (s *Server) deleteSessionHandler(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /api/sessions/:id/query
func (s *Server) setQueryHandler(c *gin.Context, sess *session.Session) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query body"})
		return
	}
	sess.SetQuery(req.Query)
	if req.Immediate {
		sess.RankNow()
	}
	c.JSON(http.StatusAccepted, gin.H{"query": req.Query})
}

// GET /api/sessions/:id/results
func (s *Server) resultsHandler(c *gin.Context, sess *session.Session) {
	results, ok := sess.Results()
	if !ok {
		c.JSON(http.StatusOK, resultsResponse{State: sess.State().String(), Query: sess.Query(), Results: []types.Paper{}})
		return
	}
	c.JSON(http.StatusOK, resultsResponse{State: sess.State().String(), Query: sess.Query(), Results: results})
}

// GET /api/sessions/:id/selection
func (s *Server) selectionHandler(c *gin.Context, sess *session.Session) {
	c.JSON(http.StatusOK, describe(sess))
}

// POST /api/sessions/:id/selection selects every current result up to the
// limit, or clears the selection when all results are already selected.
func (s *Server) selectAllHandler(c *gin.Context, sess *session.Session) {
	results, ok := sess.Results()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "corpus is still loading"})
		return
	}
	sess.Selection().SelectAll(results)
	c.JSON(http.StatusOK, describe(sess))
}

// POST /api/sessions/:id/selection/:paper
func (s *Server) toggleSelectionHandler(c *gin.Context, sess *session.Session) {
	id, err := strconv.Atoi(c.Param("paper"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paper id must be an integer"})
		return
	}
	p, ok := s.paper(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "paper not found"})
		return
	}

	sel := sess.Selection()
	wasSelected := sel.Contains(id)
	if selected := sel.Toggle(p); !wasSelected && !selected {
		c.JSON(http.StatusConflict, gin.H{"error": "selection is full", "max_selections": sel.Max()})
		return
	}
	c.JSON(http.StatusOK, describe(sess))
}

// DELETE /api/sessions/:id/selection
func (s *Server) clearSelectionHandler(c *gin.Context, sess *session.Session) {
	sess.Selection().Clear()
	c.JSON(http.StatusOK, describe(sess))
}

// POST /api/sessions/:id/ask answers a question from the selected papers.
func (s *Server) sessionAskHandler(c *gin.Context, sess *session.Session) {
	var req sessionAskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ask.Response{Error: "Missing question or context"})
		return
	}
	sel := sess.Selection()
	if sel.Len() == 0 {
		c.JSON(http.StatusBadRequest, ask.Response{Error: "No papers selected"})
		return
	}

	askReq := ask.Request{Question: req.Question, Context: sel.Context()}
	if askReq.Validate() != nil {
		c.JSON(http.StatusBadRequest, ask.Response{Error: "Missing question or context"})
		return
	}
	resp, status := s.answer(c, askReq)
	if status != http.StatusOK {
		c.JSON(status, resp)
		return
	}
	citations := sel.ResolveCitations(resp.Answer)
	if citations == nil {
		citations = []session.Citation{}
	}
	c.JSON(http.StatusOK, sessionAskResponse{Answer: resp.Answer, Citations: citations})
}

// paper looks up a corpus paper by ID.
func (s *Server) paper(id int) (types.Paper, bool) {
	if id < 1 || id > len(s.corpus) || s.corpus[id-1].ID != id {
		for _, p := range s.corpus {
			if p.ID == id {
				return p, true
			}
		}
		return types.Paper{}, false
	}
	return s.corpus[id-1], true
}

func describe(sess *session.Session) sessionResponse {
	sel := sess.Selection()
	return sessionResponse{
		ID:        sess.ID(),
		State:     sess.State().String(),
		Query:     sess.Query(),
		Selection: sel.Papers(),
		Max:       sel.Max(),
	}
}
