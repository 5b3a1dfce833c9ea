// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ask answers questions about a set of selected papers. The answer
// must come strictly from the supplied context text; backends either call a
// Generative AI API directly or forward to a remote /api/ask endpoint.
package ask

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrMissingInput reports a request without a question or context.
	ErrMissingInput = errors.New("missing question or context")

	// ErrNoBackend reports that no answering backend is configured.
	ErrNoBackend = errors.New("no answer backend configured")
)

// NotFoundAnswer is the reply the model is instructed to give when the
// context does not contain the answer.
const NotFoundAnswer = "The information is not found in the provided papers."

// Request is the JSON body of an ask call.
type Request struct {
	Question string `json:"question" yaml:"question"`
	Context  string `json:"context" yaml:"context"`
}

// Response is the JSON body returned by an ask call: Answer on success,
// Error on failure.
type Response struct {
	Answer string `json:"answer,omitempty" yaml:"answer,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Validate rejects requests with a blank question or context.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Question) == "" || strings.TrimSpace(r.Context) == "" {
		return ErrMissingInput
	}
	return nil
}

// Answerer produces an answer to question using only contextText.
type Answerer interface {
	Answer(ctx context.Context, question, contextText string) (string, error)
}
