// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ask

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/research-assistant/internal/httputil"
)

// RemoteBackend forwards questions to an /api/ask endpoint that accepts a
// Request and replies with a Response.
type RemoteBackend struct {
	Endpoint   string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
}

// Answer implements Answerer.
func (r *RemoteBackend) Answer(ctx context.Context, question, contextText string) (string, error) {
	askReq := Request{Question: question, Context: contextText}
	if err := askReq.Validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(askReq)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, r.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", r.Endpoint, err)
	}
	defer resp.Body.Close()

	var askResp Response
	if err := json.NewDecoder(resp.Body).Decode(&askResp); err != nil {
		return "", fmt.Errorf("decoding response from %s (status %d): %w", r.Endpoint, resp.StatusCode, err)
	}
	if askResp.Error != "" {
		return "", fmt.Errorf("ask endpoint returned %d: %s", resp.StatusCode, askResp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ask endpoint returned %d", resp.StatusCode)
	}
	return askResp.Answer, nil
}
