// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-assistant/internal/httputil"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// ErrCorpusUnavailable reports that the dataset could not be fetched or
// parsed. Callers substitute an empty corpus.
var ErrCorpusUnavailable = errors.New("corpus unavailable")

// Loader fetches raw paper records from a dataset.
type Loader interface {
	Load(ctx context.Context) ([]Record, error)
}

// Load fetches and normalizes a corpus. On failure it returns an empty,
// non-nil corpus together with an error wrapping ErrCorpusUnavailable, so
// callers that ignore the error still get a usable zero-length corpus.
func Load(ctx context.Context, l Loader) ([]types.Paper, error) {
	records, err := l.Load(ctx)
	if err != nil {
		return []types.Paper{}, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	return Normalize(records), nil
}

// LoadOrEmpty is Load for callers that only display results: failures are
// logged as warnings and surface as an empty corpus.
func LoadOrEmpty(ctx context.Context, l Loader, logger *slog.Logger) []types.Paper {
	papers, err := Load(ctx, l)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("corpus load failed, continuing with an empty corpus", "error", err)
	}
	return papers
}

// FileLoader reads a dataset file. Files ending in .yaml or .yml are parsed
// as YAML; everything else as JSON.
type FileLoader struct {
	Path string
}

// Load implements Loader.
func (f FileLoader) Load(_ context.Context) ([]Record, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", f.Path, err)
	}
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// HTTPLoader fetches a JSON dataset over HTTP, retrying on HTTP 429.
type HTTPLoader struct {
	URL        string
	Client     *http.Client
	Config     types.HTTPConfig
	MaxRetries int
}

// Load implements Loader.
func (h HTTPLoader) Load(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.Config.UserAgent != "" {
		req.Header.Set("User-Agent", h.Config.UserAgent)
	}

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: h.Config.Timeout}
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, h.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching dataset %s: %w", h.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("dataset %s returned %d: %s", h.URL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading dataset body: %w", err)
	}
	return DecodeJSON(data)
}

// DecodeJSON parses a dataset that is either an array of paper objects or
// an object holding that array under "papers".
func DecodeJSON(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("parsing dataset: empty document")
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing dataset JSON: %w", err)
	}
	return recordsFrom(v)
}

// DecodeYAML parses a YAML dataset with the same shapes as DecodeJSON.
func DecodeYAML(data []byte) ([]Record, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing dataset YAML: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("parsing dataset: empty document")
	}
	return recordsFrom(v)
}

func recordsFrom(v any) ([]Record, error) {
	if obj, ok := v.(map[string]any); ok {
		inner, found := obj["papers"]
		if !found {
			return nil, fmt.Errorf("parsing dataset: object has no \"papers\" list")
		}
		v = inner
	}

	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("parsing dataset: expected a list of papers, got %T", v)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parsing dataset: entry %d is %T, not an object", i+1, item)
		}
		records = append(records, Record(m))
	}
	return records, nil
}
