// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/research-assistant/internal/catalog"
	"github.com/pdiddy/research-assistant/internal/corpus"
	"github.com/pdiddy/research-assistant/internal/secrets"
	"github.com/pdiddy/research-assistant/pkg/types"
)

const (
	sqliteScheme   = "sqlite://"
	openAlexScheme = "openalex:"
)

// newLoader picks a corpus loader for source by its form: http(s) URLs
// are fetched, openalex:<terms> runs an OpenAlex works search, sqlite://
// paths and .db files are read from a catalog, and anything else is a
// dataset file. The returned close function releases
// the catalog, if one was opened. A catalog that does not exist yet is
// reported as corpus.ErrCorpusUnavailable instead of being created.
func newLoader(source string, cfg types.CorpusConfig) (corpus.Loader, func() error, error) {
	noop := func() error { return nil }
	switch {
	case source == "":
		return nil, noop, fmt.Errorf("no corpus source: pass --corpus or set corpus.source")
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return corpus.HTTPLoader{URL: source, Config: cfg.HTTPConfig}, noop, nil
	case strings.HasPrefix(source, openAlexScheme):
		return corpus.OpenAlexLoader{
			Search: strings.TrimPrefix(source, openAlexScheme),
			Email:  loadedSecrets.Get(secrets.OpenAlexEmail, ""),
			Config: cfg.HTTPConfig,
		}, noop, nil
	case strings.HasPrefix(source, sqliteScheme), strings.EqualFold(filepath.Ext(source), ".db"):
		path := strings.TrimPrefix(source, sqliteScheme)
		if _, err := os.Stat(path); err != nil {
			return nil, noop, fmt.Errorf("%w: %w", corpus.ErrCorpusUnavailable, err)
		}
		c, err := catalog.Open(types.CatalogConfig{Path: path})
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	default:
		return corpus.FileLoader{Path: source}, noop, nil
	}
}

// loadCorpus loads the configured corpus. A source that cannot be read
// produces a warning and an empty corpus, never an error.
func loadCorpus(ctx context.Context, cfg types.AppConfig) ([]types.Paper, error) {
	loader, closeFn, err := newLoader(cfg.Corpus.Source, cfg.Corpus)
	if errors.Is(err, corpus.ErrCorpusUnavailable) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return []types.Paper{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer closeFn()

	papers, err := corpus.Load(ctx, loader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return papers, nil
}
