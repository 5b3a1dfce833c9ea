// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-assistant/internal/catalog"
	"github.com/pdiddy/research-assistant/internal/corpus"
	"github.com/pdiddy/research-assistant/pkg/types"
)

func TestNewLoader(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	c, err := catalog.Open(types.CatalogConfig{Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	tests := []struct {
		name   string
		source string
		check  func(t *testing.T, l corpus.Loader)
	}{
		{"https URL", "https://example.org/papers.json", func(t *testing.T, l corpus.Loader) {
			h, ok := l.(corpus.HTTPLoader)
			require.True(t, ok, "got %T", l)
			assert.Equal(t, "https://example.org/papers.json", h.URL)
		}},
		{"openalex search", "openalex:bone loss", func(t *testing.T, l corpus.Loader) {
			o, ok := l.(corpus.OpenAlexLoader)
			require.True(t, ok, "got %T", l)
			assert.Equal(t, "bone loss", o.Search)
		}},
		{"json file", "data/papers.json", func(t *testing.T, l corpus.Loader) {
			assert.Equal(t, corpus.FileLoader{Path: "data/papers.json"}, l)
		}},
		{"sqlite scheme", "sqlite://" + dbPath, func(t *testing.T, l corpus.Loader) {
			c, ok := l.(*catalog.Catalog)
			require.True(t, ok, "got %T", l)
			assert.Equal(t, dbPath, c.Path())
		}},
		{"db extension", dbPath, func(t *testing.T, l corpus.Loader) {
			_, ok := l.(*catalog.Catalog)
			assert.True(t, ok, "got %T", l)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, closeFn, err := newLoader(tt.source, types.CorpusConfig{})
			require.NoError(t, err)
			defer closeFn()
			tt.check(t, l)
		})
	}
}

func TestNewLoaderRequiresSource(t *testing.T) {
	_, closeFn, err := newLoader("", types.CorpusConfig{})
	require.Error(t, err)
	assert.NoError(t, closeFn())
}

func TestSelectPapers(t *testing.T) {
	papers := []types.Paper{
		{ID: 1, Title: "Plant Growth"},
		{ID: 2, Title: "Bone Loss"},
		{ID: 3, Title: "Bone Density"},
	}
	cfg := types.AppConfig{
		Ranking: types.RankingConfig{Weights: types.DefaultRankingPolicy()},
		Session: types.SessionConfig{MaxSelections: 2},
	}

	sel, err := selectPapers(papers, []int{3, 1}, "", cfg)
	require.NoError(t, err)
	assert.Equal(t, []types.Paper{papers[2], papers[0]}, sel.Papers())

	sel, err = selectPapers(papers, nil, "bone", cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, sel.Len())
	assert.False(t, sel.Contains(1))

	_, err = selectPapers(papers, []int{9}, "", cfg)
	assert.Error(t, err)

	_, err = selectPapers(papers, []int{1, 2, 3}, "", cfg)
	assert.ErrorContains(t, err, "at most 2")

	_, err = selectPapers(papers, nil, "zzzz", cfg)
	assert.Error(t, err)
}

func TestLoadCorpusMissingFileWarns(t *testing.T) {
	cfg := types.AppConfig{Corpus: types.CorpusConfig{Source: filepath.Join(t.TempDir(), "missing.json")}}

	stderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	papers, err := loadCorpus(t.Context(), cfg)
	w.Close()
	os.Stderr = stderr

	require.NoError(t, err)
	assert.NotNil(t, papers)
	assert.Empty(t, papers)

	buf := make([]byte, 512)
	n, _ := r.Read(buf)
	assert.Contains(t, string(buf[:n]), "warning: corpus unavailable")
}

func TestNewLoaderMissingCatalog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	for _, source := range []string{
		filepath.Join(dir, "missing.db"),
		"sqlite://" + filepath.Join(dir, "missing.sqlite"),
	} {
		t.Run(source, func(t *testing.T) {
			_, closeFn, err := newLoader(source, types.CorpusConfig{})
			defer closeFn()
			require.ErrorIs(t, err, corpus.ErrCorpusUnavailable)

			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr), "reading a missing catalog must not create %s", dir)
		})
	}
}

func TestLoadCorpusMissingCatalogWarns(t *testing.T) {
	cfg := types.AppConfig{Corpus: types.CorpusConfig{Source: filepath.Join(t.TempDir(), "missing.db")}}

	stderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	papers, err := loadCorpus(t.Context(), cfg)
	w.Close()
	os.Stderr = stderr

	require.NoError(t, err)
	assert.NotNil(t, papers)
	assert.Empty(t, papers)

	buf := make([]byte, 512)
	n, _ := r.Read(buf)
	assert.Contains(t, string(buf[:n]), "warning: corpus unavailable")
	assert.NoFileExists(t, cfg.Corpus.Source)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("RESEARCH_ASSISTANT_ASK_API_KEY", "sk-env")
	t.Setenv("RESEARCH_ASSISTANT_ASK_ENDPOINT", "http://localhost:3000/api/ask")
	t.Setenv("RESEARCH_ASSISTANT_SESSION_MAX_SELECTIONS", "4")
	t.Chdir(t.TempDir())
	initConfig()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.Ask.APIKey)
	assert.Equal(t, "http://localhost:3000/api/ask", cfg.Ask.Endpoint)
	assert.Equal(t, 4, cfg.Session.MaxSelections)
	assert.Equal(t, viper.GetString("ask.api_key"), cfg.Ask.APIKey)
}
