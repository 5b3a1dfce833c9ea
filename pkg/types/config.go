package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-assistant/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CorpusConfig selects the paper dataset for a session.
type CorpusConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Source is a file path (.json, .yaml), an http(s) URL, or a catalog
	// database (sqlite://path or a .db file).
	Source string `json:"source" yaml:"source" mapstructure:"source"`
}

// RankingPolicy holds the weights of the relevance scoring rules. Title
// rules add their weight once; the keyword, abstract and author rules add
// their weight per occurrence of the query.
type RankingPolicy struct {
	ExactTitle     int `json:"exact_title" yaml:"exact_title" mapstructure:"exact_title"`
	TitlePrefix    int `json:"title_prefix" yaml:"title_prefix" mapstructure:"title_prefix"`
	TitleSubstring int `json:"title_substring" yaml:"title_substring" mapstructure:"title_substring"`
	TitleWord      int `json:"title_word" yaml:"title_word" mapstructure:"title_word"`
	Keyword        int `json:"keyword" yaml:"keyword" mapstructure:"keyword"`
	Abstract       int `json:"abstract" yaml:"abstract" mapstructure:"abstract"`
	Author         int `json:"author" yaml:"author" mapstructure:"author"`
}

// DefaultRankingPolicy returns the stock weights.
func DefaultRankingPolicy() RankingPolicy {
	return RankingPolicy{
		ExactTitle:     300,
		TitlePrefix:    200,
		TitleSubstring: 150,
		TitleWord:      80,
		Keyword:        60,
		Abstract:       30,
		Author:         20,
	}
}

// Validate rejects negative weights, which would allow negative scores.
func (p RankingPolicy) Validate() error {
	weights := []struct {
		name  string
		value int
	}{
		{"exact_title", p.ExactTitle},
		{"title_prefix", p.TitlePrefix},
		{"title_substring", p.TitleSubstring},
		{"title_word", p.TitleWord},
		{"keyword", p.Keyword},
		{"abstract", p.Abstract},
		{"author", p.Author},
	}
	for _, w := range weights {
		if w.value < 0 {
			return fmt.Errorf("ranking weight %s must not be negative (got %d)", w.name, w.value)
		}
	}
	return nil
}

// RankingConfig holds settings for the relevance ranker.
type RankingConfig struct {
	Weights RankingPolicy `json:"weights" yaml:"weights" mapstructure:"weights"`
}

// SessionConfig holds settings for an interactive search session.
type SessionConfig struct {
	// Debounce is the quiet period after the last query change before
	// results are re-ranked (default 200ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`

	// MaxSelections caps the number of papers in the selection set
	// (default 10, 0 means no limit).
	MaxSelections int `json:"max_selections" yaml:"max_selections" mapstructure:"max_selections"`
}

// AIConfig holds shared settings for calls to a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// AskConfig holds settings for the question answering collaborator.
type AskConfig struct {
	AIConfig   `yaml:",inline" mapstructure:",squash"`
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint, when set, forwards questions to a remote /api/ask endpoint
	// instead of calling the AI API directly.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`

	// RatePerSecond limits questions served by the HTTP API (default 1).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second" mapstructure:"rate_per_second"`

	// Burst is the rate limiter burst size (default 3).
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`
}

// ServeConfig holds settings for the HTTP API.
type ServeConfig struct {
	// Addr is the listen address (default ":3000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// SessionIdle drops HTTP sessions unused for this long (default 30m).
	SessionIdle time.Duration `json:"session_idle" yaml:"session_idle" mapstructure:"session_idle"`

	// MaxSessions caps live HTTP sessions; the least recently used is
	// evicted first (default 1000).
	MaxSessions int `json:"max_sessions" yaml:"max_sessions" mapstructure:"max_sessions"`
}

// CatalogConfig holds settings for the SQLite corpus catalog.
type CatalogConfig struct {
	// Path is the database file (default "data/catalog.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// AppConfig groups the configuration of every component.
type AppConfig struct {
	Corpus  CorpusConfig  `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	Ranking RankingConfig `json:"ranking" yaml:"ranking" mapstructure:"ranking"`
	Session SessionConfig `json:"session" yaml:"session" mapstructure:"session"`
	Ask     AskConfig     `json:"ask" yaml:"ask" mapstructure:"ask"`
	Serve   ServeConfig   `json:"serve" yaml:"serve" mapstructure:"serve"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
}
