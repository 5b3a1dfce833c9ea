// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results, so
// a ranked list can be reviewed later without reloading the dataset.
type QueryFile struct {
	Query   string              `yaml:"query"`
	Config  QueryFileConfig     `yaml:"config"`
	Results []types.ScoredPaper `yaml:"results"`
	Summary QuerySummary        `yaml:"summary"`
}

// QueryFileConfig stores the settings that produced the results.
type QueryFileConfig struct {
	Source  string              `yaml:"source,omitempty"`
	Limit   int                 `yaml:"limit,omitempty"`
	Weights types.RankingPolicy `yaml:"weights"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total      int       `yaml:"total"`
	CorpusSize int       `yaml:"corpus_size"`
	Fallback   bool      `yaml:"fallback"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a search and its results to a YAML file.
func WriteQueryFile(path string, out Output, cfg QueryFileConfig) error {
	qf := QueryFile{
		Query:   out.Query,
		Config:  cfg,
		Results: out.Results,
		Summary: QuerySummary{
			Total:      len(out.Results),
			CorpusSize: out.CorpusSize,
			Fallback:   out.Fallback,
			Timestamp:  time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Output rebuilds the search output stored in the file.
func (qf *QueryFile) Output() Output {
	return Output{
		Query:      qf.Query,
		Results:    qf.Results,
		Fallback:   qf.Summary.Fallback,
		CorpusSize: qf.Summary.CorpusSize,
	}
}
