// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// exportDocument is the dataset shape written by ExportJSON. corpus.FileLoader
// and corpus.DecodeJSON read it back.
type exportDocument struct {
	Papers []exportPaper `json:"papers"`
}

type exportPaper struct {
	Title     string   `json:"title"`
	Abstract  string   `json:"abstract"`
	Authors   []string `json:"authors"`
	Year      string   `json:"year"`
	Journal   string   `json:"journal"`
	Keywords  []string `json:"keywords"`
	Citations int      `json:"citations"`
	URL       string   `json:"url"`
}

// ExportJSON writes the stored snapshot to w as an indented JSON dataset.
// It returns the number of papers written.
func (c *Catalog) ExportJSON(ctx context.Context, w io.Writer) (int, error) {
	papers, err := c.Papers(ctx)
	if err != nil {
		return 0, fmt.Errorf("querying for export: %w", err)
	}

	doc := exportDocument{Papers: make([]exportPaper, len(papers))}
	for i, p := range papers {
		doc.Papers[i] = exportPaper{
			Title:     p.Title,
			Abstract:  p.Abstract,
			Authors:   nonNil(p.Authors),
			Year:      p.Year,
			Journal:   p.Journal,
			Keywords:  nonNil(p.Keywords),
			Citations: p.Citations,
			URL:       p.URL,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return 0, fmt.Errorf("encoding JSON: %w", err)
	}
	return len(papers), nil
}
