// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists a normalized corpus snapshot in SQLite so that
// a dataset fetched once can be searched offline. Papers are stored in
// position order; reading them back yields the same IDs.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-assistant/internal/corpus"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// Catalog manages the catalog SQLite database.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open opens or creates the catalog database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.CatalogConfig) (*Catalog, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("catalog path not set")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &Catalog{db: db, path: cfg.Path}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Catalog) Path() string {
	return c.path
}

func (c *Catalog) createSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		position INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		abstract TEXT NOT NULL,
		authors TEXT NOT NULL,
		year TEXT NOT NULL,
		journal TEXT NOT NULL,
		keywords TEXT NOT NULL,
		citations INTEGER NOT NULL,
		url TEXT NOT NULL
	)`)
	return err
}

// Replace swaps the stored snapshot for papers in one transaction. Papers
// are stored in slice order; their IDs are reassigned by position when
// read back.
func (c *Catalog) Replace(ctx context.Context, papers []types.Paper) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers`); err != nil {
		return fmt.Errorf("clearing papers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (position, title, abstract, authors, year, journal, keywords, citations, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		authorsJSON, err := json.Marshal(nonNil(p.Authors))
		if err != nil {
			return fmt.Errorf("encoding authors of %q: %w", p.Title, err)
		}
		keywordsJSON, err := json.Marshal(nonNil(p.Keywords))
		if err != nil {
			return fmt.Errorf("encoding keywords of %q: %w", p.Title, err)
		}
		_, err = stmt.ExecContext(ctx,
			i+1, p.Title, p.Abstract, string(authorsJSON), p.Year,
			p.Journal, string(keywordsJSON), p.Citations, p.URL,
		)
		if err != nil {
			return fmt.Errorf("inserting paper %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored papers.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// Papers returns the stored snapshot in position order.
func (c *Catalog) Papers(ctx context.Context) ([]types.Paper, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT position, title, abstract, authors, year, journal, keywords, citations, url
		 FROM papers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	papers := []types.Paper{}
	for rows.Next() {
		var (
			p                     types.Paper
			authorsJSON, kwdsJSON string
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Abstract, &authorsJSON, &p.Year,
			&p.Journal, &kwdsJSON, &p.Citations, &p.URL); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors of paper %d: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(kwdsJSON), &p.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords of paper %d: %w", p.ID, err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// Load implements corpus.Loader. The records use canonical field names so
// that corpus.Normalize reproduces the stored papers unchanged.
func (c *Catalog) Load(ctx context.Context) ([]corpus.Record, error) {
	papers, err := c.Papers(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]corpus.Record, len(papers))
	for i, p := range papers {
		records[i] = Record(p)
	}
	return records, nil
}

// Record converts a paper into a raw record with canonical field names.
func Record(p types.Paper) corpus.Record {
	return corpus.Record{
		"title":     p.Title,
		"abstract":  p.Abstract,
		"authors":   nonNil(p.Authors),
		"year":      p.Year,
		"journal":   p.Journal,
		"keywords":  nonNil(p.Keywords),
		"citations": p.Citations,
		"url":       p.URL,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
