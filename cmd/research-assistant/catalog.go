// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-assistant/internal/catalog"
	"github.com/pdiddy/research-assistant/internal/corpus"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local SQLite catalog (import, export, count)",
	Long: `Catalog keeps a normalized snapshot of a paper dataset in a local SQLite
database so it can be searched offline. Point --corpus at the catalog
(sqlite://data/catalog.db or any .db file) to search it.`,
}

// --- import subcommand ---

var catalogImportCmd = &cobra.Command{
	Use:   "import <dataset>",
	Short: "Normalize a dataset and store it in the catalog",
	Long: `Import loads a dataset (JSON or YAML file, or http(s) URL), normalizes
every record, and replaces the catalog contents with the result. Unlike
search, import fails when the dataset cannot be read.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()

	loader, closeFn, err := newLoader(args[0], cfg.Corpus)
	if err != nil {
		return err
	}
	defer closeFn()

	papers, err := corpus.Load(ctx, loader)
	if err != nil {
		return err
	}

	c, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Replace(ctx, papers); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "imported %d papers into %s\n", len(papers), c.Path())
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog as a JSON dataset",
	Long: `Export writes the catalog as a JSON dataset ({"papers": [...]}) to
stdout or to --out. The file can be searched directly or imported again.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	n, err := c.ExportJSON(context.Background(), w)
	if err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "Exported %d papers to %s\n", n, outPath)
	}
	return nil
}

// --- count subcommand ---

var catalogCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of papers in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c, err := catalog.Open(cfg.Catalog)
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.Count(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%d papers in %s\n", n, c.Path())
		return nil
	},
}

func init() {
	catalogCmd.PersistentFlags().String("path", "", "catalog database file (default data/catalog.db)")
	viper.BindPFlag("catalog.path", catalogCmd.PersistentFlags().Lookup("path"))

	catalogExportCmd.Flags().String("out", "", "write to this file instead of stdout")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogCountCmd)

	rootCmd.AddCommand(catalogCmd)
}
