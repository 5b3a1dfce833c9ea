// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-assistant/internal/highlight"
	"github.com/pdiddy/research-assistant/internal/rank"
	"github.com/pdiddy/research-assistant/internal/report"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Rank the corpus against a query and highlight matches",
	Long: `Search ranks every paper in the corpus by relevance to a free-text query.
Title matches weigh most, followed by keyword, abstract and author matches.
Papers that do not match are left out; when nothing matches, the whole
corpus is shown in its original order. An empty query lists the corpus.

Use --load to display a query file saved earlier with --save.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cslOutput, _ := cmd.Flags().GetBool("csl")
	noColor, _ := cmd.Flags().GetBool("no-color")
	limit, _ := cmd.Flags().GetInt("limit")
	savePath, _ := cmd.Flags().GetString("save")
	loadPath, _ := cmd.Flags().GetString("load")

	if jsonOutput && cslOutput {
		return fmt.Errorf("--json and --csl are mutually exclusive")
	}

	var out report.Output
	if loadPath != "" {
		qf, err := report.ReadQueryFile(loadPath)
		if err != nil {
			return err
		}
		out = qf.Output().Limit(limit)
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		papers, err := loadCorpus(context.Background(), cfg)
		if err != nil {
			return err
		}

		out = report.Build(rank.New(cfg.Ranking.Weights), papers, strings.Join(args, " ")).Limit(limit)

		if savePath != "" {
			qfCfg := report.QueryFileConfig{Source: cfg.Corpus.Source, Limit: limit, Weights: cfg.Ranking.Weights}
			if err := report.WriteQueryFile(savePath, out, qfCfg); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved query to %s\n", savePath)
		}
	}

	switch {
	case jsonOutput:
		return report.FormatJSON(out, os.Stdout)
	case cslOutput:
		return report.FormatCSL(types.Papers(out.Results), os.Stdout)
	}

	render := report.Renderer(highlight.DefaultTerminal().Render)
	if noColor {
		render = report.Plain
	}
	report.FormatTable(out, os.Stdout, render)
	return nil
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as a CSL-YAML bibliography")
	searchCmd.Flags().Int("limit", 0, "maximum number of results to show (0 = all)")
	searchCmd.Flags().Bool("no-color", false, "do not style highlighted matches")
	searchCmd.Flags().String("save", "", "save the query and results to a YAML file")
	searchCmd.Flags().String("load", "", "show results from a saved query file instead of searching")

	rootCmd.AddCommand(searchCmd)
}
