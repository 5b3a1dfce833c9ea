// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-assistant/internal/rank"
	"github.com/pdiddy/research-assistant/internal/session"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about selected papers",
	Long: `Ask sends a question, together with the title, authors, year and abstract
of the selected papers, to the ask backend. The answer is based only on
those papers and cites them as [1], [2], ... in selection order.

Select papers by ID with --papers, or take the top results of --query.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ids, _ := cmd.Flags().GetIntSlice("papers")
	query, _ := cmd.Flags().GetString("query")
	if len(ids) == 0 && query == "" {
		return fmt.Errorf("select papers with --papers or --query")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	answerer := newAnswerer(cfg.Ask)
	if answerer == nil {
		return fmt.Errorf("no ask backend: set ask.endpoint, ask.api_key, or .secrets/anthropic-api-key")
	}

	ctx := context.Background()
	papers, err := loadCorpus(ctx, cfg)
	if err != nil {
		return err
	}

	sel, err := selectPapers(papers, ids, query, cfg)
	if err != nil {
		return err
	}

	answer, err := answerer.Answer(ctx, strings.Join(args, " "), sel.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, answer)
	if citations := sel.ResolveCitations(answer); len(citations) > 0 {
		fmt.Fprintln(os.Stdout, "\nSources:")
		for _, c := range citations {
			fmt.Fprintf(os.Stdout, "  [%d] %s (%s)", c.Number, c.Paper.Title, c.Paper.Year)
			if c.Paper.HasURL() {
				fmt.Fprintf(os.Stdout, " %s", c.Paper.URL)
			}
			fmt.Fprintln(os.Stdout)
		}
	}
	return nil
}

// selectPapers builds the selection from explicit IDs, or from the top
// ranked results of query.
func selectPapers(papers []types.Paper, ids []int, query string, cfg types.AppConfig) (*session.Selection, error) {
	sel := session.NewSelection(cfg.Session.MaxSelections)

	if len(ids) == 0 {
		sel.SelectAll(types.Papers(rank.New(cfg.Ranking.Weights).Scored(papers, query)))
		if sel.Len() == 0 {
			return nil, fmt.Errorf("no papers match %q", query)
		}
		return sel, nil
	}

	byID := make(map[int]types.Paper, len(papers))
	for _, p := range papers {
		byID[p.ID] = p
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("paper %d not in corpus", id)
		}
		if !sel.Add(p) {
			return nil, fmt.Errorf("too many papers: at most %d can be selected", sel.Max())
		}
	}
	return sel, nil
}

func init() {
	askCmd.Flags().IntSlice("papers", nil, "IDs of the papers to ask about (comma-separated)")
	askCmd.Flags().String("query", "", "select the top results of this query instead of --papers")
	askCmd.Flags().String("endpoint", "", "forward the question to a remote /api/ask endpoint")
	viper.BindPFlag("ask.endpoint", askCmd.Flags().Lookup("endpoint"))

	rootCmd.AddCommand(askCmd)
}
