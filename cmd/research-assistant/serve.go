// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-assistant/internal/ask"
	"github.com/pdiddy/research-assistant/internal/rank"
	"github.com/pdiddy/research-assistant/internal/secrets"
	"github.com/pdiddy/research-assistant/internal/server"
	"github.com/pdiddy/research-assistant/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the corpus, search, sessions and ask over HTTP",
	Long: `Serve loads the corpus once and exposes it over HTTP:

  GET  /api/papers           normalized corpus
  GET  /api/search?q=        ranked, highlighted results
  POST /api/ask              {question, context} -> {answer}
  POST /api/sessions         interactive sessions with a selection set

Questions are answered by the Claude API when an API key is configured, or
forwarded to ask.endpoint when set.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	papers, err := loadCorpus(ctx, cfg)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	opts := []server.Option{
		server.WithLogger(slog.Default()),
		server.WithRanker(rank.New(cfg.Ranking.Weights)),
		server.WithRateLimit(cfg.Ask.RatePerSecond, cfg.Ask.Burst),
		server.WithSessionConfig(cfg.Session),
		server.WithSessionLimits(cfg.Serve.SessionIdle, cfg.Serve.MaxSessions),
	}
	if a := newAnswerer(cfg.Ask); a != nil {
		opts = append(opts, server.WithAnswerer(a))
	} else {
		fmt.Fprintln(os.Stderr, "warning: no ask backend configured; /api/ask will return 503")
	}

	fmt.Fprintf(os.Stderr, "Serving %d papers on %s\n", len(papers), cfg.Serve.Addr)
	return server.New(papers, opts...).Run(ctx, cfg.Serve.Addr)
}

// newAnswerer builds the configured ask backend: a remote endpoint when
// set, otherwise the Claude API when a key is available. It returns nil
// when neither is configured.
func newAnswerer(cfg types.AskConfig) ask.Answerer {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Endpoint != "" {
		return &ask.RemoteBackend{
			Endpoint:   cfg.Endpoint,
			UserAgent:  cfg.UserAgent,
			MaxRetries: cfg.MaxRetries,
			Client:     client,
		}
	}
	key := loadedSecrets.Get(secrets.AnthropicAPIKey, cfg.APIKey)
	if key == "" {
		return nil
	}
	return &ask.ClaudeBackend{
		APIKey:     key,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
		Client:     client,
	}
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
