// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-assistant CLI. It
// searches a paper corpus with relevance ranking and highlighting, keeps a
// local SQLite catalog of the corpus, serves the HTTP API, and answers
// questions about selected papers.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-assistant/internal/secrets"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the research-assistant CLI.
var rootCmd = &cobra.Command{
	Use:   "research-assistant",
	Short: "Search, rank and question a corpus of research papers",
	Long: `research-assistant loads a corpus of research papers from a JSON or YAML
dataset, an HTTP endpoint, or a local SQLite catalog, ranks it against a
free-text query, and highlights the matches.

Selected papers can be sent, with a question, to a Generative AI backend
that answers strictly from their abstracts and cites them by number.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 && verbose {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-assistant.yaml or ~/.config/research-assistant/research-assistant.yaml)")
	rootCmd.PersistentFlags().String("corpus", "", "paper dataset: .json/.yaml file, http(s) URL, openalex:<search>, or catalog (sqlite://path or .db)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	viper.BindPFlag("corpus.source", rootCmd.PersistentFlags().Lookup("corpus"))
	setDefaults()
}

// setDefaults registers the default of every configuration key.
// Keys without a useful default are still registered so that
// viper.Unmarshal picks them up from the environment.
func setDefaults() {
	viper.SetDefault("corpus.source", "")
	viper.SetDefault("corpus.timeout", "30s")
	viper.SetDefault("corpus.user_agent", "research-assistant/"+version)

	w := types.DefaultRankingPolicy()
	viper.SetDefault("ranking.weights.exact_title", w.ExactTitle)
	viper.SetDefault("ranking.weights.title_prefix", w.TitlePrefix)
	viper.SetDefault("ranking.weights.title_substring", w.TitleSubstring)
	viper.SetDefault("ranking.weights.title_word", w.TitleWord)
	viper.SetDefault("ranking.weights.keyword", w.Keyword)
	viper.SetDefault("ranking.weights.abstract", w.Abstract)
	viper.SetDefault("ranking.weights.author", w.Author)

	viper.SetDefault("session.debounce", "200ms")
	viper.SetDefault("session.max_selections", 10)

	viper.SetDefault("ask.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("ask.api_key", "")
	viper.SetDefault("ask.endpoint", "")
	viper.SetDefault("ask.max_retries", 3)
	viper.SetDefault("ask.timeout", "120s")
	viper.SetDefault("ask.user_agent", "research-assistant/"+version)
	viper.SetDefault("ask.rate_per_second", 1.0)
	viper.SetDefault("ask.burst", 3)

	viper.SetDefault("serve.addr", ":3000")
	viper.SetDefault("serve.session_idle", "30m")
	viper.SetDefault("serve.max_sessions", 1000)
	viper.SetDefault("catalog.path", filepath.Join("data", "catalog.db"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-assistant")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-assistant"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_ASSISTANT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged configuration (defaults, file, env,
// flags) and validates it.
func loadConfig() (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Ranking.Weights.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Session.MaxSelections < 0 {
		return cfg, fmt.Errorf("invalid configuration: session.max_selections must not be negative")
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
