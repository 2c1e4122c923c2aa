// memory is a memory-match card game for the terminal, SSH and HTTP.
//
// Usage:
//
//	memory play [difficulty]   - Play in this terminal
//	memory serve               - Start the SSH server for remote play
//	memory web                 - Start the JSON HTTP API
//	memory levels              - Print the level table
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.memory/config.yaml, ./configs/memory.yaml)
//	--seed <value>      - RNG seed for reproducible deals and shuffles
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/memory-match/internal/catalog"
	"github.com/vovakirdan/memory-match/internal/config"
	"github.com/vovakirdan/memory-match/internal/shuffle"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagLogLevel string

	// Loaded by the root command before any subcommand runs.
	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "memory",
	Short: "Memory Game - click every character once",
	Long: `Memory Game deals a hand of characters from the catalog. Click each
card exactly once: the active cards reshuffle after every match, and
clicking a card twice ends the run.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  web      - Start the JSON HTTP API
  levels   - Show the level table

Examples:
  memory play
  memory play hard
  memory serve --ssh :2222
  memory web --addr :8081`,
	PersistentPreRun: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(levelsCmd)
}

func loadConfig(_ *cobra.Command, _ []string) {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	loaded, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	if _, err := loaded.LogLevel(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded
}

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	lvl, _ := cfg.LogLevel()
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	})
}

// newDealer wires the catalog client and dealer from the config.
func newDealer(logger *log.Logger) *catalog.Dealer {
	client := catalog.NewClient(cfg.Catalog.BaseURL,
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.Catalog.Timeout}),
		catalog.WithCacheTTL(cfg.Catalog.CacheTTL),
		catalog.WithClientLogger(logger.WithPrefix("catalog")),
	)

	src := shuffle.Default()
	if flagSeed != 0 {
		src = rand.New(rand.NewSource(flagSeed))
	}

	return catalog.NewDealer(client,
		catalog.WithPageSize(cfg.Catalog.PageSize),
		catalog.WithMaxPage(cfg.Catalog.MaxPage),
		catalog.WithSource(src),
		catalog.WithDealerLogger(logger.WithPrefix("catalog")),
	)
}

// seed returns --seed, or a time-based seed when unset.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
