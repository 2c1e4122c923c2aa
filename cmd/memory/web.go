package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/memory-match/internal/httpapi"
	"github.com/vovakirdan/memory-match/internal/storage"
)

var flagHTTPAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the JSON HTTP API",
	Long: `Start an HTTP server exposing the game as a JSON API.

Clients create a session, choose a difficulty and click cards by id.
Idle sessions expire after server.session_ttl (default 30m).

Endpoints:
  GET    /api/health
  GET    /api/levels
  GET    /api/scores?difficulty=easy&limit=10
  GET    /api/scores/stats?difficulty=easy
  POST   /api/sessions
  GET    /api/sessions/{id}
  DELETE /api/sessions/{id}
  POST   /api/sessions/{id}/difficulty      {"difficulty":"easy"}
  POST   /api/sessions/{id}/cards/{card}/click
  POST   /api/sessions/{id}/restart
  POST   /api/sessions/{id}/menu
  POST   /api/sessions/{id}/dismiss

Examples:
  memory web
  memory web --addr :9000`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagHTTPAddr, "addr", "", "HTTP listen address (default from config, :8081)")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr)

	addr := cfg.Server.HTTPAddr
	if flagHTTPAddr != "" {
		addr = flagHTTPAddr
	}

	store, err := storage.OpenMemory()
	if err != nil {
		logger.Warn("scoreboard unavailable", "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	server, err := httpapi.NewServer(httpapi.Config{
		Dealer:        newDealer(logger),
		Store:         store,
		Table:         &cfg.Levels,
		ShuffleWindow: cfg.Game.ShuffleWindow,
		SessionTTL:    cfg.Server.SessionTTL,
		Logger:        logger,
		Seed:          flagSeed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting memory HTTP API on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
