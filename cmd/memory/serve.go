package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/memory-match/internal/platform/tui"
	"github.com/vovakirdan/memory-match/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the memory game SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game. Finished runs go to a scoreboard
shared by every connection and kept in memory until the server stops.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses server.host_key from the config
  - If neither is set, generates a key at ~/.memory/host_key

Examples:
  memory serve                           # Listen on :23235
  memory serve --ssh :2222               # Listen on port 2222
  memory serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config, :23235)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (generated if missing)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config, 10m)")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr)

	sshCfg := tui.DefaultSSHServerConfig()
	if cfg.Server.SSHAddr != "" {
		sshCfg.Address = cfg.Server.SSHAddr
	}
	if cfg.Server.IdleTimeout > 0 {
		sshCfg.IdleTimeout = cfg.Server.IdleTimeout
	}
	sshCfg.HostKeyPath = cfg.Server.HostKey
	if flagSSHAddr != "" {
		sshCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		sshCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		sshCfg.IdleTimeout = flagIdleTimeout
	}

	store, err := storage.OpenMemory()
	if err != nil {
		logger.Warn("scoreboard unavailable", "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	sshCfg.Dealer = newDealer(logger)
	sshCfg.Store = store
	sshCfg.Table = &cfg.Levels
	sshCfg.ShuffleWindow = cfg.Game.ShuffleWindow
	sshCfg.Logger = logger

	server, err := tui.NewSSHServer(sshCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting memory SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
