package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/memory-match/internal/core"
	"github.com/vovakirdan/memory-match/internal/levels"
	"github.com/vovakirdan/memory-match/internal/platform/tui"
	"github.com/vovakirdan/memory-match/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [difficulty]",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal. Without a difficulty the menu is shown.

Controls:
  Arrows/hjkl   - Move between cards
  Enter/Space   - Pick a card, dismiss a message
  R             - Restart the difficulty
  B/Esc         - Back to the menu
  Tab           - Scoreboard (from the menu)
  Q/Ctrl+C      - Quit

Difficulties:
  easy    - 3 levels, 4 to 7 cards
  medium  - 4 levels, 7 to 12 cards
  hard    - 5 levels, 10 to 16 cards

Examples:
  memory play
  memory play medium
  memory play hard --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	start := levels.None
	if len(args) == 1 {
		d, err := levels.ParseDifficulty(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'memory levels' to see available difficulties.")
			os.Exit(1)
		}
		start = d
	}

	// Logs must not paint over the alt screen.
	var logOut io.Writer = io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runtime := core.DefaultConfig()
	runtime.ScreenW = width
	runtime.ScreenH = height
	runtime.Seed = seed()

	store, err := storage.OpenMemory()
	if err != nil {
		logger.Warn("scoreboard unavailable", "err", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Dealer:        newDealer(logger),
		Store:         store,
		Table:         &cfg.Levels,
		ShuffleWindow: cfg.Game.ShuffleWindow,
		Runtime:       runtime,
		Player:        os.Getenv("USER"),
		Logger:        logger,
		Start:         start,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
