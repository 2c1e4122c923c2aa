// Package game implements the memory-match state machine: difficulty
// selection, dealing, click scoring with a staged shuffle window, level
// progression and restart. It holds no goroutines or clocks of its own;
// the owner feeds it events and advances its timeline.
package game

import (
	"github.com/vovakirdan/memory-match/internal/levels"
)

// PlaceholderImage is shown for cards whose character has no image.
const PlaceholderImage = "https://upload.wikimedia.org/wikipedia/commons/a/a4/Disney_wordmark.svg"

// Card is one character card.
type Card struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url,omitempty"`
	WasClicked bool   `json:"was_clicked"`
}

// Image returns the card image, or the placeholder when it has none.
func (c Card) Image() string {
	if c.ImageURL == "" {
		return PlaceholderImage
	}
	return c.ImageURL
}

// PlayerData is the per-session progress record.
type PlayerData struct {
	Level      int               `json:"level"`
	Score      int               `json:"score"`
	Difficulty levels.Difficulty `json:"difficulty"`
}

// ModalType identifies which modal is shown.
type ModalType string

const (
	ModalGameOver ModalType = "gameover"
	ModalLevel    ModalType = "level"
	ModalWin      ModalType = "win"
)

// Modal is a blocking message shown to the player.
type Modal struct {
	Type    ModalType `json:"type"`
	Message string    `json:"message"`
}

// Modal messages.
const (
	MessageGameOver = "Game Over! Try Again!"
	MessageWin      = "🏰 You Finished All Levels!"
)

// Phase is the coarse state of the machine, derived from its flags.
type Phase string

const (
	PhaseMenu     Phase = "menu"
	PhaseLoading  Phase = "loading"
	PhasePlaying  Phase = "playing"
	PhaseFlipping Phase = "flipping"
	PhaseModal    Phase = "modal"
)

// ClickResult reports what a click did.
type ClickResult int

const (
	ClickIgnored ClickResult = iota
	ClickGameOver
	ClickMatched
)

// String returns a human-readable name for the result.
func (r ClickResult) String() string {
	switch r {
	case ClickIgnored:
		return "ignored"
	case ClickGameOver:
		return "gameover"
	case ClickMatched:
		return "matched"
	default:
		return "unknown"
	}
}

// RunResult describes a finished run: a game over or a completed difficulty.
type RunResult struct {
	Difficulty levels.Difficulty
	Level      int
	Score      int
	Won        bool
}
