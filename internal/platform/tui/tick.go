// Package tui provides the Bubble Tea front end for the memory game.
// It handles the terminal UI loop, input mapping and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to advance the game clock.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
