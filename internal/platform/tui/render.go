package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/memory-match/internal/game"
)

// gridColumns returns how many cards fit on one row: the difficulty's
// display count, narrowed to the terminal width.
func gridColumns(display, width int) int {
	cols := display
	if cols < 1 {
		cols = 1
	}
	if width > 0 {
		if fit := max(1, width/(cardWidth+2)); fit < cols {
			cols = fit
		}
	}
	return cols
}

// renderHeader renders the status bar shown above the cards. best is the
// top finished score for the difficulty; zero hides it.
func renderHeader(th Theme, snap game.Snapshot, best, width int) string {
	sep := th.HUDSeparator.Render("  │  ")
	field := func(label string, value any) string {
		return th.HUDLabel.Render(label+" ") + th.HUDValue.Render(fmt.Sprint(value))
	}

	line := th.HUDTitle.Render("MEMORY GAME") + sep +
		field("Difficulty", snap.Difficulty) + sep +
		field("Level", snap.Level) + sep +
		field("Score", snap.Score)
	if best > 0 {
		line += sep + field("Best", best)
	}

	bar := th.HUDBar
	if width > 0 {
		bar = bar.Width(width)
	}
	return bar.Render(line)
}

// renderCard renders one card. Whether a card was already picked is never
// shown; remembering that is the game.
func renderCard(th Theme, c game.Card, focused, flipping bool) string {
	if flipping {
		return th.CardFlipping.Render(th.CardBack.Render("Disney"))
	}

	style := th.Card
	if focused {
		style = th.CardCursor
	}
	return style.Render(th.CardName.Render(truncate(c.Name, cardWidth*2-2)))
}

// renderGrid lays the active cards out in rows of cols.
func renderGrid(th Theme, cards []game.Card, cols, cursor int, flipping bool) string {
	if len(cards) == 0 {
		return ""
	}

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		row := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, renderCard(th, cards[i], i == cursor, flipping))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

// renderModal renders the blocking message box.
func renderModal(th Theme, m *game.Modal) string {
	hint := "enter: continue"
	switch m.Type {
	case game.ModalGameOver:
		hint = "enter: try again  •  esc: menu"
	case game.ModalWin:
		hint = "enter: close  •  r: play again  •  esc: menu"
	}

	body := th.OverlayTitle.Render(m.Message) + "\n\n" + th.OverlayText.Render(hint)
	return th.OverlayBorder.Render(body)
}

// truncate shortens s to at most n display cells.
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return strings.TrimSpace(string(r)) + "…"
}
