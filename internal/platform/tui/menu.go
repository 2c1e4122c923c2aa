package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/memory-match/internal/levels"
)

// renderMenu renders the difficulty picker.
func renderMenu(th Theme, table *levels.Table, cursor, width int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(th.MenuTitle.Render("M E M O R Y   G A M E"), width))
	b.WriteString("\n\n")
	b.WriteString(centerText(th.MenuDescription.Render("Pick every card once. The deck reshuffles after each pick."), width))
	b.WriteString("\n\n")

	for i, d := range levels.Difficulties() {
		style := th.MenuItemNormal
		if i == cursor {
			style = th.MenuItemActive
		}
		item := style.Render(strings.ToUpper(string(d)))
		desc := th.MenuDescription.Render(describeDifficulty(table, d))
		b.WriteString(centerText(item+"  "+desc, width))
		b.WriteString("\n\n")
	}

	return b.String()
}

// describeDifficulty summarises a difficulty's levels, e.g. "3 levels, 4-7 cards".
func describeDifficulty(table *levels.Table, d levels.Difficulty) string {
	n := table.MaxLevel(d)
	if n == 0 {
		return "not configured"
	}
	first, last := table.ActiveCount(d, 1), table.ActiveCount(d, n)
	return fmt.Sprintf("%d levels, %d-%d cards", n, first, last)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
