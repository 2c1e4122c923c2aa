package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains all visual styles for the memory game.
type Theme struct {
	// Card faces
	Card         lipgloss.Style
	CardCursor   lipgloss.Style
	CardFlipping lipgloss.Style
	CardName     lipgloss.Style
	CardBack     lipgloss.Style

	// HUD styles
	HUDTitle     lipgloss.Style
	HUDLabel     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDBar       lipgloss.Style

	// Overlay styles
	OverlayBorder lipgloss.Style
	OverlayTitle  lipgloss.Style
	OverlayText   lipgloss.Style

	// Menu styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style

	Help    lipgloss.Style
	Warning lipgloss.Style
}

const (
	cardWidth  = 16
	cardHeight = 4
)

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	accent := lipgloss.Color("39") // Deep sky blue
	deep := lipgloss.Color("27")

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(cardWidth).
		Height(cardHeight).
		Align(lipgloss.Center, lipgloss.Center)

	return Theme{
		Card:         card,
		CardCursor:   card.BorderForeground(accent).Bold(true),
		CardFlipping: card.Foreground(lipgloss.Color("15")).Background(deep),
		CardName:     lipgloss.NewStyle().Bold(true),
		CardBack:     lipgloss.NewStyle().Italic(true).Bold(true).Foreground(lipgloss.Color("15")),

		HUDTitle:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		HUDLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDValue:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDBar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("24")).
			Padding(0, 2),

		OverlayBorder: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center),
		OverlayTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		OverlayText:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		MenuTitle:      lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		MenuItemNormal: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 2),
		MenuItemActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(deep).
			Padding(0, 2),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),

		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}
