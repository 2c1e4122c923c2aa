package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/memory-match/internal/levels"
	"github.com/vovakirdan/memory-match/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show difficulty sidebar
	sidebarWidth       = 20 // Width of difficulty sidebar
	maxScores          = 100
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Back    key.Binding
	Quit    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev difficulty"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next difficulty"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next difficulty"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev difficulty"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the finished runs of this process, one
// difficulty at a time.
type ScoreboardModel struct {
	difficulties []levels.Difficulty
	cursor       int
	store        *storage.Store
	scores       []storage.ScoreEntry
	stats        *storage.Stats
	table        table.Model
	help         help.Model
	keys         ScoreboardKeyMap
	width        int
	height       int
	quitting     bool
	goingBack    bool
	showSidebar  bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := ScoreboardModel{
		difficulties: levels.Difficulties(),
		store:        store,
		keys:         DefaultScoreboardKeyMap(),
		help:         h,
		width:        width,
		height:       height,
		showSidebar:  width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	m.loadScores()

	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Level", Width: 6},
		{Title: "Result", Width: 8},
		{Title: "Player", Width: 12},
	}

	// Calculate available width for the player column
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	if rest := tableWidth - 38; rest > columns[4].Width {
		columns[4].Width = min(rest, 24)
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("27")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Difficulty returns the difficulty whose runs are shown.
func (m ScoreboardModel) Difficulty() levels.Difficulty {
	return m.difficulties[m.cursor]
}

// loadScores loads runs for the current difficulty.
func (m *ScoreboardModel) loadScores() {
	m.scores = nil
	m.stats = nil
	if m.store != nil {
		if scores, err := m.store.TopScores(m.Difficulty(), maxScores); err == nil {
			m.scores = scores
		}
		if stats, err := m.store.GetStats(m.Difficulty()); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		result := "lost"
		if s.Won {
			result = "won"
		}
		player := s.Player
		if player == "" {
			player = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Level),
			result,
			player,
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (ScoreboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.Right):
			m.cursor = (m.cursor + 1) % len(m.difficulties)
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.PrevTab), key.Matches(msg, m.keys.Left):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.difficulties) - 1
			}
			m.loadScores()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages (scrolling) to the table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("HIGH SCORES - %s", strings.ToUpper(string(m.Difficulty())))
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with a sidebar listing difficulties.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Difficulty\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, d := range m.difficulties {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + string(d)))
		sidebar.WriteString("\n")
	}

	if stats := m.statsLines(); len(stats) > 0 {
		sidebar.WriteString("\n")
		sidebar.WriteString(strings.Join(stats, "\n"))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders the scoreboard with difficulty tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("27")).
		Padding(0, 1)

	tabs := make([]string, len(m.difficulties))
	for i, d := range m.difficulties {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(string(d))
		} else {
			tabs[i] = tabStyle.Render(" " + string(d) + " ")
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n")
	if stats := m.statsLines(); len(stats) > 0 {
		b.WriteString(tabStyle.Render(centerText(strings.Join(stats, "  "), m.width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// statsLines summarises the runs of the selected difficulty.
func (m ScoreboardModel) statsLines() []string {
	if m.stats == nil || m.stats.Runs == 0 {
		return nil
	}
	return []string{
		fmt.Sprintf("Runs: %d", m.stats.Runs),
		fmt.Sprintf("Wins: %d", m.stats.Wins),
		fmt.Sprintf("Best: %d", m.stats.HighScore),
		fmt.Sprintf("Level: %d", m.stats.BestLevel),
		fmt.Sprintf("Avg: %.0f", m.stats.AvgScore),
	}
}

// Stats returns the aggregate for the selected difficulty, or nil.
func (m ScoreboardModel) Stats() *storage.Stats {
	return m.stats
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.scores) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs finished yet.\nScores are kept until the server stops.")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
