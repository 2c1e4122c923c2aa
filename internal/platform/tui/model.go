package tui

import (
	"context"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/memory-match/internal/core"
	"github.com/vovakirdan/memory-match/internal/game"
	"github.com/vovakirdan/memory-match/internal/levels"
	"github.com/vovakirdan/memory-match/internal/storage"
)

const fetchTimeout = 15 * time.Second

// dealtMsg carries a finished deal back to the event loop.
type dealtMsg game.Delivery

// Options configures a Model.
type Options struct {
	Dealer        game.Dealer
	Store         *storage.Store // nil disables the scoreboard
	Table         *levels.Table
	ShuffleWindow time.Duration
	Runtime       core.RuntimeConfig
	Player        string
	Logger        *log.Logger
	Start         levels.Difficulty // skip the menu when set
}

// Model is the Bubble Tea model for one player's memory game.
type Model struct {
	game    *game.Game
	dealer  game.Dealer
	store   *storage.Store
	logger  *log.Logger
	config  core.RuntimeConfig
	start   levels.Difficulty
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	theme   Theme

	menuCursor int
	cursor     int
	lastTick   time.Time
	scoreboard *ScoreboardModel
	best       int // top finished score for the current difficulty
	quitting   bool
}

// NewModel creates the model and its game.
func NewModel(opts Options) Model {
	cfg := opts.Runtime
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	store, player := opts.Store, opts.Player
	onRunEnd := func(r game.RunResult) {
		if store == nil {
			return
		}
		if _, err := store.SaveScore(storage.EntryFromRun(player, r)); err != nil {
			// Best-effort save, game continues regardless
			logger.Warn("could not save score", "err", err)
		}
	}

	g := game.New(
		game.WithTable(opts.Table),
		game.WithShuffleWindow(opts.ShuffleWindow),
		game.WithRand(rand.New(rand.NewSource(cfg.Seed))),
		game.WithLogger(logger.WithPrefix("game")),
		game.WithRunEnd(onRunEnd),
	)

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:    g,
		dealer:  opts.Dealer,
		store:   store,
		logger:  logger,
		config:  cfg,
		start:   opts.Start,
		keys:    DefaultKeyMap(),
		help:    h,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:   DefaultTheme(),
	}
}

// Init starts the tick loop, and the first deal when a difficulty was preset.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.config.TickInterval())}
	if m.start != levels.None {
		cmds = append(cmds, m.choose(m.start))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		if m.scoreboard != nil {
			sb, _ := m.scoreboard.Update(msg)
			m.scoreboard = &sb
		}
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case dealtMsg:
		if m.game.Deliver(game.Delivery(msg)) {
			m.cursor = 0
			m.refreshBest()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.game.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleTick advances the game clock by the wall time since the last tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.lastTick.IsZero() && now.After(m.lastTick) {
		hadModal := m.game.Modal() != nil
		m.game.Advance(now.Sub(m.lastTick))
		// A completed difficulty ends the run from inside the window.
		if !hadModal && m.game.Modal() != nil {
			m.refreshBest()
		}
	}
	m.lastTick = now
	m.clampCursor()
	return m, tickCmd(m.config.TickInterval())
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.scoreboard != nil {
		sb, cmd := m.scoreboard.Update(msg)
		switch {
		case sb.IsQuitting():
			m.quitting = true
		case sb.IsGoingBack():
			m.scoreboard = nil
			return m, nil
		default:
			m.scoreboard = &sb
		}
		return m, cmd
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.game.Phase() {
	case game.PhaseMenu:
		cmd = m.menuAction(action)
	case game.PhaseLoading:
		if action == core.ActionBack {
			m.game.BackToMenu()
		}
	case game.PhaseModal:
		m.modalAction(action)
	default:
		m.boardAction(action)
	}

	m.clampCursor()
	m.refreshBest()
	return m, cmd
}

// refreshBest reloads the high score shown in the header.
func (m *Model) refreshBest() {
	m.best = 0
	if m.store == nil {
		return
	}
	d := m.game.Player().Difficulty
	if d == levels.None {
		return
	}
	best, err := m.store.HighScore(d)
	if err != nil {
		m.logger.Warn("could not load high score", "err", err)
		return
	}
	m.best = best
}

func (m *Model) menuAction(a core.Action) tea.Cmd {
	n := len(levels.Difficulties())
	switch a {
	case core.ActionUp, core.ActionLeft:
		m.menuCursor = (m.menuCursor + n - 1) % n
	case core.ActionDown, core.ActionRight:
		m.menuCursor = (m.menuCursor + 1) % n
	case core.ActionSelect:
		return m.choose(levels.Difficulties()[m.menuCursor])
	case core.ActionScores:
		sb := NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.scoreboard = &sb
	}
	return nil
}

func (m *Model) modalAction(a core.Action) {
	switch a {
	case core.ActionSelect:
		m.game.DismissModal()
	case core.ActionRestart:
		m.game.Restart()
	case core.ActionBack:
		m.game.BackToMenu()
	}
}

func (m *Model) boardAction(a core.Action) {
	switch {
	case a.IsMove():
		m.cursor = m.grid().Move(m.cursor, a)
	case a == core.ActionSelect:
		active := m.game.Snapshot().Active()
		if m.cursor < len(active) {
			res := m.game.ClickCard(active[m.cursor].ID)
			m.logger.Debug("card picked", "card", active[m.cursor].Name, "result", res)
		}
	case a == core.ActionRestart:
		m.game.Restart()
	case a == core.ActionBack:
		m.game.BackToMenu()
	}
}

// choose starts a deal for d and returns the command that runs it.
func (m *Model) choose(d levels.Difficulty) tea.Cmd {
	ticket, ok := m.game.ChooseDifficulty(d)
	if !ok {
		return nil
	}
	m.cursor = 0
	return tea.Batch(fetchCmd(m.dealer, ticket), m.spinner.Tick)
}

// fetchCmd runs the dealer off the event loop.
func fetchCmd(dealer game.Dealer, ticket game.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return dealtMsg(game.Fetch(ctx, dealer, ticket))
	}
}

func (m Model) grid() core.Grid {
	return core.NewGrid(gridColumns(m.game.DisplayCount(), m.config.ScreenW), m.game.ActiveCount())
}

func (m *Model) clampCursor() {
	if n := m.game.ActiveCount(); n > 0 {
		m.cursor = core.Clamp(m.cursor, 0, n-1)
	} else {
		m.cursor = 0
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.scoreboard != nil {
		return m.scoreboard.View()
	}

	th := m.theme
	width := m.config.ScreenW
	snap := m.game.Snapshot()

	switch snap.Phase {
	case game.PhaseMenu:
		return renderMenu(th, m.game.Table(), m.menuCursor, width) +
			centerText(th.Help.Render(m.help.View(menuHelp{m.keys})), width)

	case game.PhaseLoading:
		return "\n\n" + centerText(m.spinner.View()+" Shuffling the deck...", width)
	}

	var b strings.Builder
	b.WriteString(renderHeader(th, snap, m.best, width))
	b.WriteString("\n\n")

	switch {
	case snap.Modal != nil:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderModal(th, snap.Modal)))
	case len(snap.Cards) == 0:
		b.WriteString(centerText(th.Warning.Render("No characters could be fetched. Press esc to go back."), width))
	default:
		cols := gridColumns(snap.DisplayCount, width)
		grid := renderGrid(th, snap.Active(), cols, m.cursor, snap.IsFlipping)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, grid))
	}

	b.WriteString("\n\n")
	b.WriteString(th.Help.Render(m.help.View(m.keys)))
	return b.String()
}

// Snapshot returns the game state, for tests and embedding front ends.
func (m Model) Snapshot() game.Snapshot {
	return m.game.Snapshot()
}

// Best returns the high score shown in the header.
func (m Model) Best() int {
	return m.best
}

// Cursor returns the index of the focused card.
func (m Model) Cursor() int {
	return m.cursor
}

// IsQuitting returns true if user requested to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program for a local player.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
