package game

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/memory-match/internal/levels"
	"github.com/vovakirdan/memory-match/internal/shuffle"
	"github.com/vovakirdan/memory-match/internal/timeline"
)

// DefaultShuffleWindow is how long input stays locked after a match.
// The active cards reshuffle at its midpoint.
const DefaultShuffleWindow = 800 * time.Millisecond

// Game is the memory-match state machine. It is not safe for concurrent
// use; one event loop owns it.
type Game struct {
	table    *levels.Table
	window   time.Duration
	rng      shuffle.Source
	logger   *log.Logger
	onRunEnd func(RunResult)

	tl       timeline.Timeline
	player   PlayerData
	cards    []Card
	loading  bool
	flipping bool
	modal    *Modal

	round  uint64 // bumped whenever pending shuffle-window tasks must be forgotten
	ticket uint64 // sequence of the outstanding deal
}

// Option configures a Game.
type Option func(*Game)

// WithTable sets the level table.
func WithTable(t *levels.Table) Option {
	return func(g *Game) {
		if t != nil {
			g.table = t
		}
	}
}

// WithShuffleWindow sets the input lock duration after a match.
func WithShuffleWindow(d time.Duration) Option {
	return func(g *Game) {
		if d > 0 {
			g.window = d
		}
	}
}

// WithRand sets the random source used for mid-flip shuffles.
func WithRand(src shuffle.Source) Option {
	return func(g *Game) {
		if src != nil {
			g.rng = src
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRunEnd registers a callback fired once per game over or win.
func WithRunEnd(fn func(RunResult)) Option {
	return func(g *Game) {
		g.onRunEnd = fn
	}
}

// New creates a game sitting on the menu.
func New(opts ...Option) *Game {
	g := &Game{
		table:  levels.Default(),
		window: DefaultShuffleWindow,
		rng:    shuffle.Default(),
		logger: log.Default().WithPrefix("game"),
		player: PlayerData{Level: 1},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ChooseDifficulty leaves the menu and starts loading a hand.
// It only succeeds from the menu with a difficulty the table knows; the
// returned ticket must be fetched and delivered back.
func (g *Game) ChooseDifficulty(d levels.Difficulty) (Ticket, bool) {
	if g.player.Difficulty != levels.None {
		return Ticket{}, false
	}
	if g.table.MaxLevel(d) == 0 {
		return Ticket{}, false
	}

	g.player = PlayerData{Level: 1, Difficulty: d}
	g.cards = nil
	g.loading = true
	g.ticket++

	g.logger.Debug("difficulty chosen", "difficulty", d)
	return Ticket{Difficulty: d, seq: g.ticket}, true
}

// Deliver applies the outcome of a deal. A failed deal is logged and
// treated as an empty hand. Deliveries for a ticket that is no longer
// current are dropped and reported as false.
func (g *Game) Deliver(dl Delivery) bool {
	if !g.loading || dl.Ticket.seq != g.ticket || dl.Ticket.Difficulty != g.player.Difficulty {
		g.logger.Debug("dropping stale deal", "difficulty", dl.Ticket.Difficulty)
		return false
	}

	g.loading = false

	if dl.Err != nil {
		g.logger.Error("error fetching cards", "difficulty", dl.Ticket.Difficulty, "err", dl.Err)
		g.cards = nil
		return true
	}

	cards := make([]Card, len(dl.Cards))
	copy(cards, dl.Cards)
	for i := range cards {
		cards[i].WasClicked = false
	}
	g.cards = cards

	g.logger.Debug("cards dealt", "difficulty", dl.Ticket.Difficulty, "count", len(cards))
	return true
}

// ClickCard handles a click on the card with the given id.
//
// Clicks are dropped while loading, flipping or showing a modal, and for
// ids that are not in the active slice. Clicking an already matched card
// raises the game-over modal. Otherwise the match is scored immediately
// and the shuffle window starts.
func (g *Game) ClickCard(id string) ClickResult {
	if g.player.Difficulty == levels.None || g.loading || g.flipping || g.modal != nil {
		return ClickIgnored
	}

	idx := g.indexOf(id)
	if idx < 0 {
		return ClickIgnored
	}
	active := g.ActiveCount()
	if idx >= active {
		return ClickIgnored
	}

	if g.cards[idx].WasClicked {
		g.modal = &Modal{Type: ModalGameOver, Message: MessageGameOver}
		g.endRun(false)
		return ClickGameOver
	}

	d, level := g.player.Difficulty, g.player.Level
	g.player.Score += g.table.Points(d, level)
	g.flipping = true

	round := g.round
	g.tl.After(g.window/2, func() { g.midpoint(round, d, id, active) })
	g.tl.After(g.window, func() { g.settle(round, d, level, active) })

	return ClickMatched
}

// current reports whether a task scheduled in round for d may still act.
func (g *Game) current(round uint64, d levels.Difficulty) bool {
	return round == g.round && g.flipping && g.player.Difficulty == d
}

// midpoint marks the clicked card and reshuffles the active slice.
func (g *Game) midpoint(round uint64, d levels.Difficulty, id string, active int) {
	if !g.current(round, d) {
		return
	}
	if idx := g.indexOf(id); idx >= 0 {
		g.cards[idx].WasClicked = true
	}
	g.cards = shuffle.Prefix(g.cards, active, g.rng)
}

// settle ends the shuffle window and resolves level completion.
func (g *Game) settle(round uint64, d levels.Difficulty, level, active int) {
	if !g.current(round, d) {
		return
	}
	g.flipping = false

	n := min(active, len(g.cards))
	if n == 0 {
		return
	}
	for _, c := range g.cards[:n] {
		if !c.WasClicked {
			return
		}
	}

	next := level + 1
	nextCount := g.table.ActiveCount(d, next)
	if nextCount == 0 {
		g.modal = &Modal{Type: ModalWin, Message: MessageWin}
		g.resetClicked(n)
		g.endRun(true)
		return
	}

	g.player.Level = next
	g.modal = &Modal{Type: ModalLevel, Message: fmt.Sprintf("✨ Level %d Unlocked! ✨", next)}
	g.resetClicked(nextCount)
	g.logger.Debug("level unlocked", "difficulty", d, "level", next, "score", g.player.Score)
}

// Advance moves the shuffle-window clock forward, running due tasks.
func (g *Game) Advance(d time.Duration) {
	g.tl.Advance(d)
}

// Restart resets level and score, clears all matches and any modal or
// pending flip. The difficulty and the dealt cards are kept.
func (g *Game) Restart() {
	g.player.Level = 1
	g.player.Score = 0
	g.resetClicked(len(g.cards))
	g.flipping = false
	g.modal = nil
	g.forgetPending()
}

// BackToMenu abandons the game and returns to difficulty selection.
// The hand is discarded and any outstanding deal is ignored on arrival.
func (g *Game) BackToMenu() {
	g.player = PlayerData{Level: 1}
	g.cards = nil
	g.loading = false
	g.flipping = false
	g.modal = nil
	g.ticket++
	g.forgetPending()
}

// DismissModal closes the current modal. Dismissing game over means
// trying again, which restarts the run.
func (g *Game) DismissModal() {
	if g.modal == nil {
		return
	}
	if g.modal.Type == ModalGameOver {
		g.Restart()
		return
	}
	g.modal = nil
}

func (g *Game) forgetPending() {
	g.tl.Cancel()
	g.round++
}

func (g *Game) resetClicked(n int) {
	n = min(n, len(g.cards))
	for i := 0; i < n; i++ {
		g.cards[i].WasClicked = false
	}
}

func (g *Game) indexOf(id string) int {
	for i, c := range g.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (g *Game) endRun(won bool) {
	result := RunResult{
		Difficulty: g.player.Difficulty,
		Level:      g.player.Level,
		Score:      g.player.Score,
		Won:        won,
	}
	g.logger.Info("run ended", "difficulty", result.Difficulty, "level", result.Level, "score", result.Score, "won", won)
	if g.onRunEnd != nil {
		g.onRunEnd(result)
	}
}

// ActiveCount returns the size of the active slice, bounded by the hand.
func (g *Game) ActiveCount() int {
	return min(g.table.ActiveCount(g.player.Difficulty, g.player.Level), len(g.cards))
}

// DisplayCount returns how many cards the layout shows.
func (g *Game) DisplayCount() int {
	return g.table.DisplayCount(g.player.Difficulty)
}

// Player returns the progress record.
func (g *Game) Player() PlayerData {
	return g.player
}

// Cards returns a copy of the full hand.
func (g *Game) Cards() []Card {
	out := make([]Card, len(g.cards))
	copy(out, g.cards)
	return out
}

// Modal returns the modal being shown, or nil.
func (g *Game) Modal() *Modal {
	if g.modal == nil {
		return nil
	}
	m := *g.modal
	return &m
}

// IsLoading reports whether a deal is outstanding.
func (g *Game) IsLoading() bool {
	return g.loading
}

// IsFlipping reports whether the shuffle window is open.
func (g *Game) IsFlipping() bool {
	return g.flipping
}

// ShuffleWindow returns the configured input lock duration.
func (g *Game) ShuffleWindow() time.Duration {
	return g.window
}

// Table returns the level table in use.
func (g *Game) Table() *levels.Table {
	return g.table
}

// Phase derives the machine state from its flags.
func (g *Game) Phase() Phase {
	switch {
	case g.player.Difficulty == levels.None:
		return PhaseMenu
	case g.loading:
		return PhaseLoading
	case g.modal != nil:
		return PhaseModal
	case g.flipping:
		return PhaseFlipping
	default:
		return PhasePlaying
	}
}
