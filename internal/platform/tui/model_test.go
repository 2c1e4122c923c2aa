package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/memory-match/internal/core"
	"github.com/vovakirdan/memory-match/internal/game"
	"github.com/vovakirdan/memory-match/internal/levels"
	"github.com/vovakirdan/memory-match/internal/storage"
)

type stubDealer struct {
	n int
}

func (s stubDealer) Deal(_ context.Context, _ levels.Difficulty) ([]game.Card, error) {
	cards := make([]game.Card, s.n)
	for i := range cards {
		cards[i] = game.Card{ID: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Character %d", i)}
	}
	return cards, nil
}

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	rt := core.DefaultConfig()
	rt.Seed = 1
	return NewModel(Options{
		Dealer:  stubDealer{n: levels.HandSize},
		Store:   store,
		Runtime: rt,
		Player:  "tester",
		Logger:  log.New(io.Discard),
	})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// send feeds msg to the model and then every message its command yields,
// expanding batches. Use tick for TickMsg: its command reschedules itself.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, out := range run(cmd) {
		m = send(t, m, out)
	}
	return m
}

// tick delivers one clock tick and drops the follow-up tick command.
func tick(t *testing.T, m Model, at time.Time) Model {
	t.Helper()
	next, _ := m.Update(TickMsg(at))
	return next.(Model)
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return nil
	}
	return []tea.Msg{msg}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = send(t, m, keyMsg(k))
	}
	return m
}

func playing(t *testing.T, store *storage.Store) Model {
	t.Helper()
	m := press(t, newTestModel(t, store), "enter")
	if snap := m.Snapshot(); snap.Phase != game.PhasePlaying || snap.Difficulty != levels.Easy {
		t.Fatalf("expected easy game in progress, got %s/%q", snap.Phase, snap.Difficulty)
	}
	return m
}

func TestMenuSelectsDifficulty(t *testing.T) {
	m := newTestModel(t, nil)

	if !strings.Contains(m.View(), "EASY") {
		t.Error("menu should list difficulties")
	}

	m = press(t, m, "down", "enter")

	snap := m.Snapshot()
	if snap.Difficulty != levels.Medium {
		t.Errorf("Difficulty = %q, want medium", snap.Difficulty)
	}
	if snap.Phase != game.PhasePlaying || len(snap.Cards) != levels.HandSize {
		t.Errorf("phase %s with %d cards, want playing with 16", snap.Phase, len(snap.Cards))
	}
	if snap.ActiveCount != 7 {
		t.Errorf("ActiveCount = %d, want 7", snap.ActiveCount)
	}
	if !strings.Contains(m.View(), "Score") {
		t.Error("board view should show the header")
	}
}

func TestMenuCursorWraps(t *testing.T) {
	m := press(t, newTestModel(t, nil), "up", "enter")
	if d := m.Snapshot().Difficulty; d != levels.Hard {
		t.Errorf("Difficulty = %q, want hard", d)
	}
}

func TestPickCardAndSettle(t *testing.T) {
	m := playing(t, nil)

	m = press(t, m, "enter")
	snap := m.Snapshot()
	if snap.Score != 50 || !snap.IsFlipping {
		t.Fatalf("after pick: score %d flipping %v, want 50/true", snap.Score, snap.IsFlipping)
	}
	if !strings.Contains(m.View(), "Disney") {
		t.Error("cards should show their backs while flipping")
	}

	start := time.Unix(1000, 0)
	m = tick(t, m, start)
	m = tick(t, m, start.Add(game.DefaultShuffleWindow))

	if m.Snapshot().IsFlipping {
		t.Error("shuffle window should have closed")
	}
}

func TestCursorMovesWithinActiveCards(t *testing.T) {
	m := playing(t, nil)

	m = press(t, m, "right", "right", "right", "right", "right")
	if got := m.Cursor(); got != 3 {
		t.Errorf("Cursor = %d, want 3 (last active card)", got)
	}
	m = press(t, m, "left")
	if got := m.Cursor(); got != 2 {
		t.Errorf("Cursor = %d, want 2", got)
	}
}

func TestGameOverIsRecorded(t *testing.T) {
	store, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() failed: %v", err)
	}
	defer store.Close()

	m := playing(t, store)
	m = press(t, m, "enter")

	start := time.Unix(1000, 0)
	m = tick(t, m, start)
	m = tick(t, m, start.Add(game.DefaultShuffleWindow))

	// Find the matched card after the reshuffle and pick it again.
	idx := -1
	for i, c := range m.Snapshot().Active() {
		if c.WasClicked {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("no matched card after the window")
	}
	for m.Cursor() < idx {
		m = press(t, m, "right")
	}
	m = press(t, m, "enter")

	snap := m.Snapshot()
	if snap.Modal == nil || snap.Modal.Type != game.ModalGameOver {
		t.Fatalf("Modal = %+v, want game over", snap.Modal)
	}
	if !strings.Contains(m.View(), game.MessageGameOver) {
		t.Error("view should show the game over message")
	}

	scores, err := store.TopScores(levels.Easy, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Player != "tester" || scores[0].Score != 50 || scores[0].Won {
		t.Errorf("scores = %+v, want one lost run at 50", scores)
	}

	// Try again.
	m = press(t, m, "enter")
	if snap := m.Snapshot(); snap.Modal != nil || snap.Score != 0 {
		t.Errorf("after try again: %+v", snap)
	}
}

func TestBackToMenuWhileLoadingDropsDeal(t *testing.T) {
	m := newTestModel(t, nil)

	// Choose without running the fetch command.
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	if m.Snapshot().Phase != game.PhaseLoading {
		t.Fatalf("Phase = %s, want loading", m.Snapshot().Phase)
	}

	m = press(t, m, "esc")
	if m.Snapshot().Phase != game.PhaseMenu {
		t.Fatalf("Phase = %s, want menu", m.Snapshot().Phase)
	}

	// The deal lands after the player left.
	for _, msg := range run(cmd) {
		m = send(t, m, msg)
	}
	if snap := m.Snapshot(); snap.Phase != game.PhaseMenu || len(snap.Cards) != 0 {
		t.Errorf("late deal leaked into the menu: %s with %d cards", snap.Phase, len(snap.Cards))
	}
}

func TestRestartAndBackKeys(t *testing.T) {
	m := playing(t, nil)
	m = press(t, m, "enter")

	m = press(t, m, "r")
	if snap := m.Snapshot(); snap.Score != 0 || snap.IsFlipping {
		t.Errorf("after restart: score %d flipping %v", snap.Score, snap.IsFlipping)
	}

	m = press(t, m, "b")
	if m.Snapshot().Phase != game.PhaseMenu {
		t.Errorf("Phase = %s, want menu", m.Snapshot().Phase)
	}
}

func TestScoreboardFromMenu(t *testing.T) {
	store, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() failed: %v", err)
	}
	defer store.Close()

	m := press(t, newTestModel(t, store), "tab")
	if !strings.Contains(m.View(), "HIGH SCORES") {
		t.Fatal("tab should open the scoreboard")
	}

	m = press(t, m, "esc")
	if strings.Contains(m.View(), "HIGH SCORES") {
		t.Error("esc should close the scoreboard")
	}
	if m.Snapshot().Phase != game.PhaseMenu {
		t.Error("closing the scoreboard should return to the menu")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)

	if !m.IsQuitting() {
		t.Error("q should quit")
	}
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should yield tea.QuitMsg")
	}
}

func TestKeyMapActions(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		key  string
		want core.Action
	}{
		{"left", core.ActionLeft},
		{"h", core.ActionLeft},
		{"l", core.ActionRight},
		{"k", core.ActionUp},
		{"j", core.ActionDown},
		{"enter", core.ActionSelect},
		{" ", core.ActionSelect},
		{"r", core.ActionRestart},
		{"esc", core.ActionBack},
		{"b", core.ActionBack},
		{"tab", core.ActionScores},
		{"q", core.ActionQuit},
		{"ctrl+c", core.ActionQuit},
		{"x", core.ActionNone},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			msg := keyMsg(tc.key)
			if tc.key == " " {
				msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
			}
			if got := km.Action(msg); got != tc.want {
				t.Errorf("Action(%q) = %s, want %s", tc.key, got, tc.want)
			}
		})
	}
}

func TestGridColumns(t *testing.T) {
	tests := []struct {
		display, width, want int
	}{
		{4, 0, 4},
		{4, 80, 4},
		{8, 80, 4},
		{8, 200, 8},
		{6, 10, 1},
		{0, 80, 1},
	}
	for _, tc := range tests {
		if got := gridColumns(tc.display, tc.width); got != tc.want {
			t.Errorf("gridColumns(%d, %d) = %d, want %d", tc.display, tc.width, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Mickey", 10); got != "Mickey" {
		t.Errorf("truncate() = %q", got)
	}
	got := truncate("Captain Jack Sparrow", 10)
	if !strings.HasSuffix(got, "…") || len([]rune(got)) > 10 {
		t.Errorf("truncate() = %q, want at most 10 cells ending in …", got)
	}
}

func TestTickSettlesShuffleWindow(t *testing.T) {
	m := playing(t, nil)
	m = press(t, m, "enter")

	start := time.Unix(1000, 0)
	next, cmd := m.Update(TickMsg(start))
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	m = next.(Model)

	m = tick(t, m, start.Add(game.DefaultShuffleWindow-time.Millisecond))
	if !m.Snapshot().IsFlipping {
		t.Fatal("window closed early")
	}

	m = tick(t, m, start.Add(game.DefaultShuffleWindow))
	if m.Snapshot().IsFlipping {
		t.Error("window should close once its full duration has elapsed")
	}

	// An older tick never rewinds the clock.
	m = tick(t, m, start)
	if snap := m.Snapshot(); snap.IsFlipping || snap.Score != 50 {
		t.Errorf("after stale tick: flipping %v score %d", snap.IsFlipping, snap.Score)
	}
}

func TestHeaderShowsBestScore(t *testing.T) {
	store, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveScore(storage.ScoreEntry{Player: "earlier", Difficulty: levels.Easy, Level: 2, Score: 300}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	if _, err := store.SaveScore(storage.ScoreEntry{Player: "earlier", Difficulty: levels.Hard, Level: 1, Score: 900}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	m := playing(t, store)
	if got := m.Best(); got != 300 {
		t.Errorf("Best = %d, want 300 (easy only)", got)
	}
	if !strings.Contains(m.View(), "Best") {
		t.Error("header should show the best score")
	}

	m = press(t, m, "b")
	if got := m.Best(); got != 0 {
		t.Errorf("Best on the menu = %d, want 0", got)
	}
}

func TestScoreboardShowsStats(t *testing.T) {
	store, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() failed: %v", err)
	}
	defer store.Close()

	for _, e := range []storage.ScoreEntry{
		{Player: "a", Difficulty: levels.Easy, Level: 1, Score: 100},
		{Player: "b", Difficulty: levels.Easy, Level: 3, Score: 1060, Won: true},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	sb := NewScoreboardModel(store, 100, 30)
	stats := sb.Stats()
	if stats == nil || stats.Runs != 2 || stats.Wins != 1 || stats.HighScore != 1060 {
		t.Fatalf("Stats() = %+v", stats)
	}
	if view := sb.View(); !strings.Contains(view, "Runs: 2") || !strings.Contains(view, "Wins: 1") {
		t.Error("sidebar should list run stats")
	}

	sb, _ = sb.Update(keyMsg("tab"))
	if sb.Difficulty() != levels.Medium || sb.Stats() == nil || sb.Stats().Runs != 0 {
		t.Errorf("medium stats = %+v", sb.Stats())
	}
}

func TestCardsPastDisplayCountArePlayable(t *testing.T) {
	// Medium shows 6 per row but plays 7 cards at level 1.
	m := press(t, newTestModel(t, nil), "down", "enter")
	snap := m.Snapshot()
	if snap.DisplayCount != 6 || len(snap.Active()) != 7 {
		t.Fatalf("display %d active %d, want 6 and 7", snap.DisplayCount, len(snap.Active()))
	}

	m = press(t, m, "down", "right", "right", "right")
	if got := m.Cursor(); got != 6 {
		t.Fatalf("Cursor = %d, want 6 (seventh card)", got)
	}

	m = press(t, m, "enter")
	if snap := m.Snapshot(); snap.Score != 100 || !snap.IsFlipping {
		t.Errorf("after picking the seventh card: score %d flipping %v", snap.Score, snap.IsFlipping)
	}
}
