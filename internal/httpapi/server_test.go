package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/memory-match/internal/game"
	"github.com/vovakirdan/memory-match/internal/levels"
	"github.com/vovakirdan/memory-match/internal/storage"
)

type stubDealer struct {
	cards []game.Card
	err   error
}

func (s stubDealer) Deal(_ context.Context, _ levels.Difficulty) ([]game.Card, error) {
	return s.cards, s.err
}

func testCards(n int) []game.Card {
	cards := make([]game.Card, n)
	for i := range cards {
		cards[i] = game.Card{ID: fmt.Sprintf("c%02d", i), Name: fmt.Sprintf("Character %d", i)}
	}
	return cards
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	srv   *Server
	ts    *httptest.Server
	clock *fakeClock
	store *storage.Store
}

func newFixture(t *testing.T, dealer game.Dealer) *fixture {
	t.Helper()

	store, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	srv, err := NewServer(Config{
		Dealer: dealer,
		Store:  store,
		Now:    clock.Now,
		Seed:   1,
	})
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	return &fixture{srv: srv, ts: ts, clock: clock, store: store}
}

// do sends a request and decodes the JSON response into out when non-nil.
func (f *fixture) do(t *testing.T, method, path, body string, out any) int {
	t.Helper()

	req, err := http.NewRequest(method, f.ts.URL+path, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (f *fixture) create(t *testing.T) string {
	t.Helper()
	var resp sessionResponse
	if code := f.do(t, http.MethodPost, "/api/sessions", "", &resp); code != http.StatusCreated {
		t.Fatalf("create session status = %d, want 201", code)
	}
	if resp.ID == "" {
		t.Fatal("create session returned no id")
	}
	if resp.State.Phase != game.PhaseMenu {
		t.Errorf("new session phase = %q, want menu", resp.State.Phase)
	}
	return resp.ID
}

// start creates a session and waits for its deal on difficulty d.
func (f *fixture) start(t *testing.T, d levels.Difficulty) (string, game.Snapshot) {
	t.Helper()
	id := f.create(t)

	var resp sessionResponse
	body := fmt.Sprintf(`{"difficulty":%q}`, d)
	if code := f.do(t, http.MethodPost, "/api/sessions/"+id+"/difficulty", body, &resp); code != http.StatusAccepted {
		t.Fatalf("choose difficulty status = %d, want 202", code)
	}
	f.srv.fetches.Wait()

	return id, f.snapshot(t, id)
}

func (f *fixture) snapshot(t *testing.T, id string) game.Snapshot {
	t.Helper()
	var resp sessionResponse
	if code := f.do(t, http.MethodGet, "/api/sessions/"+id, "", &resp); code != http.StatusOK {
		t.Fatalf("get session status = %d, want 200", code)
	}
	return resp.State
}

func (f *fixture) click(t *testing.T, id, card string) sessionResponse {
	t.Helper()
	var resp sessionResponse
	path := "/api/sessions/" + id + "/cards/" + card + "/click"
	if code := f.do(t, http.MethodPost, path, "", &resp); code != http.StatusOK {
		t.Fatalf("click status = %d, want 200", code)
	}
	return resp
}

func TestNewServerRequiresDealer(t *testing.T) {
	if _, err := NewServer(Config{}); err == nil {
		t.Fatal("NewServer() without dealer should fail")
	}
}

func TestHealthAndLevels(t *testing.T) {
	f := newFixture(t, stubDealer{cards: testCards(levels.HandSize)})

	var health map[string]any
	if code := f.do(t, http.MethodGet, "/api/health", "", &health); code != http.StatusOK {
		t.Fatalf("health status = %d", code)
	}
	if health["status"] != "ok" {
		t.Errorf("health status field = %v, want ok", health["status"])
	}

	var table levels.Table
	if code := f.do(t, http.MethodGet, "/api/levels", "", &table); code != http.StatusOK {
		t.Fatalf("levels status = %d", code)
	}
	if got := table.ActiveCount(levels.Hard, 5); got != 16 {
		t.Errorf("hard level 5 active = %d, want 16", got)
	}
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t, stubDealer{cards: testCards(levels.HandSize)})
	id, snap := f.start(t, levels.Easy)

	if snap.Phase != game.PhasePlaying {
		t.Fatalf("phase after deal = %q, want playing", snap.Phase)
	}
	if snap.ActiveCount != 4 || len(snap.Cards) != levels.HandSize {
		t.Fatalf("active = %d, cards = %d; want 4 and %d", snap.ActiveCount, len(snap.Cards), levels.HandSize)
	}

	first := snap.Active()[0].ID
	resp := f.click(t, id, first)
	if resp.Result != "matched" {
		t.Fatalf("first click result = %q, want matched", resp.Result)
	}
	if resp.State.Score != 50 || !resp.State.IsFlipping {
		t.Errorf("after click score = %d flipping = %v, want 50 true", resp.State.Score, resp.State.IsFlipping)
	}

	// Input is locked until the window passes.
	if again := f.click(t, id, snap.Active()[1].ID); again.Result != "ignored" {
		t.Errorf("click during window = %q, want ignored", again.Result)
	}

	f.clock.Add(game.DefaultShuffleWindow)
	snap = f.snapshot(t, id)
	if snap.IsFlipping {
		t.Fatal("window should have settled after the clock advanced")
	}

	var matched string
	for _, c := range snap.Active() {
		if c.WasClicked {
			matched = c.ID
		}
	}
	if matched != first {
		t.Fatalf("clicked card %q not found among active cards", first)
	}

	over := f.click(t, id, matched)
	if over.Result != "gameover" {
		t.Fatalf("repeat click result = %q, want gameover", over.Result)
	}
	if over.State.Modal == nil || over.State.Modal.Message != game.MessageGameOver {
		t.Fatalf("modal = %+v, want game over", over.State.Modal)
	}

	var scores []storage.ScoreEntry
	if code := f.do(t, http.MethodGet, "/api/scores?difficulty=easy", "", &scores); code != http.StatusOK {
		t.Fatalf("scores status = %d", code)
	}
	if len(scores) != 1 {
		t.Fatalf("scores = %d entries, want 1", len(scores))
	}
	if scores[0].Player != "http:"+id || scores[0].Score != 50 || scores[0].Won {
		t.Errorf("score entry = %+v", scores[0])
	}

	var restarted sessionResponse
	if code := f.do(t, http.MethodPost, "/api/sessions/"+id+"/restart", "", &restarted); code != http.StatusOK {
		t.Fatalf("restart status = %d", code)
	}
	if restarted.State.Score != 0 || restarted.State.Level != 1 || restarted.State.Modal != nil {
		t.Errorf("after restart = %+v", restarted.State)
	}
}

func TestMenuAndDismiss(t *testing.T) {
	f := newFixture(t, stubDealer{cards: testCards(levels.HandSize)})
	id, _ := f.start(t, levels.Medium)

	var resp sessionResponse
	if code := f.do(t, http.MethodPost, "/api/sessions/"+id+"/dismiss", "", &resp); code != http.StatusOK {
		t.Fatalf("dismiss status = %d", code)
	}
	if resp.State.Phase != game.PhasePlaying {
		t.Errorf("dismiss without modal changed phase to %q", resp.State.Phase)
	}

	if code := f.do(t, http.MethodPost, "/api/sessions/"+id+"/menu", "", &resp); code != http.StatusOK {
		t.Fatalf("menu status = %d", code)
	}
	if resp.State.Phase != game.PhaseMenu || resp.State.Difficulty != levels.None {
		t.Errorf("after menu = %+v", resp.State)
	}
}

func TestFailedDealLeavesEmptyBoard(t *testing.T) {
	f := newFixture(t, stubDealer{err: errors.New("catalog down")})
	_, snap := f.start(t, levels.Hard)

	if snap.IsLoading || len(snap.Cards) != 0 || snap.Phase != game.PhasePlaying {
		t.Errorf("snapshot after failed deal = %+v", snap)
	}
}

func TestErrors(t *testing.T) {
	f := newFixture(t, stubDealer{cards: testCards(levels.HandSize)})
	id, _ := f.start(t, levels.Easy)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown session", http.MethodGet, "/api/sessions/nope", "", http.StatusNotFound},
		{"unknown session click", http.MethodPost, "/api/sessions/nope/cards/c00/click", "", http.StatusNotFound},
		{"unknown session restart", http.MethodPost, "/api/sessions/nope/restart", "", http.StatusNotFound},
		{"bad difficulty", http.MethodPost, "/api/sessions/" + id + "/difficulty", `{"difficulty":"nightmare"}`, http.StatusBadRequest},
		{"bad body", http.MethodPost, "/api/sessions/" + id + "/difficulty", `{`, http.StatusBadRequest},
		{"already playing", http.MethodPost, "/api/sessions/" + id + "/difficulty", `{"difficulty":"easy"}`, http.StatusConflict},
		{"bad score difficulty", http.MethodGet, "/api/scores?difficulty=nightmare", "", http.StatusBadRequest},
		{"bad stats difficulty", http.MethodGet, "/api/scores/stats?difficulty=nightmare", "", http.StatusBadRequest},
		{"bad score limit", http.MethodGet, "/api/scores?limit=-1", "", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
		{"wrong method", http.MethodPut, "/api/sessions", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			code := f.do(t, tt.method, tt.path, tt.body, &body)
			if code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
			if body.Error != http.StatusText(tt.want) || body.Status != tt.want || body.Message == "" {
				t.Errorf("error body = %+v", body)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t, stubDealer{cards: testCards(levels.HandSize)})
	id := f.create(t)

	if code := f.do(t, http.MethodDelete, "/api/sessions/"+id, "", nil); code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", code)
	}
	if code := f.do(t, http.MethodGet, "/api/sessions/"+id, "", nil); code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", code)
	}
	if code := f.do(t, http.MethodDelete, "/api/sessions/"+id, "", nil); code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", code)
	}
}

func TestIdleSessionsExpire(t *testing.T) {
	f := newFixture(t, stubDealer{cards: testCards(levels.HandSize)})
	stale := f.create(t)

	f.clock.Add(DefaultSessionTTL / 2)
	fresh := f.create(t)

	f.clock.Add(DefaultSessionTTL/2 + time.Second)
	if n := f.srv.Prune(); n != 1 {
		t.Fatalf("Prune() = %d, want 1", n)
	}
	if code := f.do(t, http.MethodGet, "/api/sessions/"+stale, "", nil); code != http.StatusNotFound {
		t.Errorf("stale session status = %d, want 404", code)
	}
	if code := f.do(t, http.MethodGet, "/api/sessions/"+fresh, "", nil); code != http.StatusOK {
		t.Errorf("fresh session status = %d, want 200", code)
	}
}

func TestScoresDefaultsToEmptyList(t *testing.T) {
	f := newFixture(t, stubDealer{cards: testCards(levels.HandSize)})

	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, stubDealer{cards: testCards(levels.HandSize)})

	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/sessions", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestScoreStats(t *testing.T) {
	f := newFixture(t, stubDealer{cards: testCards(levels.HandSize)})

	runs := []storage.ScoreEntry{
		{Player: "a", Difficulty: levels.Easy, Level: 1, Score: 150},
		{Player: "b", Difficulty: levels.Easy, Level: 3, Score: 1060, Won: true},
		{Player: "c", Difficulty: levels.Hard, Level: 2, Score: 400},
	}
	for _, e := range runs {
		if _, err := f.store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() error: %v", err)
		}
	}

	var easy storage.Stats
	if code := f.do(t, http.MethodGet, "/api/scores/stats?difficulty=easy", "", &easy); code != http.StatusOK {
		t.Fatalf("stats status = %d", code)
	}
	if easy.Difficulty != levels.Easy || easy.Runs != 2 || easy.Wins != 1 || easy.HighScore != 1060 || easy.BestLevel != 3 {
		t.Errorf("easy stats = %+v", easy)
	}

	var all []storage.Stats
	if code := f.do(t, http.MethodGet, "/api/scores/stats", "", &all); code != http.StatusOK {
		t.Fatalf("all stats status = %d", code)
	}
	if len(all) != len(levels.Difficulties()) {
		t.Fatalf("all stats = %d entries, want %d", len(all), len(levels.Difficulties()))
	}
	for _, st := range all {
		want := map[levels.Difficulty]int{levels.Easy: 2, levels.Medium: 0, levels.Hard: 1}[st.Difficulty]
		if st.Runs != want {
			t.Errorf("%s runs = %d, want %d", st.Difficulty, st.Runs, want)
		}
	}
}
