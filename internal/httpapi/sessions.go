package httpapi

import (
	"sync"
	"time"

	"github.com/vovakirdan/memory-match/internal/game"
)

// session is one browser player's game. The game is only touched with mu held.
type session struct {
	id       string
	mu       sync.Mutex
	game     *game.Game
	lastSeen time.Time
}

// catchUp advances the game clock to now, firing any shuffle-window task
// that came due since the last request.
func (s *session) catchUp(now time.Time) {
	if d := now.Sub(s.lastSeen); d > 0 {
		s.game.Advance(d)
	}
	s.lastSeen = now
}

// registry holds live sessions.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*session)}
}

func (r *registry) add(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

func (r *registry) get(id string) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// prune drops sessions idle for longer than ttl and returns how many went.
func (r *registry) prune(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen)
		s.mu.Unlock()
		if idle > ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
