package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vovakirdan/memory-match/internal/game"
	"github.com/vovakirdan/memory-match/internal/levels"
	"github.com/vovakirdan/memory-match/internal/storage"
)

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
	maxBodyBytes      = 1 << 12
)

type sessionResponse struct {
	ID     string        `json:"id"`
	State  game.Snapshot `json:"state"`
	Result string        `json:"result,omitempty"`
}

type difficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}

func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.config.Table)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	d := levels.None
	if name := q.Get("difficulty"); name != "" {
		parsed, err := levels.ParseDifficulty(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		d = parsed
	}

	limit := defaultScoreLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxScoreLimit)
	}

	scores := []storage.ScoreEntry{}
	if s.config.Store != nil {
		top, err := s.config.Store.TopScores(d, limit)
		if err != nil {
			s.logger.Error("load scores", "err", err)
			writeError(w, http.StatusInternalServerError, "could not load scores")
			return
		}
		if top != nil {
			scores = top
		}
	}
	writeJSON(w, http.StatusOK, scores)
}

// handleStats returns run aggregates for one difficulty, or for every
// difficulty when none is named.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ds := levels.Difficulties()
	name := r.URL.Query().Get("difficulty")
	if name != "" {
		d, err := levels.ParseDifficulty(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ds = []levels.Difficulty{d}
	}

	out := make([]*storage.Stats, 0, len(ds))
	for _, d := range ds {
		stats := &storage.Stats{Difficulty: d}
		if s.config.Store != nil {
			loaded, err := s.config.Store.GetStats(d)
			if err != nil {
				s.logger.Error("load stats", "difficulty", d, "err", err)
				writeError(w, http.StatusInternalServerError, "could not load stats")
				return
			}
			stats = loaded
		}
		out = append(out, stats)
	}

	if name != "" {
		writeJSON(w, http.StatusOK, out[0])
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, _ *http.Request) {
	s.Prune()
	sess := s.newSession()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.logger.Info("session created", "session", sess.id)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.id, State: sess.game.Snapshot()})
}

// lookup finds the session named in the path, writing a 404 when absent.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := mux.Vars(r)["id"]
	sess, ok := s.sessions.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session "+id)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.catchUp(s.now())
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.id, State: sess.game.Snapshot()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.sessions.remove(id) {
		writeError(w, http.StatusNotFound, "unknown session "+id)
		return
	}
	s.logger.Info("session ended", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req difficultyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	d, err := levels.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.catchUp(s.now())

	ticket, ok := sess.game.ChooseDifficulty(d)
	if !ok {
		writeError(w, http.StatusConflict, "a game is already in progress")
		return
	}
	s.deal(sess, ticket)
	writeJSON(w, http.StatusAccepted, sessionResponse{ID: sess.id, State: sess.game.Snapshot()})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	card := mux.Vars(r)["card"]

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.catchUp(s.now())

	result := sess.game.ClickCard(card)
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:     sess.id,
		State:  sess.game.Snapshot(),
		Result: result.String(),
	})
}

// action adapts a no-argument game operation into a handler.
func (s *Server) action(op func(*game.Game)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.lookup(w, r)
		if !ok {
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.catchUp(s.now())

		op(sess.game)
		writeJSON(w, http.StatusOK, sessionResponse{ID: sess.id, State: sess.game.Snapshot()})
	}
}
