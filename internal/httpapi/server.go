// Package httpapi serves the memory game as a JSON API. Every client gets
// its own session; a session's game is advanced by the wall-clock time
// that passed since its previous request before anything is read.
package httpapi

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/memory-match/internal/game"
	"github.com/vovakirdan/memory-match/internal/levels"
	"github.com/vovakirdan/memory-match/internal/storage"
)

const (
	// DefaultSessionTTL is how long an untouched session survives.
	DefaultSessionTTL = 30 * time.Minute

	fetchTimeout  = 15 * time.Second
	pruneInterval = time.Minute
)

// Config holds the dependencies of a Server.
type Config struct {
	Dealer        game.Dealer
	Store         *storage.Store // optional; finished runs are recorded here
	Table         *levels.Table
	ShuffleWindow time.Duration
	SessionTTL    time.Duration
	Logger        *log.Logger

	// Now is the clock sessions advance by. Defaults to time.Now.
	Now func() time.Time
	// Seed fixes card shuffles for every session when non-zero.
	Seed int64
}

// Server is the HTTP front end.
type Server struct {
	config   Config
	logger   *log.Logger
	now      func() time.Time
	sessions *registry
	router   *mux.Router

	ctx     context.Context // parent of every deal; canceled by Close
	cancel  context.CancelFunc
	fetches sync.WaitGroup
}

// NewServer builds the router and an empty session registry.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Dealer == nil {
		return nil, errors.New("httpapi: no dealer configured")
	}
	if cfg.Table == nil {
		cfg.Table = levels.Default()
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:   cfg,
		logger:   logger.WithPrefix("http"),
		now:      now,
		sessions: newRegistry(),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/levels", s.handleLevels).Methods(http.MethodGet)
	r.HandleFunc("/api/scores", s.handleScores).Methods(http.MethodGet)
	r.HandleFunc("/api/scores/stats", s.handleStats).Methods(http.MethodGet)

	r.HandleFunc("/api/sessions", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/sessions/{id}", s.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/api/sessions/{id}/difficulty", s.handleDifficulty).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}/cards/{card}/click", s.handleClick).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}/restart", s.action((*game.Game).Restart)).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}/menu", s.action((*game.Game).BackToMenu)).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/{id}/dismiss", s.action((*game.Game).DismissModal)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "no such route")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.Use(s.logRequests)
	return r
}

// Handler returns the API with CORS applied.
func (s *Server) Handler() http.Handler {
	return withCORS(s.router)
}

// logRequests logs each request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(start),
		)
	})
}

// newSession creates a session whose finished runs go to the store.
func (s *Server) newSession() *session {
	id := uuid.NewString()
	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store := s.config.Store
	logger := s.logger.With("session", id)
	onRunEnd := func(r game.RunResult) {
		if store == nil {
			return
		}
		if _, err := store.SaveScore(storage.EntryFromRun("http:"+id, r)); err != nil {
			logger.Warn("could not save score", "err", err)
		}
	}

	sess := &session{
		id: id,
		game: game.New(
			game.WithTable(s.config.Table),
			game.WithShuffleWindow(s.config.ShuffleWindow),
			game.WithRand(rand.New(rand.NewSource(seed))),
			game.WithLogger(logger.WithPrefix("game")),
			game.WithRunEnd(onRunEnd),
		),
		lastSeen: s.now(),
	}
	s.sessions.add(sess)
	return sess
}

// deal runs the dealer off the request and hands the cards to the session.
func (s *Server) deal(sess *session, t game.Ticket) {
	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()

		ctx, cancel := context.WithTimeout(s.ctx, fetchTimeout)
		dl := game.Fetch(ctx, s.config.Dealer, t)
		cancel()

		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.catchUp(s.now())
		if !sess.game.Deliver(dl) {
			s.logger.Debug("stale deal dropped", "session", sess.id)
		}
	}()
}

// Prune drops idle sessions.
func (s *Server) Prune() int {
	n := s.sessions.prune(s.now(), s.config.SessionTTL)
	if n > 0 {
		s.logger.Info("expired sessions", "count", n, "live", s.sessions.len())
	}
	return n
}

// ListenAndServe serves on addr until ctx is canceled, pruning idle
// sessions in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Prune()
		case err := <-errCh:
			s.logger.Error("server error", "error", err)
			s.Close()
			return err
		case <-ctx.Done():
			s.logger.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := srv.Shutdown(shutdownCtx)
			s.Close()
			return err
		}
	}
}

// Close cancels outstanding deals and waits for them to return.
func (s *Server) Close() {
	s.cancel()
	s.fetches.Wait()
}
