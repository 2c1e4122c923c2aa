// Package storage provides the SQLite-backed run scoreboard.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// The database lives in memory for the lifetime of the process.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/memory-match/internal/game"
	"github.com/vovakirdan/memory-match/internal/levels"
)

// Store manages the SQLite connection holding finished runs.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one finished run: a game over or a completed difficulty.
type ScoreEntry struct {
	ID         int64             `json:"id"`
	Player     string            `json:"player,omitempty"`
	Difficulty levels.Difficulty `json:"difficulty"`
	Level      int               `json:"level"`
	Score      int               `json:"score"`
	Won        bool              `json:"won"`
	CreatedAt  time.Time         `json:"created_at"`
}

// EntryFromRun converts a finished run into a scoreboard entry.
func EntryFromRun(player string, r game.RunResult) ScoreEntry {
	return ScoreEntry{
		Player:     player,
		Difficulty: r.Difficulty,
		Level:      r.Level,
		Score:      r.Score,
		Won:        r.Won,
	}
}

// OpenMemory creates an in-memory scoreboard and runs migrations.
// Nothing is written to disk; the data is gone when the Store is closed.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Every pooled connection would get its own empty :memory: database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL,
			level INTEGER NOT NULL,
			score INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_difficulty ON runs(difficulty);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(difficulty, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	if e.Difficulty == levels.None {
		return 0, fmt.Errorf("storage: cannot save score: no difficulty")
	}

	result, err := s.db.Exec(
		"INSERT INTO runs (player, difficulty, level, score, won) VALUES (?, ?, ?, ?, ?)",
		e.Player, string(e.Difficulty), e.Level, e.Score, e.Won,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N runs for a difficulty, or across all
// difficulties when d is levels.None. Results are ordered by score
// descending; equal scores keep insertion order.
func (s *Store) TopScores(d levels.Difficulty, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, player, difficulty, level, score, won, created_at
		 FROM runs
		 WHERE ? = '' OR difficulty = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		string(d), string(d), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var difficulty string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &difficulty, &e.Level, &e.Score, &e.Won, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Difficulty = levels.Difficulty(difficulty)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for a difficulty.
// Returns 0 if no runs exist.
func (s *Store) HighScore(d levels.Difficulty) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE difficulty = ?",
		string(d),
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// Stats contains aggregated statistics for a difficulty.
type Stats struct {
	Difficulty levels.Difficulty `json:"difficulty"`
	Runs       int               `json:"runs"`
	Wins       int               `json:"wins"`
	HighScore  int               `json:"high_score"`
	BestLevel  int               `json:"best_level"`
	AvgScore   float64           `json:"avg_score"`
	LastPlayed time.Time         `json:"last_played"`
}

// GetStats retrieves aggregated statistics for a difficulty.
func (s *Store) GetStats(d levels.Difficulty) (*Stats, error) {
	stats := &Stats{Difficulty: d}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(MAX(score), 0),
		        COALESCE(MAX(level), 0), COALESCE(AVG(score), 0), MAX(created_at)
		 FROM runs WHERE difficulty = ?`,
		string(d),
	).Scan(&stats.Runs, &stats.Wins, &stats.HighScore, &stats.BestLevel, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// parseTime handles both time.Time and string values from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
