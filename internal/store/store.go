// Package store persists spellquest state in SQLite: the append-only
// attempt log, per-word review schedules, the last-known learning style
// profile, story progress, word lists, and an LLM request event log.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle and hands out repositories.
type Store struct {
	db *sql.DB
}

// Open creates a Store connected to the SQLite database at dsn. It
// applies recommended pragmas and creates any missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AttemptRepo returns the attempt log repository.
func (s *Store) AttemptRepo() *AttemptRepo {
	return &AttemptRepo{db: s.db}
}

// ReviewRepo returns the review schedule repository.
func (s *Store) ReviewRepo() *ReviewRepo {
	return &ReviewRepo{db: s.db}
}

// ProfileRepo returns the learning style profile repository.
func (s *Store) ProfileRepo() *ProfileRepo {
	return &ProfileRepo{db: s.db}
}

// ProgressRepo returns the story progress repository bound to one word
// list.
func (s *Store) ProgressRepo(listID string) *ProgressRepo {
	return &ProgressRepo{db: s.db, listID: listID}
}

// WordListRepo returns the word list repository.
func (s *Store) WordListRepo() *WordListRepo {
	return &WordListRepo{db: s.db}
}

// EventRepo returns the LLM event log repository.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the schema. Every statement is idempotent, so this
// runs unconditionally on open.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			word TEXT NOT NULL,
			correct INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			hints_used INTEGER NOT NULL,
			mechanic_id TEXT NOT NULL,
			completed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_word ON attempts (word)`,
		`CREATE TABLE IF NOT EXISTS review_states (
			word TEXT PRIMARY KEY,
			box_level INTEGER NOT NULL,
			review_count INTEGER NOT NULL,
			last_review INTEGER NOT NULL,
			next_review INTEGER NOT NULL,
			interval_days INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS style_profile (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			visual_pct INTEGER NOT NULL,
			auditory_pct INTEGER NOT NULL,
			kinesthetic_pct INTEGER NOT NULL,
			primary_style TEXT NOT NULL,
			secondary_style TEXT NOT NULL,
			confidence TEXT NOT NULL,
			sample_size INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS story_progress (
			list_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS word_lists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			theme TEXT NOT NULL,
			words TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS intro_seen (
			list_id TEXT PRIMARY KEY,
			seen_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS llm_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			success INTEGER NOT NULL,
			error_message TEXT NOT NULL,
			request_body TEXT NOT NULL,
			response_body TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SPELLQUEST_DB environment variable
// 2. $XDG_DATA_HOME/spellquest/spellquest.db
// 3. ~/.local/share/spellquest/spellquest.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SPELLQUEST_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "spellquest", "spellquest.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
