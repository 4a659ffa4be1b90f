package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"spellquest/internal/words"
)

// WordListRepo persists word lists and the per-list intro-seen marker.
type WordListRepo struct {
	db *sql.DB
}

// SaveWordList upserts one list.
func (r *WordListRepo) SaveWordList(ctx context.Context, l words.List) error {
	if err := l.Validate(); err != nil {
		return err
	}
	wordsJSON, err := json.Marshal(l.Words)
	if err != nil {
		return fmt.Errorf("marshal words: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO word_lists (id, name, theme, words)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			theme = excluded.theme,
			words = excluded.words`,
		l.ID, l.Name, l.Theme, string(wordsJSON),
	)
	if err != nil {
		return fmt.Errorf("save word list: %w", err)
	}
	return nil
}

// GetWordList returns one list by id, or nil when it does not exist.
func (r *WordListRepo) GetWordList(ctx context.Context, id string) (*words.List, error) {
	var l words.List
	var wordsJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, theme, words FROM word_lists WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.Theme, &wordsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query word list: %w", err)
	}
	if err := json.Unmarshal([]byte(wordsJSON), &l.Words); err != nil {
		return nil, fmt.Errorf("unmarshal words: %w", err)
	}
	return &l, nil
}

// ListWordLists returns every stored list, ordered by id.
func (r *WordListRepo) ListWordLists(ctx context.Context) ([]words.List, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, theme, words FROM word_lists ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query word lists: %w", err)
	}
	defer rows.Close()

	var out []words.List
	for rows.Next() {
		var l words.List
		var wordsJSON string
		if err := rows.Scan(&l.ID, &l.Name, &l.Theme, &wordsJSON); err != nil {
			return nil, fmt.Errorf("scan word list: %w", err)
		}
		if err := json.Unmarshal([]byte(wordsJSON), &l.Words); err != nil {
			return nil, fmt.Errorf("unmarshal words: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SeedStarterLists inserts the built-in lists that are not already
// present. Existing lists are left untouched.
func (r *WordListRepo) SeedStarterLists(ctx context.Context) error {
	for _, l := range words.StarterLists() {
		wordsJSON, err := json.Marshal(l.Words)
		if err != nil {
			return fmt.Errorf("marshal words: %w", err)
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO word_lists (id, name, theme, words) VALUES (?, ?, ?, ?)`,
			l.ID, l.Name, l.Theme, string(wordsJSON))
		if err != nil {
			return fmt.Errorf("seed word list %s: %w", l.ID, err)
		}
	}
	return nil
}

// MarkIntroSeen records that the intro for a list has been shown. It
// satisfies the story machine's intro marker interface.
func (r *WordListRepo) MarkIntroSeen(ctx context.Context, listID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO intro_seen (list_id, seen_at) VALUES (?, ?)`,
		listID, toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("mark intro seen: %w", err)
	}
	return nil
}

// IntroSeen reports whether the intro for a list has been shown before.
func (r *WordListRepo) IntroSeen(ctx context.Context, listID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM intro_seen WHERE list_id = ?`, listID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query intro seen: %w", err)
	}
	return n > 0, nil
}
