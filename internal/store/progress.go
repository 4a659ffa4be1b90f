package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"spellquest/internal/progress"
)

// ProgressRepo persists the story progress snapshot for one word list.
// It satisfies progress.Repo.
type ProgressRepo struct {
	db     *sql.DB
	listID string
}

// SaveProgress writes the latest snapshot, replacing any previous one
// for this list.
func (r *ProgressRepo) SaveProgress(ctx context.Context, snap progress.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO story_progress (list_id, data, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(list_id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		r.listID, string(data), toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// LoadProgress returns the stored snapshot for this list, or nil when
// none exists.
func (r *ProgressRepo) LoadProgress(ctx context.Context) (*progress.Snapshot, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM story_progress WHERE list_id = ?`, r.listID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	var snap progress.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	return &snap, nil
}

// ClearProgress deletes the stored snapshot for this list.
func (r *ProgressRepo) ClearProgress(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM story_progress WHERE list_id = ?`, r.listID); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
