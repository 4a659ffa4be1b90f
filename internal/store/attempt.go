package store

import (
	"context"
	"database/sql"
	"fmt"

	"spellquest/internal/practice"
)

// AttemptRepo is the append-only attempt log. It is the sole source of
// truth for all derived scores; rows are never updated or deleted.
type AttemptRepo struct {
	db *sql.DB
}

// AppendAttempt records one completed practice round.
func (r *AttemptRepo) AppendAttempt(ctx context.Context, rec practice.AttemptRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attempts
			(word, correct, attempts, duration_ms, hints_used, mechanic_id, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Word, boolToInt(rec.Correct), rec.Attempts, rec.DurationMs,
		rec.HintsUsed, rec.MechanicID, toMillis(rec.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

// AttemptsForWord returns every recorded attempt for one word, oldest
// first.
func (r *AttemptRepo) AttemptsForWord(ctx context.Context, word string) ([]practice.AttemptRecord, error) {
	return r.query(ctx,
		`SELECT word, correct, attempts, duration_ms, hints_used, mechanic_id, completed_at
		 FROM attempts WHERE word = ? ORDER BY completed_at`, word)
}

// AllAttempts returns the full attempt log, oldest first.
func (r *AttemptRepo) AllAttempts(ctx context.Context) ([]practice.AttemptRecord, error) {
	return r.query(ctx,
		`SELECT word, correct, attempts, duration_ms, hints_used, mechanic_id, completed_at
		 FROM attempts ORDER BY completed_at`)
}

func (r *AttemptRepo) query(ctx context.Context, q string, args ...any) ([]practice.AttemptRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []practice.AttemptRecord
	for rows.Next() {
		var rec practice.AttemptRecord
		var correct int
		var completedAt int64
		if err := rows.Scan(&rec.Word, &correct, &rec.Attempts, &rec.DurationMs,
			&rec.HintsUsed, &rec.MechanicID, &completedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.Correct = correct != 0
		rec.CompletedAt = fromMillis(completedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}
