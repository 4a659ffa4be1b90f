package store

import (
	"context"
	"database/sql"
	"fmt"

	"spellquest/internal/spacedrep"
)

// ReviewRepo persists per-word review schedules.
type ReviewRepo struct {
	db *sql.DB
}

// SaveReviewState upserts the schedule row for one word.
func (r *ReviewRepo) SaveReviewState(ctx context.Context, st *spacedrep.ReviewState) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO review_states (word, box_level, review_count, last_review, next_review, interval_days)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(word) DO UPDATE SET
			box_level = excluded.box_level,
			review_count = excluded.review_count,
			last_review = excluded.last_review,
			next_review = excluded.next_review,
			interval_days = excluded.interval_days`,
		st.Word, st.BoxLevel, st.ReviewCount,
		toMillis(st.LastReviewDate), toMillis(st.NextReviewDate), st.CurrentIntervalDays,
	)
	if err != nil {
		return fmt.Errorf("save review state: %w", err)
	}
	return nil
}

// LoadReviewStates returns every persisted review schedule.
func (r *ReviewRepo) LoadReviewStates(ctx context.Context) ([]*spacedrep.ReviewState, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT word, box_level, review_count, last_review, next_review, interval_days
		 FROM review_states`)
	if err != nil {
		return nil, fmt.Errorf("query review states: %w", err)
	}
	defer rows.Close()

	var out []*spacedrep.ReviewState
	for rows.Next() {
		var st spacedrep.ReviewState
		var last, next int64
		if err := rows.Scan(&st.Word, &st.BoxLevel, &st.ReviewCount, &last, &next, &st.CurrentIntervalDays); err != nil {
			return nil, fmt.Errorf("scan review state: %w", err)
		}
		st.LastReviewDate = fromMillis(last)
		st.NextReviewDate = fromMillis(next)
		out = append(out, &st)
	}
	return out, rows.Err()
}
