package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spellquest/internal/learnstyle"
	"spellquest/internal/practice"
)

// ProfileRepo persists the last-known learning style profile. There is
// only ever one row; each save replaces it.
type ProfileRepo struct {
	db *sql.DB
}

// SaveProfile replaces the stored profile.
func (r *ProfileRepo) SaveProfile(ctx context.Context, p learnstyle.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO style_profile
			(id, visual_pct, auditory_pct, kinesthetic_pct, primary_style, secondary_style, confidence, sample_size, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			visual_pct = excluded.visual_pct,
			auditory_pct = excluded.auditory_pct,
			kinesthetic_pct = excluded.kinesthetic_pct,
			primary_style = excluded.primary_style,
			secondary_style = excluded.secondary_style,
			confidence = excluded.confidence,
			sample_size = excluded.sample_size,
			updated_at = excluded.updated_at`,
		p.VisualPct, p.AuditoryPct, p.KinestheticPct,
		string(p.Primary), string(p.Secondary), string(p.Confidence),
		p.SampleSize, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// LatestProfile returns the stored profile, or nil when none has been
// saved yet.
func (r *ProfileRepo) LatestProfile(ctx context.Context) (*learnstyle.Profile, error) {
	var p learnstyle.Profile
	var primary, secondary, confidence string
	err := r.db.QueryRowContext(ctx,
		`SELECT visual_pct, auditory_pct, kinesthetic_pct, primary_style, secondary_style, confidence, sample_size
		 FROM style_profile WHERE id = 1`).
		Scan(&p.VisualPct, &p.AuditoryPct, &p.KinestheticPct, &primary, &secondary, &confidence, &p.SampleSize)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	p.Primary = practice.Style(primary)
	p.Secondary = practice.Style(secondary)
	p.Confidence = learnstyle.Confidence(confidence)
	return &p, nil
}
