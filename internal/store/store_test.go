package store

import (
	"context"
	"testing"
	"time"

	"spellquest/internal/learnstyle"
	"spellquest/internal/practice"
	"spellquest/internal/progress"
	"spellquest/internal/spacedrep"
	"spellquest/internal/words"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL falls back to "memory" for in-memory databases, so
		// journal_mode is only meaningful against a file.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAttemptLogRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	recs := []practice.AttemptRecord{
		{Word: "anchor", Correct: true, Attempts: 1, DurationMs: 12000, MechanicID: "word-flash", CompletedAt: base},
		{Word: "anchor", Correct: false, Attempts: 3, DurationMs: 40000, HintsUsed: 2, MechanicID: "echo-spell", CompletedAt: base.Add(time.Minute)},
		{Word: "coral", Correct: true, Attempts: 1, DurationMs: 9000, MechanicID: "letter-tiles", CompletedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range recs {
		if err := repo.AppendAttempt(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	anchor, err := repo.AttemptsForWord(ctx, "anchor")
	if err != nil {
		t.Fatalf("attempts for word: %v", err)
	}
	if len(anchor) != 2 {
		t.Fatalf("anchor attempts = %d, want 2", len(anchor))
	}
	if !anchor[0].Correct || anchor[0].MechanicID != "word-flash" {
		t.Errorf("first attempt = %+v", anchor[0])
	}
	if anchor[1].Attempts != 3 || anchor[1].HintsUsed != 2 {
		t.Errorf("second attempt = %+v", anchor[1])
	}
	if !anchor[0].CompletedAt.Equal(base) {
		t.Errorf("completed_at = %v, want %v", anchor[0].CompletedAt, base)
	}

	all, err := repo.AllAttempts(ctx)
	if err != nil {
		t.Fatalf("all attempts: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all attempts = %d, want 3", len(all))
	}
}

func TestReviewStateUpsert(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()

	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	st := &spacedrep.ReviewState{
		Word: "anchor", BoxLevel: 1, ReviewCount: 1,
		LastReviewDate: now, NextReviewDate: now.AddDate(0, 0, 1), CurrentIntervalDays: 1,
	}
	if err := repo.SaveReviewState(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}

	st.BoxLevel = 2
	st.ReviewCount = 2
	st.CurrentIntervalDays = 2
	st.NextReviewDate = now.AddDate(0, 0, 2)
	if err := repo.SaveReviewState(ctx, st); err != nil {
		t.Fatalf("save again: %v", err)
	}

	states, err := repo.LoadReviewStates(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(states) != 1 {
		t.Fatalf("states = %d, want 1 (upsert, not insert)", len(states))
	}
	got := states[0]
	if got.BoxLevel != 2 || got.ReviewCount != 2 || got.CurrentIntervalDays != 2 {
		t.Errorf("state = %+v", got)
	}
}

func TestProfileSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProfileRepo()
	ctx := context.Background()

	none, err := repo.LatestProfile(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil profile, got %+v", none)
	}

	p := learnstyle.Profile{
		VisualPct: 50, AuditoryPct: 30, KinestheticPct: 20,
		Primary: practice.StyleVisual, Secondary: practice.StyleAuditory,
		Confidence: learnstyle.ConfidenceMedium, SampleSize: 25,
	}
	if err := repo.SaveProfile(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.LatestProfile(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got == nil || *got != p {
		t.Errorf("profile = %+v, want %+v", got, p)
	}
}

func TestProgressRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo("ocean-voyage")
	ctx := context.Background()

	none, err := repo.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil snapshot, got %+v", none)
	}

	snap := progress.Snapshot{
		Checkpoint: 2, RoundsCompleted: 11, Unlocked: []int{0, 1, 2},
		RoundsAtLastCheckpoint: 10, Theme: "ocean",
	}
	if err := repo.SaveProgress(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Checkpoint != 2 || got.RoundsCompleted != 11 || len(got.Unlocked) != 3 {
		t.Errorf("snapshot = %+v", got)
	}

	// Per-list isolation.
	other, err := s.ProgressRepo("forest-trail").LoadProgress(ctx)
	if err != nil {
		t.Fatalf("load other list: %v", err)
	}
	if other != nil {
		t.Errorf("expected nil for other list, got %+v", other)
	}

	if err := repo.ClearProgress(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cleared, err := repo.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if cleared != nil {
		t.Errorf("expected nil after clear, got %+v", cleared)
	}
}

func TestWordListSeedAndIntroSeen(t *testing.T) {
	s := openTestStore(t)
	repo := s.WordListRepo()
	ctx := context.Background()

	if err := repo.SeedStarterLists(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	lists, err := repo.ListWordLists(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lists) != len(words.StarterLists()) {
		t.Fatalf("lists = %d, want %d", len(lists), len(words.StarterLists()))
	}

	// Seeding again does not duplicate or overwrite.
	custom := lists[0]
	custom.Name = "My Ocean"
	if err := repo.SaveWordList(ctx, custom); err != nil {
		t.Fatalf("save custom: %v", err)
	}
	if err := repo.SeedStarterLists(ctx); err != nil {
		t.Fatalf("seed again: %v", err)
	}
	got, err := repo.GetWordList(ctx, custom.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "My Ocean" {
		t.Errorf("name = %q, reseed overwrote a custom list", got.Name)
	}

	seen, err := repo.IntroSeen(ctx, custom.ID)
	if err != nil {
		t.Fatalf("intro seen: %v", err)
	}
	if seen {
		t.Error("intro reported seen before marking")
	}
	if err := repo.MarkIntroSeen(ctx, custom.ID); err != nil {
		t.Fatalf("mark intro: %v", err)
	}
	seen, err = repo.IntroSeen(ctx, custom.ID)
	if err != nil {
		t.Fatalf("intro seen: %v", err)
	}
	if !seen {
		t.Error("intro not reported seen after marking")
	}
}

func TestLLMEventLog(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEvent{
		{Provider: "mock", Model: "mock", Purpose: "beat-generation", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true},
		{Provider: "mock", Model: "mock", Purpose: "beat-generation", Success: false, ErrorMessage: "rate limited"},
	}
	for _, ev := range events {
		if err := repo.AppendLLMRequest(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recent, err := repo.RecentLLMRequests(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent = %d, want 2", len(recent))
	}
	// Newest first.
	if recent[0].Success || recent[0].ErrorMessage != "rate limited" {
		t.Errorf("newest event = %+v", recent[0])
	}
	if !recent[1].Success || recent[1].OutputTokens != 400 {
		t.Errorf("oldest event = %+v", recent[1])
	}
}
