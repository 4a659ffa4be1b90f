package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"spellquest/internal/beatgen"
	"spellquest/internal/confidence"
	"spellquest/internal/difficulty"
	"spellquest/internal/practice"
	"spellquest/internal/store"
	"spellquest/internal/story"
	"spellquest/internal/words"
)

func testService(t *testing.T, opts ...Option) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, opts...), st
}

func fixedNow() time.Time {
	return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
}

func seedCleanAttempts(t *testing.T, st *store.Store, word string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		rec := practice.AttemptRecord{
			Word: word, Correct: true, Attempts: 1, DurationMs: 15000,
			MechanicID: "word-flash", CompletedAt: fixedNow().Add(time.Duration(i) * time.Minute),
		}
		if err := st.AttemptRepo().AppendAttempt(ctx, rec); err != nil {
			t.Fatalf("seed attempt: %v", err)
		}
	}
}

func TestConfidencesFromLog(t *testing.T) {
	svc, st := testService(t)
	seedCleanAttempts(t, st, "anchor", 3)

	confs, err := svc.Confidences(context.Background(), []string{"anchor", "coral"})
	if err != nil {
		t.Fatalf("confidences: %v", err)
	}
	if confs["anchor"].Score != 100 || confs["anchor"].Level != confidence.LevelMastered {
		t.Errorf("anchor = %+v, want mastered 100", confs["anchor"])
	}
	if confs["coral"].Score != 0 || confs["coral"].Level != confidence.LevelNeedsWork {
		t.Errorf("coral = %+v, want needs-work 0 for no history", confs["coral"])
	}
}

func TestAllWordsMastered(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	list := words.List{ID: "tiny", Name: "Tiny", Theme: "test", Words: []string{"ship", "wave"}}
	if err := st.WordListRepo().SaveWordList(ctx, list); err != nil {
		t.Fatalf("save list: %v", err)
	}

	// No lists mastered yet: wave has no history.
	seedCleanAttempts(t, st, "ship", 3)
	ok, err := svc.AllWordsMastered(ctx)
	if err != nil {
		t.Fatalf("mastered: %v", err)
	}
	if ok {
		t.Error("mastered = true with an unpracticed word")
	}

	seedCleanAttempts(t, st, "wave", 3)
	ok, err = svc.AllWordsMastered(ctx)
	if err != nil {
		t.Fatalf("mastered: %v", err)
	}
	if !ok {
		t.Error("mastered = false with every word at 100")
	}
}

func TestAllWordsMastered_NoListsIsFalse(t *testing.T) {
	svc, _ := testService(t)
	ok, err := svc.AllWordsMastered(context.Background())
	if err != nil {
		t.Fatalf("mastered: %v", err)
	}
	if ok {
		t.Error("mastered = true with no word lists")
	}
}

func TestProfilePersists(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()
	seedCleanAttempts(t, st, "anchor", 15)

	p, err := svc.Profile(ctx)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Primary != practice.StyleVisual {
		t.Errorf("primary = %s, want visual (all attempts on word-flash)", p.Primary)
	}

	saved, err := st.ProfileRepo().LatestProfile(ctx)
	if err != nil {
		t.Fatalf("latest profile: %v", err)
	}
	if saved == nil || saved.SampleSize != 15 {
		t.Errorf("saved profile = %+v", saved)
	}
}

func TestPlanFreeformSession(t *testing.T) {
	svc, _ := testService(t, WithClock(fixedNow))
	list := words.List{ID: "tiny", Name: "Tiny", Theme: "test", Words: []string{"ship", "wave", "coral", "anchor"}}

	plan, err := svc.PlanFreeformSession(context.Background(), list, 6)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan) != 6 {
		t.Fatalf("plan length = %d, want 6", len(plan))
	}
	for _, w := range plan {
		found := false
		for _, pw := range list.Words {
			if w == pw {
				found = true
			}
		}
		if !found {
			t.Errorf("plan contains %q, not in pool", w)
		}
	}
}

func TestRecordReviewPersistsSchedule(t *testing.T) {
	svc, st := testService(t, WithClock(fixedNow))
	ctx := context.Background()
	seedCleanAttempts(t, st, "anchor", 3)

	if err := svc.RecordReview(ctx, "anchor"); err != nil {
		t.Fatalf("record review: %v", err)
	}

	states, err := st.ReviewRepo().LoadReviewStates(ctx)
	if err != nil {
		t.Fatalf("load states: %v", err)
	}
	if len(states) != 1 || states[0].Word != "anchor" {
		t.Fatalf("states = %+v", states)
	}
	// Mastered word moves from box 1 to box 2.
	if states[0].BoxLevel != 2 {
		t.Errorf("box = %d, want 2", states[0].BoxLevel)
	}
}

type stubGenerator struct {
	beats []story.Beat
	err   error
	calls int
}

func (g *stubGenerator) GenerateBeats(_ context.Context, _ beatgen.GenerateInput) ([]story.Beat, error) {
	g.calls++
	return g.beats, g.err
}

func TestNewStorySession_UsesGenerator(t *testing.T) {
	beats := []story.Beat{
		{ID: "b1", Kind: story.BeatNarrative, Text: "Off we go."},
		{ID: "b2", Kind: story.BeatGame, Word: "ship", MechanicID: "word-flash"},
	}
	gen := &stubGenerator{beats: beats}
	svc, _ := testService(t, WithBeatGenerator(gen), WithClock(fixedNow))

	list := words.List{ID: "tiny", Name: "Tiny", Theme: "ocean", Words: []string{"ship"}}
	m, err := svc.NewStorySession(context.Background(), list)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
	if m.State() != story.StateShowingIntro {
		t.Errorf("state = %s, want showingIntro", m.State())
	}
	if len(m.Context().Beats) != 2 {
		t.Errorf("beats = %d, want 2", len(m.Context().Beats))
	}
}

func TestNewStorySession_FallsBackOnGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("provider down")}
	svc, _ := testService(t, WithBeatGenerator(gen), WithClock(fixedNow))

	list := words.List{ID: "tiny", Name: "Tiny", Theme: "ocean", Words: []string{"ship", "wave"}}
	m, err := svc.NewStorySession(context.Background(), list)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if len(m.Context().Beats) == 0 {
		t.Fatal("fallback produced no beats")
	}
	games := 0
	for _, b := range m.Context().Beats {
		if b.Kind == story.BeatGame {
			games++
		}
	}
	if games != 2 {
		t.Errorf("fallback game beats = %d, want one per word", games)
	}
}

func TestStorySessionRoundPersistsAttempt(t *testing.T) {
	beats := []story.Beat{
		{ID: "b1", Kind: story.BeatGame, Word: "ship", MechanicID: "word-flash"},
		{ID: "b2", Kind: story.BeatNarrative, Text: "Onward."},
	}
	svc, st := testService(t, WithBeatGenerator(&stubGenerator{beats: beats}), WithClock(fixedNow))

	list := words.List{ID: "tiny", Name: "Tiny", Theme: "ocean", Words: []string{"ship", "wave"}}
	ctx := context.Background()
	m, err := svc.NewStorySession(ctx, list)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	m.Dispatch(ctx, story.Event{Type: story.EventStartStory})
	m.Dispatch(ctx, story.Event{Type: story.EventGameCompleted, Result: &story.GameResult{Correct: true, TimeSpentMs: 12000}})

	logged, err := st.AttemptRepo().AttemptsForWord(ctx, "ship")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(logged) != 1 {
		t.Fatalf("logged attempts = %d, want 1", len(logged))
	}

	seen, err := st.WordListRepo().IntroSeen(ctx, "tiny")
	if err != nil {
		t.Fatalf("intro seen: %v", err)
	}
	if !seen {
		t.Error("intro not marked seen after START_STORY")
	}
}

func TestTierFor(t *testing.T) {
	svc, st := testService(t)
	ctx := context.Background()

	// No history: the word-shape baseline stands.
	tier, err := svc.TierFor(ctx, "wave")
	if err != nil {
		t.Fatalf("tier: %v", err)
	}
	if tier != difficulty.TierMedium {
		t.Errorf("tier = %v, want %v for fresh word", tier, difficulty.TierMedium)
	}

	// A clean streak steps the tier up.
	seedCleanAttempts(t, st, "wave", 3)
	tier, err = svc.TierFor(ctx, "wave")
	if err != nil {
		t.Fatalf("tier: %v", err)
	}
	if tier != difficulty.TierHard {
		t.Errorf("tier = %v, want %v after clean streak", tier, difficulty.TierHard)
	}
}
