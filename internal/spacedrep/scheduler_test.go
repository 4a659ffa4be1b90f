package spacedrep

import (
	"math/rand/v2"
	"testing"
	"time"

	"spellquest/internal/confidence"
)

func fixedRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func conf(word string, score int) confidence.WordConfidence {
	return confidence.WordConfidence{Word: word, Score: score, Level: confidence.LevelFor(score)}
}

func TestInitialize_BoxOneDueImmediately(t *testing.T) {
	s := NewScheduler(nil)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	rs := s.Initialize("whale", now)
	if rs.BoxLevel != 1 {
		t.Errorf("BoxLevel = %d, want 1", rs.BoxLevel)
	}
	if !rs.IsDue(now) {
		t.Error("new word should be due immediately")
	}
	if rs.CurrentIntervalDays != 1 {
		t.Errorf("CurrentIntervalDays = %d, want 1", rs.CurrentIntervalDays)
	}
}

func TestUpdate_MasteredPromotes(t *testing.T) {
	s := NewScheduler(nil)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	s.Initialize("whale", now)

	intervals := []int{2, 4, 7, 14, 14} // box 2,3,4,5, capped at 5
	for i, wantInterval := range intervals {
		rs := s.Update("whale", conf("whale", 90), now)
		if rs.CurrentIntervalDays != wantInterval {
			t.Errorf("update %d: interval = %d, want %d", i+1, rs.CurrentIntervalDays, wantInterval)
		}
		wantNext := now.AddDate(0, 0, wantInterval)
		if !rs.NextReviewDate.Equal(wantNext) {
			t.Errorf("update %d: NextReviewDate = %v, want %v", i+1, rs.NextReviewDate, wantNext)
		}
	}

	if got := s.Get("whale").BoxLevel; got != 5 {
		t.Errorf("BoxLevel = %d, want 5 (capped)", got)
	}
}

func TestUpdate_NeedsWorkResetsToBoxOne(t *testing.T) {
	s := NewScheduler(nil)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	s.Initialize("whale", now)
	s.Update("whale", conf("whale", 95), now)
	s.Update("whale", conf("whale", 95), now)

	rs := s.Update("whale", conf("whale", 30), now)
	if rs.BoxLevel != 1 {
		t.Errorf("BoxLevel = %d, want 1 after needs-work", rs.BoxLevel)
	}
	if rs.CurrentIntervalDays != 1 {
		t.Errorf("CurrentIntervalDays = %d, want 1", rs.CurrentIntervalDays)
	}
}

func TestUpdate_ProgressingPromotesOnlyAbove70(t *testing.T) {
	s := NewScheduler(nil)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	s.Initialize("whale", now)

	rs := s.Update("whale", conf("whale", 65), now)
	if rs.BoxLevel != 1 {
		t.Errorf("BoxLevel = %d, want 1 (score 65 stays)", rs.BoxLevel)
	}

	rs = s.Update("whale", conf("whale", 75), now)
	if rs.BoxLevel != 2 {
		t.Errorf("BoxLevel = %d, want 2 (score 75 promotes)", rs.BoxLevel)
	}
}

func TestUpdate_UntrackedWordInitializesFirst(t *testing.T) {
	s := NewScheduler(nil)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	rs := s.Update("comet", conf("comet", 85), now)
	if rs == nil {
		t.Fatal("expected review state")
	}
	if rs.BoxLevel != 2 {
		t.Errorf("BoxLevel = %d, want 2", rs.BoxLevel)
	}
}

func TestBoxIntervals_ExactLookup(t *testing.T) {
	want := map[int]int{1: 1, 2: 2, 3: 4, 4: 7, 5: 14}
	for box, days := range want {
		if BoxIntervals[box] != days {
			t.Errorf("BoxIntervals[%d] = %d, want %d", box, BoxIntervals[box], days)
		}
	}
}

func TestDueWordsInPriorityOrder(t *testing.T) {
	now := time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)
	s := NewScheduler([]*ReviewState{
		{Word: "ahead", BoxLevel: 5, NextReviewDate: now.AddDate(0, 0, 3)},       // not due
		{Word: "barely", BoxLevel: 4, NextReviewDate: now},                       // just due
		{Word: "crater", BoxLevel: 1, NextReviewDate: now.AddDate(0, 0, -3)},     // overdue, low box
		{Word: "drift", BoxLevel: 2, NextReviewDate: now.AddDate(0, 0, -1)},      // overdue
	})
	confs := map[string]confidence.WordConfidence{
		"crater": conf("crater", 20), // needs-work bonus
		"drift":  conf("drift", 70),
		"barely": conf("barely", 90),
	}

	due := s.DueWordsInPriorityOrder(confs, now, 0)
	if len(due) != 3 {
		t.Fatalf("len(due) = %d, want 3", len(due))
	}
	// crater: 30 + 25 + 20 = 75; drift: 10 + 20 = 30; barely: 0 + 10 = 10.
	wantOrder := []string{"crater", "drift", "barely"}
	for i, w := range wantOrder {
		if due[i].Word != w {
			t.Errorf("due[%d] = %s, want %s", i, due[i].Word, w)
		}
	}

	limited := s.DueWordsInPriorityOrder(confs, now, 2)
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}
}

func TestSelectSessionWords_SizeAndReservation(t *testing.T) {
	now := time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)
	s := NewScheduler(nil)
	pool := []string{"apple", "berry", "cedar", "daisy", "eagle", "fable"}
	for _, w := range pool {
		s.Initialize(w, now.AddDate(0, 0, -2))
	}
	confs := map[string]confidence.WordConfidence{
		"apple": conf("apple", 20),
		"berry": conf("berry", 40),
		"cedar": conf("cedar", 90),
		"daisy": conf("daisy", 85),
		"eagle": conf("eagle", 70),
		"fable": conf("fable", 65),
	}

	words := s.SelectSessionWords(pool, confs, 10, now, fixedRand())
	if len(words) != 10 {
		t.Fatalf("len = %d, want 10", len(words))
	}

	counts := make(map[string]int)
	for _, w := range words {
		counts[w]++
	}
	// Needs-work words repeated up to twice, filling the 60% reservation.
	if counts["apple"] != 2 {
		t.Errorf("apple count = %d, want 2", counts["apple"])
	}
	if counts["berry"] != 2 {
		t.Errorf("berry count = %d, want 2", counts["berry"])
	}
	for w, c := range counts {
		if c > 2 {
			t.Errorf("word %s repeated %d times, cap is 2", w, c)
		}
	}
}

func TestSelectSessionWords_SmallPoolPads(t *testing.T) {
	now := time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)
	s := NewScheduler(nil)
	words := s.SelectSessionWords([]string{"one", "two"}, nil, 6, now, fixedRand())
	if len(words) != 6 {
		t.Errorf("len = %d, want 6", len(words))
	}
}

func TestSelectSessionWords_EmptyPool(t *testing.T) {
	s := NewScheduler(nil)
	if got := s.SelectSessionWords(nil, nil, 5, time.Now(), fixedRand()); got != nil {
		t.Errorf("expected nil for empty pool, got %v", got)
	}
}
