package selector

import "testing"

func perf(rounds ...RoundResult) *Performance {
	return &Performance{Rounds: rounds}
}

func TestSelectNextWord_UnpracticedFirst(t *testing.T) {
	pool := []string{"ant", "bee", "cow"}
	performance := map[string]*Performance{
		"ant": perf(RoundResult{Attempts: 1}),
	}

	got := SelectNextWord(pool, performance, "ant")
	if got != "bee" && got != "cow" {
		t.Errorf("got %s, want an unpracticed word", got)
	}
}

func TestSelectNextWord_UnpracticedAvoidsCurrent(t *testing.T) {
	pool := []string{"ant", "bee"}
	performance := map[string]*Performance{}

	if got := SelectNextWord(pool, performance, "ant"); got != "bee" {
		t.Errorf("got %s, want bee (avoid repeating current)", got)
	}
}

func TestSelectNextWord_OnlyCurrentUnpracticed(t *testing.T) {
	pool := []string{"ant", "bee"}
	performance := map[string]*Performance{
		"bee": perf(RoundResult{Attempts: 1}),
	}

	// ant is the only unpracticed word, so it wins even as the current word.
	if got := SelectNextWord(pool, performance, "ant"); got != "ant" {
		t.Errorf("got %s, want ant", got)
	}
}

func TestSelectNextWord_NeverRepeatsWhileUnpracticedRemain(t *testing.T) {
	pool := []string{"ant", "bee", "cow", "doe"}
	performance := map[string]*Performance{}

	current := ""
	seen := map[string]bool{}
	for i := 0; i < len(pool); i++ {
		next := SelectNextWord(pool, performance, current)
		if seen[next] {
			t.Fatalf("repeated %s while unpracticed words remain", next)
		}
		seen[next] = true
		performance[next] = perf(RoundResult{Attempts: 1})
		current = next
	}
}

func TestSelectNextWord_StrugglingWordWins(t *testing.T) {
	pool := []string{"ant", "bee", "cow"}
	performance := map[string]*Performance{
		"ant": perf(RoundResult{Attempts: 1}),                // clean: 100 - 5 = 95
		"bee": perf(RoundResult{Attempts: 3, HintsUsed: 2}),  // 100 - 40 - 30 - 20 - 5 = 5
		"cow": perf(RoundResult{Attempts: 2}),                // 100 - 20 - 20 - 5 = 55
	}

	if got := SelectNextWord(pool, performance, "ant"); got != "bee" {
		t.Errorf("got %s, want bee (lowest priority score)", got)
	}
}

func TestSelectNextWord_AvoidsImmediateRepeat(t *testing.T) {
	pool := []string{"ant", "bee"}
	performance := map[string]*Performance{
		"ant": perf(RoundResult{Attempts: 3, HintsUsed: 1}),
		"bee": perf(RoundResult{Attempts: 1}),
	}

	// ant scores lowest but was just played; bee is the runner-up.
	if got := SelectNextWord(pool, performance, "ant"); got != "bee" {
		t.Errorf("got %s, want bee (avoid immediate repeat)", got)
	}
}

func TestSelectNextWord_SingleWordPool(t *testing.T) {
	pool := []string{"ant"}
	performance := map[string]*Performance{
		"ant": perf(RoundResult{Attempts: 1}),
	}

	if got := SelectNextWord(pool, performance, "ant"); got != "ant" {
		t.Errorf("got %s, want ant (no alternative)", got)
	}
}

func TestSelectNextWord_EmptyPool(t *testing.T) {
	if got := SelectNextWord(nil, nil, ""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestPriorityScore_FloorsAtZero(t *testing.T) {
	p := perf(
		RoundResult{Attempts: 5, HintsUsed: 4},
		RoundResult{Attempts: 5, HintsUsed: 4},
	)
	if got := priorityScore(p); got != 0 {
		t.Errorf("priorityScore = %v, want 0", got)
	}
}
