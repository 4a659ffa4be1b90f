package learnstyle

import (
	"math/rand/v2"
	"testing"
	"time"

	"spellquest/internal/practice"
)

func record(mechanicID string, correct bool, tries, durationMs int) practice.AttemptRecord {
	return practice.AttemptRecord{
		Word:        "river",
		Correct:     correct,
		Attempts:    tries,
		DurationMs:  durationMs,
		MechanicID:  mechanicID,
		CompletedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func repeat(a practice.AttemptRecord, n int) []practice.AttemptRecord {
	out := make([]practice.AttemptRecord, n)
	for i := range out {
		out[i] = a
	}
	return out
}

func TestDetect_BelowMinimumSample(t *testing.T) {
	reg := practice.DefaultRegistry()
	history := repeat(record("word-flash", true, 1, 10000), 11)

	p := Detect(history, reg)
	if p.VisualPct != 33 || p.AuditoryPct != 33 || p.KinestheticPct != 34 {
		t.Errorf("percentages = %d/%d/%d, want 33/33/34", p.VisualPct, p.AuditoryPct, p.KinestheticPct)
	}
	if p.Primary != practice.StyleVisual {
		t.Errorf("Primary = %s, want visual", p.Primary)
	}
	if p.Secondary != "" {
		t.Errorf("Secondary = %s, want empty", p.Secondary)
	}
	if p.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %s, want low", p.Confidence)
	}
	if p.SampleSize != 11 {
		t.Errorf("SampleSize = %d, want 11", p.SampleSize)
	}
}

func TestDetect_VisualDominant(t *testing.T) {
	reg := practice.DefaultRegistry()
	var history []practice.AttemptRecord
	// Strong visual performance, weak auditory, no kinesthetic.
	history = append(history, repeat(record("word-flash", true, 1, 15000), 10)...)
	history = append(history, repeat(record("echo-spell", false, 3, 50000), 10)...)

	p := Detect(history, reg)
	if p.Primary != practice.StyleVisual {
		t.Errorf("Primary = %s, want visual", p.Primary)
	}
	if p.VisualPct <= p.AuditoryPct {
		t.Errorf("VisualPct %d should exceed AuditoryPct %d", p.VisualPct, p.AuditoryPct)
	}
	if p.KinestheticPct != 0 {
		t.Errorf("KinestheticPct = %d, want 0 (no attempts)", p.KinestheticPct)
	}
	// Auditory clearly beats kinesthetic (zero), so it is the secondary.
	if p.Secondary != practice.StyleAuditory {
		t.Errorf("Secondary = %s, want auditory", p.Secondary)
	}
}

func TestDetect_ConfidenceGrades(t *testing.T) {
	reg := practice.DefaultRegistry()

	// 15 attempts: low.
	p := Detect(repeat(record("word-flash", true, 1, 10000), 15), reg)
	if p.Confidence != ConfidenceLow {
		t.Errorf("15 attempts: Confidence = %s, want low", p.Confidence)
	}

	// 25 attempts: medium (sample below 40).
	p = Detect(repeat(record("word-flash", true, 1, 10000), 25), reg)
	if p.Confidence != ConfidenceMedium {
		t.Errorf("25 attempts: Confidence = %s, want medium", p.Confidence)
	}

	// 40+ attempts with a wide gap between top styles: high.
	var history []practice.AttemptRecord
	history = append(history, repeat(record("word-flash", true, 1, 10000), 40)...)
	history = append(history, repeat(record("echo-spell", false, 2, 40000), 10)...)
	p = Detect(history, reg)
	if p.Confidence != ConfidenceHigh {
		t.Errorf("50 attempts with gap: Confidence = %s, want high", p.Confidence)
	}
}

func TestDetect_UnknownMechanicIgnored(t *testing.T) {
	reg := practice.DefaultRegistry()
	history := repeat(record("mystery-game", true, 1, 10000), 30)

	p := Detect(history, reg)
	if p.SampleSize != 0 {
		t.Errorf("SampleSize = %d, want 0 (unknown mechanics skipped)", p.SampleSize)
	}
	if p.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %s, want low", p.Confidence)
	}
}

func TestSelectNextGame_ExcludesRecent(t *testing.T) {
	reg := practice.DefaultRegistry()
	profile := defaultProfile(0)
	available := []string{"word-flash", "echo-spell", "letter-tiles"}
	recent := []string{"word-flash", "echo-spell"}
	rng := rand.New(rand.NewPCG(7, 7))

	for i := 0; i < 20; i++ {
		got := SelectNextGame(profile, available, recent, reg, rng)
		if got == "word-flash" || got == "echo-spell" {
			t.Fatalf("picked recently played mechanic %s", got)
		}
	}
}

func TestSelectNextGame_FallsBackWhenExclusionEmptiesPool(t *testing.T) {
	reg := practice.DefaultRegistry()
	profile := defaultProfile(0)
	available := []string{"word-flash"}
	recent := []string{"word-flash"}
	rng := rand.New(rand.NewPCG(7, 7))

	if got := SelectNextGame(profile, available, recent, reg, rng); got != "word-flash" {
		t.Errorf("got %s, want word-flash (only option)", got)
	}
}

func TestSelectNextGame_Empty(t *testing.T) {
	reg := practice.DefaultRegistry()
	rng := rand.New(rand.NewPCG(7, 7))
	if got := SelectNextGame(defaultProfile(0), nil, nil, reg, rng); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestSelectNextGame_BiasTowardPrimaryStyle(t *testing.T) {
	reg := practice.DefaultRegistry()
	profile := Profile{VisualPct: 80, AuditoryPct: 10, KinestheticPct: 10, Primary: practice.StyleVisual}
	available := []string{"word-flash", "echo-spell", "letter-tiles"}
	rng := rand.New(rand.NewPCG(3, 9))

	visual := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		if SelectNextGame(profile, available, nil, reg, rng) == "word-flash" {
			visual++
		}
	}
	if visual < trials/2 {
		t.Errorf("visual mechanic picked %d/%d times, expected a strong majority", visual, trials)
	}
}
