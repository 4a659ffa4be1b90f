package difficulty

import (
	"testing"

	"spellquest/internal/practice"
)

func clean() practice.AttemptRecord {
	return practice.AttemptRecord{Correct: true, Attempts: 1}
}

func miss() practice.AttemptRecord {
	return practice.AttemptRecord{Correct: false, Attempts: 2, HintsUsed: 1}
}

func TestNext_EasyPromotion(t *testing.T) {
	tests := []struct {
		name   string
		recent []practice.AttemptRecord
		want   Tier
	}{
		{"five clean", []practice.AttemptRecord{clean(), clean(), clean(), clean(), clean()}, TierMedium},
		{"high rate but recent miss", []practice.AttemptRecord{clean(), clean(), clean(), clean(), miss()}, TierEasy},
		{"too few clean", []practice.AttemptRecord{miss(), miss(), clean(), clean(), clean()}, TierEasy},
		{"empty window stays", nil, TierEasy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Next(TierEasy, tt.recent); got != tt.want {
				t.Errorf("Next(easy) = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNext_MediumTransitions(t *testing.T) {
	hinted := practice.AttemptRecord{Correct: true, Attempts: 1, HintsUsed: 2}
	multi := practice.AttemptRecord{Correct: true, Attempts: 3}

	tests := []struct {
		name   string
		recent []practice.AttemptRecord
		want   Tier
	}{
		{"consecutive failures demote", []practice.AttemptRecord{clean(), miss(), miss(), miss()}, TierEasy},
		{"low success rate demotes", []practice.AttemptRecord{miss(), clean(), miss(), clean(), miss()}, TierEasy},
		{"heavy hint use demotes", []practice.AttemptRecord{hinted, hinted, hinted}, TierEasy},
		{"many tries demote", []practice.AttemptRecord{multi, multi, multi}, TierEasy},
		{"clean streak promotes", []practice.AttemptRecord{clean(), clean(), clean(), clean()}, TierHard},
		{"mixed stays", []practice.AttemptRecord{miss(), clean(), clean(), clean()}, TierMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Next(TierMedium, tt.recent); got != tt.want {
				t.Errorf("Next(medium) = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNext_MediumMixedStaysNotPromotes(t *testing.T) {
	// 3 of 4 clean: not enough struggle to demote, too low a rate to promote.
	recent := []practice.AttemptRecord{
		{Correct: true, Attempts: 2},
		clean(), clean(), clean(),
	}
	if got := Next(TierMedium, recent); got != TierMedium {
		t.Errorf("Next(medium) = %s, want medium", got)
	}
}

func TestNext_HardTransitions(t *testing.T) {
	hinted := practice.AttemptRecord{Correct: true, Attempts: 1, HintsUsed: 1}

	tests := []struct {
		name   string
		recent []practice.AttemptRecord
		want   Tier
	}{
		{"sustained clean stays", []practice.AttemptRecord{clean(), clean(), clean(), clean()}, TierHard},
		{"low success demotes", []practice.AttemptRecord{miss(), miss(), clean(), clean()}, TierMedium},
		{"hint use demotes", []practice.AttemptRecord{hinted, hinted, clean()}, TierMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Next(TierHard, tt.recent); got != tt.want {
				t.Errorf("Next(hard) = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInitial(t *testing.T) {
	tests := []struct {
		word string
		want Tier
	}{
		{"cat", TierEasy},
		{"at", TierEasy},
		{"beautiful", TierMedium},
		{"friend", TierMedium}, // ie digraph
		{"knife", TierMedium},  // silent k
		{"moon", TierMedium},   // double vowel
		{"plant", TierMedium},
		{"Dog", TierEasy},
	}
	for _, tt := range tests {
		if got := Initial(tt.word); got != tt.want {
			t.Errorf("Initial(%q) = %s, want %s", tt.word, got, tt.want)
		}
	}
}
