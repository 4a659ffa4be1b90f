// Package difficulty maps recent per-word performance to a presentation
// difficulty tier.
package difficulty

import (
	"regexp"
	"strings"

	"spellquest/internal/practice"
)

// Tier is a presentation difficulty level.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// windowStats summarizes the recent attempt window for one word.
type windowStats struct {
	successRate          float64 // fraction of clean (correct, single-try) attempts
	consecutiveSuccesses bool    // last 3 attempts all clean
	consecutiveFailures  bool    // last 3 attempts all unclean
	avgAttempts          float64
	avgHints             float64
}

func summarize(recent []practice.AttemptRecord) windowStats {
	var s windowStats
	if len(recent) == 0 {
		return s
	}

	clean := 0
	totalAttempts := 0
	totalHints := 0
	for _, a := range recent {
		if a.Clean() {
			clean++
		}
		totalAttempts += a.Attempts
		totalHints += a.HintsUsed
	}
	s.successRate = float64(clean) / float64(len(recent))
	s.avgAttempts = float64(totalAttempts) / float64(len(recent))
	s.avgHints = float64(totalHints) / float64(len(recent))

	if len(recent) >= 3 {
		last3 := recent[len(recent)-3:]
		allClean, allUnclean := true, true
		for _, a := range last3 {
			if a.Clean() {
				allUnclean = false
			} else {
				allClean = false
			}
		}
		s.consecutiveSuccesses = allClean
		s.consecutiveFailures = allUnclean
	}

	return s
}

// Next decides the tier to present next, from the current tier and the
// recent attempt window for the word (oldest first, most recent last,
// typically the last 3-5 attempts). Promotion requires sustained clean
// performance; demotion triggers on any strong struggle signal.
func Next(current Tier, recent []practice.AttemptRecord) Tier {
	if len(recent) == 0 {
		return current
	}
	s := summarize(recent)

	switch current {
	case TierEasy:
		if s.successRate >= 0.8 && s.consecutiveSuccesses {
			return TierMedium
		}
		return TierEasy

	case TierMedium:
		if s.consecutiveFailures || s.successRate < 0.5 || s.avgAttempts > 2 || s.avgHints > 1 {
			return TierEasy
		}
		if s.consecutiveSuccesses && s.successRate >= 0.85 && s.avgHints == 0 {
			return TierHard
		}
		return TierMedium

	case TierHard:
		if s.successRate < 0.6 || s.avgAttempts > 1.5 || s.avgHints > 0.5 {
			return TierMedium
		}
		return TierHard
	}

	return current
}

// trickyPatterns flags letter sequences that commonly trip young spellers.
var trickyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ei|ie|ou|au|eu`),   // vowel digraphs
	regexp.MustCompile(`ght|kn|wr|mb$|gn`), // silent letter clusters
	regexp.MustCompile(`oo|ee|aa`),         // double vowels
}

// Initial assigns a starting tier from the word itself. Easy is reserved
// for the shortest words; everything else starts at medium.
func Initial(word string) Tier {
	w := strings.ToLower(strings.TrimSpace(word))
	if len(w) <= 3 {
		return TierEasy
	}
	if len(w) >= 8 {
		return TierMedium
	}
	for _, p := range trickyPatterns {
		if p.MatchString(w) {
			return TierMedium
		}
	}
	return TierMedium
}
