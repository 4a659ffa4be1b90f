// Package confidence derives a 0-100 mastery score per word from its
// recency-weighted attempt history.
package confidence

import (
	"math"
	"time"

	"spellquest/internal/practice"
)

// Level buckets a confidence score for display and scheduling decisions.
type Level string

const (
	LevelNeedsWork   Level = "needs-work"
	LevelProgressing Level = "progressing"
	LevelMastered    Level = "mastered"
)

// Level thresholds.
const (
	ProgressingThreshold = 60
	MasteredThreshold    = 80
)

// recencyDecay is the per-step weight decay: the most recent attempt gets
// weight 1, the one before it 0.7, then 0.49, and so on.
const recencyDecay = 0.7

// WordConfidence is the derived mastery estimate for a single word.
// It is recomputed on demand from the attempt log and never persisted.
type WordConfidence struct {
	Word          string
	Score         int // 0-100
	Level         Level
	TotalAttempts int
	LastPracticed time.Time
}

// LevelFor maps a score to its level bucket.
func LevelFor(score int) Level {
	switch {
	case score >= MasteredThreshold:
		return LevelMastered
	case score >= ProgressingThreshold:
		return LevelProgressing
	default:
		return LevelNeedsWork
	}
}

// Compute scores a word from its full attempt history. The history may be
// in any order; attempts are weighted by recency so recent performance
// dominates. An empty history scores 0 (needs-work).
func Compute(word string, history []practice.AttemptRecord) WordConfidence {
	if len(history) == 0 {
		return WordConfidence{Word: word, Score: 0, Level: LevelNeedsWork}
	}

	attempts := make([]practice.AttemptRecord, len(history))
	copy(attempts, history)
	practice.SortByCompletedAt(attempts)

	n := len(attempts)
	var weightedSum, weightTotal float64
	for i, a := range attempts {
		weight := math.Pow(recencyDecay, float64(n-i-1))
		weightedSum += attemptScore(a) * weight
		weightTotal += weight
	}

	score := int(math.Round(weightedSum / weightTotal))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return WordConfidence{
		Word:          word,
		Score:         score,
		Level:         LevelFor(score),
		TotalAttempts: n,
		LastPracticed: attempts[n-1].CompletedAt,
	}
}

// attemptScore rates a single attempt 0-100. Incorrect rounds score 0;
// correct rounds start at 100 and lose points for extra tries, hints, and
// slow completion.
func attemptScore(a practice.AttemptRecord) float64 {
	if !a.Correct {
		return 0
	}

	score := 100.0

	if a.Attempts > 1 {
		score -= math.Min(30, float64(a.Attempts-1)*10)
	}
	if a.HintsUsed > 0 {
		score -= math.Min(30, float64(a.HintsUsed)*10)
	}
	if secs := float64(a.DurationMs) / 1000.0; secs > 60 {
		score -= math.Min(10, (secs-60)/10)
	}

	if score < 0 {
		return 0
	}
	return score
}
