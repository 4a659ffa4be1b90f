package practice

import (
	"sort"
	"time"
)

// AttemptRecord captures one completed mini-game round for a word.
// Records are append-only and never mutated; every derived score in the
// engine is recomputable from the attempt log alone.
type AttemptRecord struct {
	Word        string    `json:"word"`
	Correct     bool      `json:"correct"`
	Attempts    int       `json:"attempts"` // tries needed this round, >= 1
	DurationMs  int       `json:"duration_ms"`
	HintsUsed   int       `json:"hints_used"`
	MechanicID  string    `json:"mechanic_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// Clean reports whether the attempt was a first-try correct answer.
func (a AttemptRecord) Clean() bool {
	return a.Correct && a.Attempts == 1
}

// SortByCompletedAt orders attempts oldest first, in place.
func SortByCompletedAt(attempts []AttemptRecord) {
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].CompletedAt.Before(attempts[j].CompletedAt)
	})
}
