// Package spacedrep schedules word reviews using a five-box Leitner system
// and selects word sets for upcoming sessions.
package spacedrep

import (
	"math/rand/v2"
	"sort"
	"time"

	"spellquest/internal/confidence"
)

// Scheduler manages review scheduling state for a set of words.
type Scheduler struct {
	reviews map[string]*ReviewState
}

// NewScheduler creates a scheduler from existing review states. Passing nil
// starts empty; words are initialized on first encounter.
func NewScheduler(states []*ReviewState) *Scheduler {
	s := &Scheduler{reviews: make(map[string]*ReviewState)}
	for _, rs := range states {
		if rs != nil && rs.Word != "" {
			s.reviews[rs.Word] = rs
		}
	}
	return s
}

// Initialize creates review state for a word first encountered at now.
// The word starts in box 1, due immediately.
func (s *Scheduler) Initialize(word string, now time.Time) *ReviewState {
	rs := &ReviewState{
		Word:                word,
		BoxLevel:            MinBox,
		ReviewCount:         0,
		LastReviewDate:      now,
		NextReviewDate:      now,
		CurrentIntervalDays: BoxIntervals[MinBox],
	}
	s.reviews[word] = rs
	return rs
}

// Get returns the review state for a word, or nil if not tracked.
func (s *Scheduler) Get(word string) *ReviewState {
	return s.reviews[word]
}

// All returns every tracked review state.
func (s *Scheduler) All() []*ReviewState {
	out := make([]*ReviewState, 0, len(s.reviews))
	for _, rs := range s.reviews {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// Update moves a word between boxes after practice, based on its freshly
// computed confidence. Mastered promotes, needs-work drops back to box 1,
// and progressing promotes only on a strong score. The new interval always
// comes from the box lookup.
func (s *Scheduler) Update(word string, conf confidence.WordConfidence, now time.Time) *ReviewState {
	rs := s.reviews[word]
	if rs == nil {
		rs = s.Initialize(word, now)
	}

	switch conf.Level {
	case confidence.LevelMastered:
		rs.BoxLevel = clampBox(rs.BoxLevel + 1)
	case confidence.LevelNeedsWork:
		rs.BoxLevel = MinBox
	case confidence.LevelProgressing:
		if conf.Score > 70 && rs.BoxLevel < MaxBox {
			rs.BoxLevel++
		}
	}

	rs.ReviewCount++
	rs.LastReviewDate = now
	rs.CurrentIntervalDays = BoxIntervals[rs.BoxLevel]
	rs.NextReviewDate = now.AddDate(0, 0, rs.CurrentIntervalDays)
	return rs
}

// DueWord pairs a due word with its computed priority.
type DueWord struct {
	Word     string
	Priority float64
	State    *ReviewState
}

// DueWordsInPriorityOrder returns all due words, most urgent first.
// Priority rewards overdue days, low boxes, and needs-work confidence.
// A limit of 0 means no truncation.
func (s *Scheduler) DueWordsInPriorityOrder(confidences map[string]confidence.WordConfidence, now time.Time, limit int) []DueWord {
	var due []DueWord
	for word, rs := range s.reviews {
		if !rs.IsDue(now) {
			continue
		}
		priority := rs.OverdueDays(now)*10 + float64(6-rs.BoxLevel)*5
		if conf, ok := confidences[word]; ok && conf.Level == confidence.LevelNeedsWork {
			priority += 20
		}
		due = append(due, DueWord{Word: word, Priority: priority, State: rs})
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].Priority != due[j].Priority {
			return due[i].Priority > due[j].Priority
		}
		return due[i].Word < due[j].Word
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}

// needsWorkShare is the fraction of session slots reserved for
// needs-work words.
const needsWorkShare = 0.6

// maxRepeatsPerWord caps how often a needs-work word may repeat within
// one session.
const maxRepeatsPerWord = 2

// SelectSessionWords picks exactly sessionSize words for a session from
// the pool. Needs-work words get up to 60% of the slots (each repeated at
// most twice), due words fill next, and random pool words pad the rest.
// The result is shuffled so the ordering is not predictable.
func (s *Scheduler) SelectSessionWords(pool []string, confidences map[string]confidence.WordConfidence, sessionSize int, now time.Time, rng *rand.Rand) []string {
	if sessionSize <= 0 || len(pool) == 0 {
		return nil
	}

	var selected []string
	counts := make(map[string]int)

	add := func(word string) bool {
		if len(selected) >= sessionSize || counts[word] >= maxRepeatsPerWord {
			return false
		}
		selected = append(selected, word)
		counts[word]++
		return true
	}

	// Phase 1: reserve slots for needs-work words, repeating each up to
	// twice to drill them.
	reserved := int(float64(sessionSize) * needsWorkShare)
	var needsWork []string
	for _, w := range pool {
		if conf, ok := confidences[w]; ok && conf.Level == confidence.LevelNeedsWork {
			needsWork = append(needsWork, w)
		}
	}
	sort.Strings(needsWork)
	for rep := 0; rep < maxRepeatsPerWord && len(selected) < reserved; rep++ {
		for _, w := range needsWork {
			if len(selected) >= reserved {
				break
			}
			add(w)
		}
	}

	// Phase 2: fill with due words not already selected.
	for _, dw := range s.DueWordsInPriorityOrder(confidences, now, 0) {
		if len(selected) >= sessionSize {
			break
		}
		if counts[dw.Word] == 0 && inPool(pool, dw.Word) {
			add(dw.Word)
		}
	}

	// Phase 3: pad with random pool words.
	perm := rng.Perm(len(pool))
	for _, idx := range perm {
		if len(selected) >= sessionSize {
			break
		}
		add(pool[idx])
	}
	// Pool smaller than the session: allow repeats beyond the cap rather
	// than returning a short list.
	for len(selected) < sessionSize {
		selected = append(selected, pool[rng.IntN(len(pool))])
	}

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected
}

func inPool(pool []string, word string) bool {
	for _, w := range pool {
		if w == word {
			return true
		}
	}
	return false
}
