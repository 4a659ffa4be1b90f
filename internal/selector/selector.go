// Package selector chooses the next word inside a single session from
// session-local performance, independent of historical scores.
package selector

// RoundResult is one completed round for a word within the session.
type RoundResult struct {
	Attempts  int // tries needed, >= 1
	HintsUsed int
}

// Performance accumulates a word's results within one session.
type Performance struct {
	Rounds []RoundResult
}

// Record appends a round result.
func (p *Performance) Record(attempts, hints int) {
	p.Rounds = append(p.Rounds, RoundResult{Attempts: attempts, HintsUsed: hints})
}

// PracticeCount is the number of rounds played for the word.
func (p *Performance) PracticeCount() int {
	if p == nil {
		return 0
	}
	return len(p.Rounds)
}

func (p *Performance) avgAttempts() float64 {
	total := 0
	for _, r := range p.Rounds {
		total += r.Attempts
	}
	return float64(total) / float64(len(p.Rounds))
}

func (p *Performance) avgHints() float64 {
	total := 0
	for _, r := range p.Rounds {
		total += r.HintsUsed
	}
	return float64(total) / float64(len(p.Rounds))
}

func (p *Performance) lastNeededRetry() bool {
	return p.Rounds[len(p.Rounds)-1].Attempts > 1
}

// SelectNextWord picks the word most in need of practice. Unpracticed
// words always come first; once every word has at least one round, the
// word with the lowest priority score wins. An immediate repeat of
// currentWord is avoided whenever an alternative exists.
func SelectNextWord(pool []string, performance map[string]*Performance, currentWord string) string {
	if len(pool) == 0 {
		return ""
	}

	// Phase 1: any word not yet attempted this session.
	var unpracticed []string
	for _, w := range pool {
		if performance[w].PracticeCount() == 0 {
			unpracticed = append(unpracticed, w)
		}
	}
	if len(unpracticed) > 0 {
		for _, w := range unpracticed {
			if w != currentWord {
				return w
			}
		}
		return unpracticed[0]
	}

	// Phase 2: lowest priority score is most in need.
	best, second := "", ""
	bestScore, secondScore := 0.0, 0.0
	for _, w := range pool {
		score := priorityScore(performance[w])
		if best == "" || score < bestScore {
			second, secondScore = best, bestScore
			best, bestScore = w, score
		} else if second == "" || score < secondScore {
			second, secondScore = w, score
		}
	}

	if best == currentWord && second != "" {
		return second
	}
	return best
}

// priorityScore rates how well a word is going this session; lower means
// more in need of practice. Extra tries, hints, a fumbled last round, and
// repeated drilling all pull the score down.
func priorityScore(p *Performance) float64 {
	score := 100.0
	score -= (p.avgAttempts() - 1) * 20
	score -= p.avgHints() * 15
	if p.lastNeededRetry() {
		score -= 20
	}
	score -= float64(p.PracticeCount()) * 5
	if score < 0 {
		score = 0
	}
	return score
}
