// Package learnstyle classifies a learner's sensory preference from
// per-mechanic performance and picks mechanics that play to it.
package learnstyle

import (
	"math"

	"spellquest/internal/practice"
)

// Confidence grades how much signal backs a profile.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// MinSampleSize is the attempt count below which the balanced default
// profile is returned.
const MinSampleSize = 12

// Profile is a learning-style snapshot derived from the full attempt
// history. Percentages sum to roughly 100.
type Profile struct {
	VisualPct      int
	AuditoryPct    int
	KinestheticPct int
	Primary        practice.Style
	Secondary      practice.Style // "" when no clear runner-up
	Confidence     Confidence
	SampleSize     int
}

// defaultProfile is returned when there is not enough history to classify.
func defaultProfile(sampleSize int) Profile {
	return Profile{
		VisualPct:      33,
		AuditoryPct:    33,
		KinestheticPct: 34,
		Primary:        practice.StyleVisual,
		Confidence:     ConfidenceLow,
		SampleSize:     sampleSize,
	}
}

// styleStats accumulates raw per-style performance.
type styleStats struct {
	attempts int
	correct  int
	tries    int
	timeMs   int
}

// Detect aggregates the attempt history by mechanic style and returns the
// learner's profile. The registry supplies the mechanic-to-style mapping;
// attempts with unknown mechanics are ignored.
func Detect(history []practice.AttemptRecord, registry *practice.Registry) Profile {
	stats := map[practice.Style]*styleStats{
		practice.StyleVisual:      {},
		practice.StyleAuditory:    {},
		practice.StyleKinesthetic: {},
	}

	sampleSize := 0
	for _, a := range history {
		style := registry.StyleOf(a.MechanicID)
		st, ok := stats[style]
		if !ok {
			continue
		}
		sampleSize++
		st.attempts++
		if a.Correct {
			st.correct++
		}
		st.tries += a.Attempts
		st.timeMs += a.DurationMs
	}

	if sampleSize < MinSampleSize {
		return defaultProfile(sampleSize)
	}

	scores := map[practice.Style]float64{}
	for style, st := range stats {
		scores[style] = compositeScore(st)
	}

	total := scores[practice.StyleVisual] + scores[practice.StyleAuditory] + scores[practice.StyleKinesthetic]
	p := Profile{SampleSize: sampleSize}
	if total == 0 {
		p.VisualPct, p.AuditoryPct, p.KinestheticPct = 33, 33, 33
	} else {
		p.VisualPct = int(math.Round(scores[practice.StyleVisual] / total * 100))
		p.AuditoryPct = int(math.Round(scores[practice.StyleAuditory] / total * 100))
		p.KinestheticPct = int(math.Round(scores[practice.StyleKinesthetic] / total * 100))
	}

	ranked := rankStyles(scores)
	p.Primary = ranked[0].style
	// Runner-up only counts when it clearly beats third place.
	if ranked[1].score > ranked[2].score*1.2 {
		p.Secondary = ranked[1].style
	}

	gap := ranked[0].score - ranked[1].score
	switch {
	case sampleSize < 20:
		p.Confidence = ConfidenceLow
	case sampleSize < 40 || gap < 10:
		p.Confidence = ConfidenceMedium
	default:
		p.Confidence = ConfidenceHigh
	}

	return p
}

// compositeScore blends success rate, attempt efficiency, and speed.
// Styles with no attempts score 0.
func compositeScore(st *styleStats) float64 {
	if st.attempts == 0 {
		return 0
	}

	successRate := float64(st.correct) / float64(st.attempts) * 100
	avgAttempts := float64(st.tries) / float64(st.attempts)
	avgTimeMs := float64(st.timeMs) / float64(st.attempts)

	attemptScore := math.Max(0, 100-(avgAttempts-1)*20)
	timeScore := math.Max(0, 100-((avgTimeMs-30000)/1000)*2)

	return successRate*0.5 + attemptScore*0.3 + timeScore*0.2
}

type rankedStyle struct {
	style practice.Style
	score float64
}

// rankStyles orders the three styles by score descending, with a stable
// visual > auditory > kinesthetic tiebreak.
func rankStyles(scores map[practice.Style]float64) [3]rankedStyle {
	order := []practice.Style{practice.StyleVisual, practice.StyleAuditory, practice.StyleKinesthetic}
	var ranked [3]rankedStyle
	for i, s := range order {
		ranked[i] = rankedStyle{style: s, score: scores[s]}
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if ranked[j].score > ranked[i].score {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}
	return ranked
}
