package learnstyle

import (
	"math/rand/v2"

	"spellquest/internal/practice"
)

// weightUnits is the total number of weighted slots split across styles
// when building the candidate pool.
const weightUnits = 10

// recentExclusion is how many recently played mechanics are excluded from
// the pool when alternatives remain.
const recentExclusion = 2

// SelectNextGame picks the next mechanic to play, biased toward the
// learner's profile. Each style's mechanics are repeated in the candidate
// pool proportionally to that style's percentage; the last two mechanics
// played are excluded unless doing so would empty the pool.
func SelectNextGame(profile Profile, available []string, recent []string, registry *practice.Registry, rng *rand.Rand) string {
	if len(available) == 0 {
		return ""
	}

	byStyle := map[practice.Style][]string{}
	for _, id := range available {
		style := registry.StyleOf(id)
		if style == "" {
			continue
		}
		byStyle[style] = append(byStyle[style], id)
	}

	var pool []string
	addWeighted := func(style practice.Style, pct int) {
		ids := byStyle[style]
		if len(ids) == 0 {
			return
		}
		repeats := pct * weightUnits / 100
		if repeats < 1 {
			repeats = 1
		}
		for i := 0; i < repeats; i++ {
			pool = append(pool, ids...)
		}
	}
	addWeighted(practice.StyleVisual, profile.VisualPct)
	addWeighted(practice.StyleAuditory, profile.AuditoryPct)
	addWeighted(practice.StyleKinesthetic, profile.KinestheticPct)

	if len(pool) == 0 {
		return available[0]
	}

	filtered := excludeRecent(pool, recent)
	if len(filtered) > 0 {
		return filtered[rng.IntN(len(filtered))]
	}
	return pool[rng.IntN(len(pool))]
}

// excludeRecent removes the last two played mechanics from the pool.
func excludeRecent(pool []string, recent []string) []string {
	if len(recent) == 0 {
		return pool
	}
	exclude := map[string]bool{}
	start := len(recent) - recentExclusion
	if start < 0 {
		start = 0
	}
	for _, id := range recent[start:] {
		exclude[id] = true
	}

	var out []string
	for _, id := range pool {
		if !exclude[id] {
			out = append(out, id)
		}
	}
	return out
}
