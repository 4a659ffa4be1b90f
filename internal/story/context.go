package story

import (
	"time"

	"spellquest/internal/practice"
)

// initialRunningConfidence is the neutral starting score every session
// word gets before any round is played.
const initialRunningConfidence = 50

// WordStats is the running per-word state inside one session. It uses an
// incremental scoring rule, not the batch confidence scorer, so feedback
// shifts immediately after each round.
type WordStats struct {
	Confidence int `json:"confidence"`
	Rounds     int `json:"rounds"`
	Errors     int `json:"errors"`
	Hints      int `json:"hints"`
	Streak     int `json:"streak"`
	TimeMs     int `json:"timeMs"`
}

// ChoiceRecord logs one branching decision the learner made.
type ChoiceRecord struct {
	BeatID   string    `json:"beatId"`
	OptionID string    `json:"optionId"`
	MadeAt   time.Time `json:"madeAt"`
}

// SessionContext is the mutable bag for one active session. The machine
// never mutates it in place during dispatch; it works on a clone and
// swaps the clone in once the event has been applied.
type SessionContext struct {
	SessionID string
	ListID    string
	Theme     string
	Words     []string

	Beats []Beat
	Index int

	Stats    map[string]*WordStats
	Choices  []ChoiceRecord
	Attempts []practice.AttemptRecord

	// checkpointEnteredAt gates CONTINUE_STORY. Zero outside checkpoints.
	checkpointEnteredAt time.Time
}

func newSessionContext(id, listID, theme string, words []string, beats []Beat) *SessionContext {
	sc := &SessionContext{
		SessionID: id,
		ListID:    listID,
		Theme:     theme,
		Words:     words,
		Beats:     beats,
		Stats:     make(map[string]*WordStats, len(words)),
	}
	for _, w := range words {
		sc.Stats[w] = &WordStats{Confidence: initialRunningConfidence}
	}
	return sc
}

// clone deep-copies everything the machine mutates during dispatch.
// Beats and Words are immutable and shared.
func (sc *SessionContext) clone() *SessionContext {
	out := *sc
	out.Stats = make(map[string]*WordStats, len(sc.Stats))
	for w, st := range sc.Stats {
		cp := *st
		out.Stats[w] = &cp
	}
	out.Choices = append([]ChoiceRecord(nil), sc.Choices...)
	out.Attempts = append([]practice.AttemptRecord(nil), sc.Attempts...)
	return &out
}

// CurrentBeat returns the beat at the current index, or nil when the
// index has run past the end of the sequence.
func (sc *SessionContext) CurrentBeat() *Beat {
	if sc.Index < 0 || sc.Index >= len(sc.Beats) {
		return nil
	}
	return &sc.Beats[sc.Index]
}

// allWordsMastered reports whether every tracked word's running
// confidence has reached the mastery threshold.
func (sc *SessionContext) allWordsMastered() bool {
	if len(sc.Stats) == 0 {
		return false
	}
	for _, st := range sc.Stats {
		if st.Confidence < 80 {
			return false
		}
	}
	return true
}
