// Package story implements the narrative session machine: a beat
// sequencer that routes per-beat sub-states, tracks per-word running
// stats, and drives a checkpoint tracker child.
package story

import (
	"fmt"
	"strings"
)

// BeatKind discriminates the beat union.
type BeatKind string

const (
	BeatNarrative  BeatKind = "narrative"
	BeatGame       BeatKind = "game"
	BeatChoice     BeatKind = "choice"
	BeatCheckpoint BeatKind = "checkpoint"
)

// ChoiceOption is one branch of a choice beat.
type ChoiceOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Beat is one atomic unit of a narrative session. Beats are supplied by
// the content generator before the session starts and are never mutated.
// Which fields are meaningful depends on Kind:
//
//   - narrative: Text
//   - game: Word, MechanicID, Text (prompt framing)
//   - choice: Question, Options (exactly two)
//   - checkpoint: Checkpoint (1..3), Title, Celebration
type Beat struct {
	ID          string         `json:"id"`
	Kind        BeatKind       `json:"kind"`
	Text        string         `json:"text,omitempty"`
	Word        string         `json:"word,omitempty"`
	MechanicID  string         `json:"mechanicId,omitempty"`
	Question    string         `json:"question,omitempty"`
	Options     []ChoiceOption `json:"options,omitempty"`
	Checkpoint  int            `json:"checkpoint,omitempty"`
	Title       string         `json:"title,omitempty"`
	Celebration string         `json:"celebration,omitempty"`
}

// Validate checks the structural rules for a single beat.
func (b Beat) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("beat has no id")
	}
	switch b.Kind {
	case BeatNarrative:
		if strings.TrimSpace(b.Text) == "" {
			return fmt.Errorf("narrative beat %s has no text", b.ID)
		}
	case BeatGame:
		if b.Word == "" {
			return fmt.Errorf("game beat %s has no target word", b.ID)
		}
		if b.MechanicID == "" {
			return fmt.Errorf("game beat %s has no mechanic", b.ID)
		}
	case BeatChoice:
		if strings.TrimSpace(b.Question) == "" {
			return fmt.Errorf("choice beat %s has no question", b.ID)
		}
		if len(b.Options) != 2 {
			return fmt.Errorf("choice beat %s has %d options, want 2", b.ID, len(b.Options))
		}
	case BeatCheckpoint:
		if b.Checkpoint < 1 || b.Checkpoint > 3 {
			return fmt.Errorf("checkpoint beat %s has number %d, want 1..3", b.ID, b.Checkpoint)
		}
	default:
		return fmt.Errorf("beat %s has unknown kind %q", b.ID, b.Kind)
	}
	return nil
}

// ValidateSequence checks a full beat sequence: it must be non-empty,
// every beat must be individually valid, and every game beat's target
// word must come from the session word list.
func ValidateSequence(beats []Beat, words []string) error {
	if len(beats) == 0 {
		return fmt.Errorf("beat sequence is empty")
	}
	allowed := make(map[string]bool, len(words))
	for _, w := range words {
		allowed[strings.ToLower(w)] = true
	}
	for i, b := range beats {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("beat %d: %w", i, err)
		}
		if b.Kind == BeatGame && len(allowed) > 0 && !allowed[strings.ToLower(b.Word)] {
			return fmt.Errorf("beat %d: game word %q is not in the session word list", i, b.Word)
		}
	}
	return nil
}
