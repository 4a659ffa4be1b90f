package beatgen

import (
	"context"
	"fmt"

	"spellquest/internal/story"
)

// gamesPerCheckpoint controls checkpoint placement in fallback stories.
const gamesPerCheckpoint = 5

// FallbackGenerator builds a deterministic beat sequence from templates.
// It is used when no LLM provider is configured or the provider fails,
// so a session can always start.
type FallbackGenerator struct{}

// NewFallback returns a FallbackGenerator.
func NewFallback() *FallbackGenerator {
	return &FallbackGenerator{}
}

// GenerateBeats interleaves narrative and game beats over the word list,
// cycling through the available mechanics, with a checkpoint after every
// fifth game up to checkpoint 3.
func (f *FallbackGenerator) GenerateBeats(_ context.Context, input GenerateInput) ([]story.Beat, error) {
	if len(input.Words) == 0 {
		return nil, fmt.Errorf("no words to build a story from")
	}
	mechanics := input.Mechanics
	if len(mechanics) == 0 {
		mechanics = []string{"word-flash"}
	}

	theme := input.Theme
	if theme == "" {
		theme = "adventure"
	}

	var beats []story.Beat
	add := func(b story.Beat) {
		b.ID = fmt.Sprintf("beat-%d", len(beats)+1)
		beats = append(beats, b)
	}

	add(story.Beat{
		Kind: story.BeatNarrative,
		Text: fmt.Sprintf("Your %s begins! A trail of words lies ahead, and each one you spell takes you further.", theme),
	})

	games := 0
	checkpoint := 0
	for i, w := range input.Words {
		if i > 0 && i%3 == 0 {
			add(story.Beat{
				Kind: story.BeatNarrative,
				Text: "The path turns. Something new waits around the corner.",
			})
		}

		add(story.Beat{
			Kind:       story.BeatGame,
			Text:       fmt.Sprintf("A gate blocks the way. Spell the magic word to open it: %s!", w),
			Word:       w,
			MechanicID: mechanics[i%len(mechanics)],
		})
		games++

		if games%gamesPerCheckpoint == 0 && checkpoint < 3 {
			checkpoint++
			add(story.Beat{
				Kind:        story.BeatCheckpoint,
				Checkpoint:  checkpoint,
				Title:       fmt.Sprintf("Milestone %d", checkpoint),
				Celebration: "You made it this far. The journey continues!",
			})
		}
	}

	add(story.Beat{
		Kind: story.BeatNarrative,
		Text: "The last gate swings open. The end of the trail is in sight!",
	})

	if err := story.ValidateSequence(beats, input.Words); err != nil {
		return nil, fmt.Errorf("fallback story is invalid: %w", err)
	}
	return beats, nil
}
