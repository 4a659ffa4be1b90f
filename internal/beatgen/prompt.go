package beatgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a children's storyteller building an interactive spelling adventure for learners aged 6-10.

Rules:
- Produce an ordered sequence of story beats forming one coherent adventure around the given theme.
- Beat kinds: "narrative" (a short paragraph of story), "game" (a spelling challenge on one target word), "choice" (a branching question with exactly 2 options), "checkpoint" (a milestone celebration).
- Every word in the word list must appear in at least one game beat. Game words must be copied verbatim from the list.
- Each game beat's mechanic must be one of the available mechanic ids.
- Insert a checkpoint beat after roughly every 5 game beats, numbered 1, 2, 3 in order. Never use a checkpoint number twice.
- Sprinkle 2-3 choice beats through the story. Choices steer flavor, not difficulty; both options continue the same adventure.
- Keep narrative text to 2-3 short sentences, plain language, no scary content.
- Weave each game beat into the story: its text should explain why spelling this word matters right now.`

// buildUserMessage constructs the user message for one session.
func buildUserMessage(input GenerateInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Theme: %s\n", input.Theme)
	fmt.Fprintf(&b, "Word list: %s\n", strings.Join(input.Words, ", "))
	fmt.Fprintf(&b, "Available mechanics: %s\n", strings.Join(input.Mechanics, ", "))
	fmt.Fprintf(&b, "Target length: about %d beats\n", targetBeatCount(len(input.Words)))

	if input.LearnerNotes != "" {
		b.WriteString("\nLearner notes:\n")
		b.WriteString(input.LearnerNotes)
	}

	return b.String()
}

// targetBeatCount sizes the story: one game per word plus narrative
// connective tissue, choices, and checkpoints.
func targetBeatCount(wordCount int) int {
	return wordCount*2 + 5
}
