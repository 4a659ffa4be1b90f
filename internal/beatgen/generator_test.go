package beatgen

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"spellquest/internal/llm"
	"spellquest/internal/story"
)

func testInput() GenerateInput {
	return GenerateInput{
		Theme:     "ocean",
		Words:     []string{"ship", "wave"},
		Mechanics: []string{"word-flash", "echo-spell"},
	}
}

func validStoryJSON() json.RawMessage {
	return json.RawMessage(`{"beats":[
		{"kind":"narrative","text":"The ship leaves the harbor."},
		{"kind":"game","text":"Spell it to raise the sail!","word":"ship","mechanic":"word-flash"},
		{"kind":"choice","text":"","question":"Which way?","options":["North","South"]},
		{"kind":"game","text":"A wave looms! Spell it!","word":"wave","mechanic":"echo-spell"},
		{"kind":"narrative","text":"Calm water at last."}
	]}`)
}

func TestLLMGenerator_ValidStory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validStoryJSON()})
	g := New(mock, DefaultConfig())

	beats, err := g.GenerateBeats(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(beats) != 5 {
		t.Fatalf("beats = %d, want 5", len(beats))
	}
	if beats[1].Kind != story.BeatGame || beats[1].Word != "ship" {
		t.Errorf("beat 1 = %+v", beats[1])
	}
	if beats[2].Kind != story.BeatChoice || len(beats[2].Options) != 2 {
		t.Errorf("beat 2 = %+v", beats[2])
	}
	for i, b := range beats {
		if b.ID == "" {
			t.Errorf("beat %d has no id", i)
		}
	}
}

func TestLLMGenerator_ChoiceTextMayBeEmpty(t *testing.T) {
	// A choice beat carries its content in question/options; text is
	// allowed to be blank there but schema requires the field present.
	mock := llm.NewMockProvider(llm.MockResponse{Content: validStoryJSON()})
	g := New(mock, DefaultConfig())

	beats, err := g.GenerateBeats(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if beats[2].Question != "Which way?" {
		t.Errorf("question = %q", beats[2].Question)
	}
}

func TestLLMGenerator_RejectsWordOutsideList(t *testing.T) {
	content := json.RawMessage(`{"beats":[
		{"kind":"game","text":"Spell it!","word":"zebra","mechanic":"word-flash"},
		{"kind":"game","text":"Spell it!","word":"ship","mechanic":"word-flash"},
		{"kind":"game","text":"Spell it!","word":"wave","mechanic":"word-flash"}
	]}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	g := New(mock, DefaultConfig())

	if _, err := g.GenerateBeats(context.Background(), testInput()); err == nil {
		t.Fatal("expected error for off-list word")
	}
}

func TestLLMGenerator_RejectsUncoveredWord(t *testing.T) {
	content := json.RawMessage(`{"beats":[
		{"kind":"game","text":"Spell it!","word":"ship","mechanic":"word-flash"}
	]}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	g := New(mock, DefaultConfig())

	_, err := g.GenerateBeats(context.Background(), testInput())
	if err == nil {
		t.Fatal("expected error when a word has no game beat")
	}
}

func TestLLMGenerator_RejectsUnknownMechanic(t *testing.T) {
	content := json.RawMessage(`{"beats":[
		{"kind":"game","text":"Spell it!","word":"ship","mechanic":"mind-reading"},
		{"kind":"game","text":"Spell it!","word":"wave","mechanic":"word-flash"}
	]}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	g := New(mock, DefaultConfig())

	if _, err := g.GenerateBeats(context.Background(), testInput()); err == nil {
		t.Fatal("expected error for unknown mechanic")
	}
}

func TestLLMGenerator_RejectsCheckpointOutOfOrder(t *testing.T) {
	content := json.RawMessage(`{"beats":[
		{"kind":"game","text":"Spell it!","word":"ship","mechanic":"word-flash"},
		{"kind":"checkpoint","text":"","checkpoint":2,"title":"Milestone"},
		{"kind":"game","text":"Spell it!","word":"wave","mechanic":"word-flash"}
	]}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	g := New(mock, DefaultConfig())

	if _, err := g.GenerateBeats(context.Background(), testInput()); err == nil {
		t.Fatal("expected error for checkpoint starting at 2")
	}
}

func TestLLMGenerator_ProviderErrorPropagates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	g := New(mock, DefaultConfig())

	if _, err := g.GenerateBeats(context.Background(), testInput()); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}

func TestFallback_CoversEveryWord(t *testing.T) {
	input := GenerateInput{
		Theme:     "forest",
		Words:     []string{"tree", "leaf", "branch", "stream", "meadow", "feather", "shadow"},
		Mechanics: []string{"word-flash", "echo-spell", "letter-tiles"},
	}
	beats, err := NewFallback().GenerateBeats(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	covered := make(map[string]bool)
	games := 0
	for _, b := range beats {
		if b.Kind == story.BeatGame {
			covered[b.Word] = true
			games++
		}
	}
	if games != len(input.Words) {
		t.Errorf("game beats = %d, want %d", games, len(input.Words))
	}
	for _, w := range input.Words {
		if !covered[w] {
			t.Errorf("word %q has no game beat", w)
		}
	}
}

func TestFallback_CheckpointAfterEveryFifthGame(t *testing.T) {
	input := GenerateInput{
		Theme:     "space",
		Words:     []string{"star", "moon", "comet", "orbit", "rocket", "planet", "galaxy", "meteor", "eclipse", "gravity", "nebula", "cosmos"},
		Mechanics: []string{"word-flash"},
	}
	beats, err := NewFallback().GenerateBeats(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	games := 0
	var checkpoints []int
	for _, b := range beats {
		switch b.Kind {
		case story.BeatGame:
			games++
		case story.BeatCheckpoint:
			checkpoints = append(checkpoints, b.Checkpoint)
			if games%gamesPerCheckpoint != 0 {
				t.Errorf("checkpoint %d after %d games", b.Checkpoint, games)
			}
		}
	}
	want := []int{1, 2}
	if len(checkpoints) != len(want) {
		t.Fatalf("checkpoints = %v, want %v", checkpoints, want)
	}
	for i := range want {
		if checkpoints[i] != want[i] {
			t.Errorf("checkpoints = %v, want %v", checkpoints, want)
		}
	}
}

func TestFallback_SequenceFeedsMachine(t *testing.T) {
	input := testInput()
	beats, err := NewFallback().GenerateBeats(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := story.ValidateSequence(beats, input.Words); err != nil {
		t.Fatalf("fallback sequence invalid: %v", err)
	}
}

func TestFallback_EmptyWordsRejected(t *testing.T) {
	if _, err := NewFallback().GenerateBeats(context.Background(), GenerateInput{Theme: "x"}); err == nil {
		t.Fatal("expected error for empty word list")
	}
}
