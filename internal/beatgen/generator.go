// Package beatgen produces the beat sequence a narrative session
// consumes: from an LLM provider when one is configured, or from a
// deterministic fallback otherwise. The session machine only ever sees
// a validated, non-empty sequence.
package beatgen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spellquest/internal/llm"
	"spellquest/internal/story"
)

// GenerateInput describes one session to build a story for.
type GenerateInput struct {
	Theme     string
	Words     []string
	Mechanics []string

	// LearnerNotes is optional free-text context, e.g. "struggles with
	// double vowels".
	LearnerNotes string
}

// Generator produces a validated beat sequence for a session.
type Generator interface {
	GenerateBeats(ctx context.Context, input GenerateInput) ([]story.Beat, error)
}

// Config tunes the LLM generator.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one generation call. The retry budget of the
	// underlying provider has to fit inside it.
	Timeout time.Duration
}

// DefaultConfig returns the standard generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4000,
		Temperature: 0.7,
		Timeout:     60 * time.Second,
	}
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates an LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// beatOutput is one raw beat from the LLM before validation.
type beatOutput struct {
	Kind        string   `json:"kind"`
	Text        string   `json:"text"`
	Word        string   `json:"word"`
	Mechanic    string   `json:"mechanic"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Checkpoint  int      `json:"checkpoint"`
	Title       string   `json:"title"`
	Celebration string   `json:"celebration"`
}

type beatsOutput struct {
	Beats []beatOutput `json:"beats"`
}

// GenerateBeats asks the provider for a story and validates the result.
func (g *LLMGenerator) GenerateBeats(ctx context.Context, input GenerateInput) ([]story.Beat, error) {
	ctx = llm.WithPurpose(ctx, "beat-generation")
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input)},
		},
		Schema:      BeatsSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw beatsOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w", err)
	}

	beats := make([]story.Beat, 0, len(raw.Beats))
	for i, b := range raw.Beats {
		beats = append(beats, story.Beat{
			ID:          fmt.Sprintf("beat-%d", i+1),
			Kind:        story.BeatKind(b.Kind),
			Text:        b.Text,
			Word:        b.Word,
			MechanicID:  b.Mechanic,
			Question:    b.Question,
			Options:     buildOptions(b.Options),
			Checkpoint:  b.Checkpoint,
			Title:       b.Title,
			Celebration: b.Celebration,
		})
	}

	if err := story.ValidateSequence(beats, input.Words); err != nil {
		return nil, fmt.Errorf("generated story is invalid: %w", err)
	}
	if err := validateCoverage(beats, input); err != nil {
		return nil, err
	}

	return beats, nil
}

func buildOptions(labels []string) []story.ChoiceOption {
	ids := []string{"a", "b"}
	out := make([]story.ChoiceOption, 0, len(labels))
	for i, label := range labels {
		id := fmt.Sprintf("opt-%d", i+1)
		if i < len(ids) {
			id = ids[i]
		}
		out = append(out, story.ChoiceOption{ID: id, Label: label})
	}
	return out
}

// validateCoverage enforces rules beyond structural validity: every
// session word gets at least one game beat, mechanics come from the
// available set, and checkpoint numbers appear in order without repeats.
func validateCoverage(beats []story.Beat, input GenerateInput) error {
	allowedMech := make(map[string]bool, len(input.Mechanics))
	for _, m := range input.Mechanics {
		allowedMech[m] = true
	}

	covered := make(map[string]bool)
	lastCheckpoint := 0
	for i, b := range beats {
		switch b.Kind {
		case story.BeatGame:
			covered[b.Word] = true
			if len(allowedMech) > 0 && !allowedMech[b.MechanicID] {
				return fmt.Errorf("beat %d: unknown mechanic %q", i, b.MechanicID)
			}
		case story.BeatCheckpoint:
			if b.Checkpoint != lastCheckpoint+1 {
				return fmt.Errorf("beat %d: checkpoint %d out of order (previous %d)", i, b.Checkpoint, lastCheckpoint)
			}
			lastCheckpoint = b.Checkpoint
		}
	}

	for _, w := range input.Words {
		if !covered[w] {
			return fmt.Errorf("word %q has no game beat", w)
		}
	}
	return nil
}
