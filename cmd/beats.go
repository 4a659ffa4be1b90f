package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"spellquest/internal/beatgen"
	"spellquest/internal/llm"
	"spellquest/internal/practice"
	"spellquest/internal/story"
	"spellquest/internal/words"
)

var beatsCmd = &cobra.Command{
	Use:   "beats",
	Short: "Preview generated story beats for a word list (no database)",
	Long: `Generate and print the beat sequence for a word list.

This is a stateless developer tool: no database, no progress tracking.
Useful for evaluating story quality and prompt changes.`,
	RunE: runBeats,
}

func init() {
	beatsCmd.Flags().String("list", "ocean-voyage", "Starter list ID to generate for")
	beatsCmd.Flags().String("words", "", "Comma-separated words (overrides --list)")
	beatsCmd.Flags().String("theme", "", "Story theme (defaults to the list's theme)")
	beatsCmd.Flags().Bool("fallback", false, "Use the built-in generator even when an LLM is configured")
}

func runBeats(cmd *cobra.Command, args []string) error {
	listID, _ := cmd.Flags().GetString("list")
	wordsFlag, _ := cmd.Flags().GetString("words")
	theme, _ := cmd.Flags().GetString("theme")
	forceFallback, _ := cmd.Flags().GetBool("fallback")

	var pool []string
	if wordsFlag != "" {
		for _, w := range strings.Split(wordsFlag, ",") {
			if w = strings.TrimSpace(strings.ToLower(w)); w != "" {
				pool = append(pool, w)
			}
		}
		if theme == "" {
			theme = "adventure"
		}
	} else {
		list, ok := starterList(listID)
		if !ok {
			return fmt.Errorf("no starter list %q; use --words to supply your own", listID)
		}
		pool = list.Words
		if theme == "" {
			theme = list.Theme
		}
	}

	registry := practice.DefaultRegistry()
	input := beatgen.GenerateInput{
		Theme:     theme,
		Words:     pool,
		Mechanics: registry.IDs(),
	}

	ctx := context.Background()
	var gen beatgen.Generator = beatgen.NewFallback()
	if !forceFallback {
		if cfg, ok := llm.DiscoverConfig(); ok {
			// No event repo: preview requests are not logged.
			provider, err := llm.NewProvider(ctx, cfg, nil)
			if err != nil {
				return fmt.Errorf("LLM provider: %w", err)
			}
			gen = beatgen.New(provider, beatgen.DefaultConfig())
		} else {
			fmt.Fprintln(os.Stderr, "No LLM provider configured; using built-in generator.")
		}
	}

	beats, err := gen.GenerateBeats(ctx, input)
	if err != nil {
		return fmt.Errorf("generate beats: %w", err)
	}

	fmt.Printf("Theme: %s  (%d beats for %d words)\n\n", theme, len(beats), len(pool))
	for i, b := range beats {
		printBeat(i, b)
	}
	return nil
}

func printBeat(i int, b story.Beat) {
	switch b.Kind {
	case story.BeatNarrative:
		fmt.Printf("%2d. [narrative] %s\n", i+1, b.Text)
	case story.BeatGame:
		fmt.Printf("%2d. [game] word=%s mechanic=%s", i+1, b.Word, b.MechanicID)
		if b.Text != "" {
			fmt.Printf("  %s", b.Text)
		}
		fmt.Println()
	case story.BeatChoice:
		fmt.Printf("%2d. [choice] %s\n", i+1, b.Question)
		for _, opt := range b.Options {
			fmt.Printf("      %s) %s\n", opt.ID, opt.Label)
		}
	case story.BeatCheckpoint:
		fmt.Printf("%2d. [checkpoint %d] %s: %s\n", i+1, b.Checkpoint, b.Title, b.Celebration)
	}
}

func starterList(id string) (words.List, bool) {
	for _, l := range words.StarterLists() {
		if l.ID == id {
			return l, true
		}
	}
	return words.List{}, false
}
