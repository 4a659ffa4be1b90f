package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spellquest/internal/beatgen"
	"spellquest/internal/config"
	"spellquest/internal/engine"
	"spellquest/internal/llm"
	"spellquest/internal/store"
	"spellquest/internal/tui"
	"spellquest/internal/words"
)

var playCmd = &cobra.Command{
	Use:   "play [list]",
	Short: "Start a story session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.NoColor {
		os.Setenv("NO_COLOR", "1")
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.WordListRepo().SeedStarterLists(ctx); err != nil {
		return fmt.Errorf("seed word lists: %w", err)
	}

	// Build LLM-backed story generation when a provider is configured.
	// The engine falls back to deterministic stories otherwise.
	var opts []engine.Option
	if llmCfg, ok := llm.DiscoverConfig(); ok {
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo())
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Stories will use built-in content.")
		} else {
			opts = append(opts, engine.WithBeatGenerator(beatgen.New(provider, beatgen.DefaultConfig())))
		}
	}

	svc := engine.New(st, opts...)

	listID := cfg.DefaultList
	if len(args) > 0 {
		listID = args[0]
	}

	for {
		list, err := st.WordListRepo().GetWordList(ctx, listID)
		if err != nil {
			return fmt.Errorf("load word list: %w", err)
		}
		if list == nil {
			return fmt.Errorf("word list %q not found; run 'spellquest lists' to see what's available", listID)
		}

		machine, err := svc.NewStorySession(ctx, *list)
		if err != nil {
			return fmt.Errorf("build session: %w", err)
		}

		if err := tui.Run(machine, svc.Registry()); err != nil {
			return err
		}

		if !machine.WantsNewWords() {
			return nil
		}
		listID, err = nextListID(ctx, st, listID)
		if err != nil {
			return err
		}
	}
}

// nextListID rotates to the next stored word list after current.
func nextListID(ctx context.Context, st *store.Store, current string) (string, error) {
	lists, err := st.WordListRepo().ListWordLists(ctx)
	if err != nil {
		return "", fmt.Errorf("list word lists: %w", err)
	}
	if len(lists) == 0 {
		return "", fmt.Errorf("no word lists available")
	}
	return pickNext(lists, current), nil
}

func pickNext(lists []words.List, current string) string {
	for i, l := range lists {
		if l.ID == current {
			return lists[(i+1)%len(lists)].ID
		}
	}
	return lists[0].ID
}
