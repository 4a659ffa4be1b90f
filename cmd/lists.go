package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spellquest/internal/config"
	"spellquest/internal/store"
	"spellquest/internal/words"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show available word lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := config.Load()
		if err != nil {
			return err
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

		lists, err := st.WordListRepo().ListWordLists(ctx)
		if err != nil {
			return fmt.Errorf("list word lists: %w", err)
		}

		fmt.Printf("%-16s  %-20s  %s\n", "ID", "Name", "Words")
		fmt.Println(strings.Repeat("─", 80))
		for _, l := range lists {
			fmt.Printf("%-16s  %-20s  %s\n", l.ID, l.Name, strings.Join(l.Words, ", "))
		}
		return nil
	},
}

var listsAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a custom word list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		name, _ := cmd.Flags().GetString("name")
		theme, _ := cmd.Flags().GetString("theme")
		wordsFlag, _ := cmd.Flags().GetString("words")

		list, err := buildWordList(args[0], name, theme, wordsFlag)
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
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

		if err := st.WordListRepo().SaveWordList(ctx, list); err != nil {
			return fmt.Errorf("save word list: %w", err)
		}
		fmt.Printf("Saved list %q with %d words.\n", list.ID, len(list.Words))
		return nil
	},
}

// buildWordList assembles a list from the add command's flags. The word
// set is normalized so the stored list keys the attempt log and the
// confidence maps the same way the session does.
func buildWordList(id, name, theme, wordsFlag string) (words.List, error) {
	list := words.List{
		ID:    id,
		Name:  name,
		Theme: theme,
		Words: strings.Split(wordsFlag, ","),
	}
	if list.Name == "" {
		list.Name = list.ID
	}
	if list.Theme == "" {
		list.Theme = list.ID
	}
	list.Normalize()
	if err := list.Validate(); err != nil {
		return words.List{}, err
	}
	return list, nil
}

func init() {
	listsAddCmd.Flags().String("name", "", "Display name for the list")
	listsAddCmd.Flags().String("theme", "", "Story theme for the list")
	listsAddCmd.Flags().String("words", "", "Comma-separated words (required)")
	_ = listsAddCmd.MarkFlagRequired("words")
	listsCmd.AddCommand(listsAddCmd)
}
