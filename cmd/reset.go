package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"spellquest/internal/config"
	"spellquest/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset [list]",
	Short: "Clear saved story progress for a word list",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		all, _ := cmd.Flags().GetBool("all")

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

		if all {
			lists, err := st.WordListRepo().ListWordLists(ctx)
			if err != nil {
				return fmt.Errorf("list word lists: %w", err)
			}
			for _, l := range lists {
				if err := st.ProgressRepo(l.ID).ClearProgress(ctx); err != nil {
					return fmt.Errorf("clear progress for %s: %w", l.ID, err)
				}
			}
			fmt.Printf("Cleared story progress for %d lists.\n", len(lists))
			return nil
		}

		listID := cfg.DefaultList
		if len(args) > 0 {
			listID = args[0]
		}
		if err := st.ProgressRepo(listID).ClearProgress(ctx); err != nil {
			return fmt.Errorf("clear progress: %w", err)
		}
		fmt.Printf("Cleared story progress for %q.\n", listID)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Clear progress for every word list")
}
