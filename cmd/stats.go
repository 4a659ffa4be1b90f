package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spellquest/internal/config"
	"spellquest/internal/engine"
	"spellquest/internal/spacedrep"
	"spellquest/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show word confidence, due reviews, and learning style",
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

		svc := engine.New(st)

		lists, err := st.WordListRepo().ListWordLists(ctx)
		if err != nil {
			return fmt.Errorf("list word lists: %w", err)
		}
		if len(lists) == 0 {
			fmt.Println("No word lists yet. Run 'spellquest play' to get started.")
			return nil
		}

		var pool []string
		fmt.Println("Word Confidence")
		fmt.Println(strings.Repeat("─", 56))
		fmt.Printf("%-16s  %-14s  %5s  %-12s  %8s\n", "List", "Word", "Score", "Level", "Attempts")
		fmt.Println(strings.Repeat("─", 56))
		for _, l := range lists {
			confs, err := svc.Confidences(ctx, l.Words)
			if err != nil {
				return fmt.Errorf("confidences for %s: %w", l.ID, err)
			}
			for _, w := range l.Words {
				c := confs[w]
				fmt.Printf("%-16s  %-14s  %5d  %-12s  %8d\n", l.ID, w, c.Score, c.Level, c.TotalAttempts)
			}
			pool = append(pool, l.Words...)
		}

		due, err := svc.DueWords(ctx, pool, 10)
		if err != nil {
			return fmt.Errorf("due words: %w", err)
		}
		fmt.Println()
		fmt.Println("Due for Review")
		fmt.Println(strings.Repeat("─", 40))
		if len(due) == 0 {
			fmt.Println("Nothing due. Nice work!")
		} else {
			for _, d := range due {
				fmt.Printf("%-14s  box %d  priority %.0f\n", d.Word, d.State.BoxLevel, d.Priority)
			}
		}

		states, err := st.ReviewRepo().LoadReviewStates(ctx)
		if err != nil {
			return fmt.Errorf("review schedule: %w", err)
		}
		if upcoming := upcomingReviews(states, time.Now()); len(upcoming) > 0 {
			fmt.Println()
			fmt.Println("Upcoming Reviews")
			fmt.Println(strings.Repeat("─", 40))
			for _, u := range upcoming {
				fmt.Printf("%-14s  box %d  in %dd\n", u.Word, u.BoxLevel, u.DaysUntilReview(time.Now()))
			}
		}

		profile, err := svc.Profile(ctx)
		if err != nil {
			return fmt.Errorf("learning style: %w", err)
		}
		fmt.Println()
		fmt.Println("Learning Style")
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("Visual       %3d%%\n", profile.VisualPct)
		fmt.Printf("Auditory     %3d%%\n", profile.AuditoryPct)
		fmt.Printf("Kinesthetic  %3d%%\n", profile.KinestheticPct)
		fmt.Printf("Primary:     %s", profile.Primary)
		if profile.Secondary != "" {
			fmt.Printf(" (then %s)", profile.Secondary)
		}
		fmt.Println()
		fmt.Printf("Confidence:  %s over %d attempts\n", profile.Confidence, profile.SampleSize)
		return nil
	},
}

// upcomingReviews filters the schedule down to words that are not yet
// due, soonest first.
func upcomingReviews(states []*spacedrep.ReviewState, now time.Time) []*spacedrep.ReviewState {
	var out []*spacedrep.ReviewState
	for _, rs := range states {
		if rs.IsDue(now) {
			continue
		}
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NextReviewDate.Before(out[j].NextReviewDate)
	})
	return out
}
