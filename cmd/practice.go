package cmd

import (
	"bufio"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spellquest/internal/config"
	"spellquest/internal/engine"
	"spellquest/internal/learnstyle"
	"spellquest/internal/practice"
	"spellquest/internal/selector"
	"spellquest/internal/store"
)

var practiceCmd = &cobra.Command{
	Use:   "practice [list]",
	Short: "Quick freeform practice without the story",
	Long: `Run a short typed-spelling drill over one word list.

Words are picked by review priority, then by within-session struggle.
Every round still feeds the attempt log, confidence scores, and the
review schedule.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPractice,
}

func runPractice(cmd *cobra.Command, args []string) error {
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

	listID := cfg.DefaultList
	if len(args) > 0 {
		listID = args[0]
	}
	list, err := st.WordListRepo().GetWordList(ctx, listID)
	if err != nil {
		return fmt.Errorf("load word list: %w", err)
	}
	if list == nil {
		return fmt.Errorf("word list %q not found", listID)
	}

	svc := engine.New(st)
	pool, err := svc.PlanFreeformSession(ctx, *list, cfg.SessionSize)
	if err != nil {
		return fmt.Errorf("plan session: %w", err)
	}
	if len(pool) == 0 {
		return fmt.Errorf("list %q has no words to practice", listID)
	}

	profile, err := svc.Profile(ctx)
	if err != nil {
		return fmt.Errorf("learning style: %w", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	perf := make(map[string]*selector.Performance)
	for _, w := range pool {
		perf[w] = &selector.Performance{}
	}
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	registry := svc.Registry()

	fmt.Printf("Practice: %s (%d rounds)\n\n", list.Name, cfg.SessionSize)

	correct := 0
	current := ""
	var recentMechanics []string
	for round := 1; round <= cfg.SessionSize; round++ {
		word := selector.SelectNextWord(pool, perf, current)
		if word == "" {
			break
		}
		current = word

		tier, err := svc.TierFor(ctx, word)
		if err != nil {
			return err
		}

		mechID := learnstyle.SelectNextGame(profile, registry.IDs(), recentMechanics, registry, rng)
		if mechID == "" {
			mechID = "trace-type"
		}
		recentMechanics = append(recentMechanics, mechID)
		if len(recentMechanics) > 2 {
			recentMechanics = recentMechanics[len(recentMechanics)-2:]
		}
		mech, _ := registry.Get(mechID)

		fmt.Printf("── Round %d/%d (%s, %s) ──\n", round, cfg.SessionSize, tier, mech.Name)
		fmt.Printf("Study:  %s\n", strings.ToUpper(word))
		fmt.Println(strings.Repeat("\n", 2))

		start := time.Now()
		tries := 0
		hints := 0
		got := false
		for tries < 3 {
			fmt.Print("Type it: ")
			if !scanner.Scan() {
				fmt.Println("\n(input closed)")
				return summarize(correct, round-1)
			}
			tries++
			answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if answer == word {
				got = true
				break
			}
			if answer == "?" {
				hints++
				tries--
				fmt.Printf("hint: it starts with %q and has %d letters\n", strings.ToUpper(word[:1]), len(word))
				continue
			}
			fmt.Println("\033[31m✗ Not quite.\033[0m")
		}

		if got {
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("The word was: %s\n", strings.ToUpper(word))
		}
		fmt.Println()

		rec := practice.AttemptRecord{
			Word:        word,
			Correct:     got,
			Attempts:    tries,
			DurationMs:  int(time.Since(start).Milliseconds()),
			HintsUsed:   hints,
			MechanicID:  mechID,
			CompletedAt: time.Now(),
		}
		if err := st.AttemptRepo().AppendAttempt(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record attempt: %v\n", err)
		}
		if err := svc.RecordReview(ctx, word); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to update review schedule: %v\n", err)
		}
		perf[word].Record(tries, hints)
	}

	return summarize(correct, cfg.SessionSize)
}

func summarize(correct, rounds int) error {
	fmt.Printf("── Summary: %d/%d correct ──\n", correct, rounds)
	return nil
}
