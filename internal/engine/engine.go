// Package engine ties the adaptive core to storage and content
// generation: it derives confidences from the attempt log, schedules
// reviews, detects the learning style, and assembles narrative and
// freeform sessions.
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"spellquest/internal/beatgen"
	"spellquest/internal/confidence"
	"spellquest/internal/difficulty"
	"spellquest/internal/learnstyle"
	"spellquest/internal/practice"
	"spellquest/internal/progress"
	"spellquest/internal/spacedrep"
	"spellquest/internal/store"
	"spellquest/internal/story"
	"spellquest/internal/words"
)

// Service is the aggregate over the adaptive core. One Service owns one
// open store; it is not safe for concurrent use.
type Service struct {
	store    *store.Store
	registry *practice.Registry
	beats    beatgen.Generator
	fallback beatgen.Generator
	clock    func() time.Time
	rng      *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithBeatGenerator sets the primary beat generator. Without one, the
// deterministic fallback builds every story.
func WithBeatGenerator(g beatgen.Generator) Option {
	return func(s *Service) { s.beats = g }
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithRand overrides the random source, for tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// New creates a Service over an open store.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		registry: practice.DefaultRegistry(),
		fallback: beatgen.NewFallback(),
		clock:    time.Now,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the mechanic registry.
func (s *Service) Registry() *practice.Registry {
	return s.registry
}

// Confidences recomputes the confidence of every word in the pool from
// the attempt log.
func (s *Service) Confidences(ctx context.Context, pool []string) (map[string]confidence.WordConfidence, error) {
	out := make(map[string]confidence.WordConfidence, len(pool))
	repo := s.store.AttemptRepo()
	for _, w := range pool {
		history, err := repo.AttemptsForWord(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("history for %q: %w", w, err)
		}
		out[w] = confidence.Compute(w, history)
	}
	return out, nil
}

// AllWordsMastered reports whether every word across every stored list
// has reached the mastery threshold. It backs the story finale guard;
// callers treat an error as "not mastered".
func (s *Service) AllWordsMastered(ctx context.Context) (bool, error) {
	lists, err := s.store.WordListRepo().ListWordLists(ctx)
	if err != nil {
		return false, fmt.Errorf("list word lists: %w", err)
	}
	if len(lists) == 0 {
		return false, nil
	}
	for _, l := range lists {
		confs, err := s.Confidences(ctx, l.Words)
		if err != nil {
			return false, err
		}
		for _, c := range confs {
			if c.Level != confidence.LevelMastered {
				return false, nil
			}
		}
	}
	return true, nil
}

// Profile recomputes the learning style profile from the full attempt
// log and persists it as the last-known value. Persistence failures are
// logged, not returned; the computed profile is always usable.
func (s *Service) Profile(ctx context.Context) (learnstyle.Profile, error) {
	history, err := s.store.AttemptRepo().AllAttempts(ctx)
	if err != nil {
		return learnstyle.Profile{}, fmt.Errorf("load attempts: %w", err)
	}
	p := learnstyle.Detect(history, s.registry)
	if err := s.store.ProfileRepo().SaveProfile(ctx, p); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save learning style profile: %v\n", err)
	}
	return p, nil
}

// DueWords returns the words most in need of review, highest priority
// first.
func (s *Service) DueWords(ctx context.Context, pool []string, limit int) ([]spacedrep.DueWord, error) {
	sched, confs, err := s.scheduler(ctx, pool)
	if err != nil {
		return nil, err
	}
	return sched.DueWordsInPriorityOrder(confs, s.clock(), limit), nil
}

// PlanFreeformSession builds the word sequence for a freeform practice
// session over one list.
func (s *Service) PlanFreeformSession(ctx context.Context, list words.List, sessionSize int) ([]string, error) {
	sched, confs, err := s.scheduler(ctx, list.Words)
	if err != nil {
		return nil, err
	}
	return sched.SelectSessionWords(list.Words, confs, sessionSize, s.clock(), s.rng), nil
}

// TierFor derives the current presentation difficulty for a word: the
// word-shape baseline stepped by the most recent attempt window.
func (s *Service) TierFor(ctx context.Context, word string) (difficulty.Tier, error) {
	history, err := s.store.AttemptRepo().AttemptsForWord(ctx, word)
	if err != nil {
		return "", fmt.Errorf("history for %q: %w", word, err)
	}
	if len(history) > tierWindow {
		history = history[len(history)-tierWindow:]
	}
	return difficulty.Next(difficulty.Initial(word), history), nil
}

// tierWindow is how many recent attempts feed the difficulty step.
const tierWindow = 5

// RecordReview folds one practiced word back into its review schedule
// and persists the updated state.
func (s *Service) RecordReview(ctx context.Context, word string) error {
	sched, confs, err := s.scheduler(ctx, []string{word})
	if err != nil {
		return err
	}
	st := sched.Update(word, confs[word], s.clock())
	if err := s.store.ReviewRepo().SaveReviewState(ctx, st); err != nil {
		return fmt.Errorf("save review state: %w", err)
	}
	return nil
}

// scheduler loads persisted review states and pairs them with fresh
// confidences for the given pool.
func (s *Service) scheduler(ctx context.Context, pool []string) (*spacedrep.Scheduler, map[string]confidence.WordConfidence, error) {
	states, err := s.store.ReviewRepo().LoadReviewStates(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load review states: %w", err)
	}
	confs, err := s.Confidences(ctx, pool)
	if err != nil {
		return nil, nil, err
	}
	return spacedrep.NewScheduler(states), confs, nil
}

// NewStorySession assembles a narrative session over one word list:
// generates (or falls back to) a beat sequence, restores prior story
// progress, and builds the session machine.
func (s *Service) NewStorySession(ctx context.Context, list words.List) (*story.Machine, error) {
	if err := list.Validate(); err != nil {
		return nil, err
	}

	input := beatgen.GenerateInput{
		Theme:     list.Theme,
		Words:     list.Words,
		Mechanics: s.registry.IDs(),
	}
	if profile, err := s.Profile(ctx); err == nil && profile.SampleSize >= learnstyle.MinSampleSize {
		input.LearnerNotes = fmt.Sprintf("This learner does best with %s games; lean on those mechanics.", profile.Primary)
	}

	beats, err := s.generateBeats(ctx, input)
	if err != nil {
		return nil, err
	}

	progressRepo := s.store.ProgressRepo(list.ID)
	prior, err := progressRepo.LoadProgress(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load story progress, starting fresh: %v\n", err)
		prior = nil
	}

	return story.New(list.ID, list.Theme, list.Words, beats, prior, s, progressRepo,
		story.WithClock(s.clock),
		story.WithIntroMarker(s.store.WordListRepo()),
		story.WithAttemptSink(s.store.AttemptRepo()),
	)
}

// generateBeats tries the configured generator and falls back to the
// deterministic one, so the machine always receives a valid sequence.
func (s *Service) generateBeats(ctx context.Context, input beatgen.GenerateInput) ([]story.Beat, error) {
	if s.beats != nil {
		beats, err := s.beats.GenerateBeats(ctx, input)
		if err == nil {
			return beats, nil
		}
		fmt.Fprintf(os.Stderr, "warning: story generation failed, using fallback: %v\n", err)
	}
	return s.fallback.GenerateBeats(ctx, input)
}

var _ progress.MasteryQuery = (*Service)(nil)
