// Package progress tracks completed practice rounds and unlocks narrative
// checkpoints at fixed thresholds. The tracker is the child machine of the
// story orchestrator: the parent sends it messages and reads its snapshot,
// and the tracker never calls back into the parent.
package progress

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"
)

// State names the tracker's position in the checkpoint lifecycle.
type State string

const (
	StateIntro       State = "intro"
	StatePlaying     State = "playing"
	StateCheckpoint1 State = "checkpoint1"
	StateCheckpoint2 State = "checkpoint2"
	StateCheckpoint3 State = "checkpoint3"
	StateFinale      State = "finale"
)

// Round thresholds for each milestone.
const (
	Checkpoint1Rounds = 5
	Checkpoint2Rounds = 10
	Checkpoint3Rounds = 15
	FinaleRounds      = 20
)

// Snapshot is the tracker's persistable context. Checkpoint is 0 before
// any milestone, 1-3 for unlocked checkpoints, and 4 at the finale.
type Snapshot struct {
	Checkpoint             int       `json:"checkpoint"`
	RoundsCompleted        int       `json:"rounds_completed"`
	Unlocked               []int     `json:"unlocked"`
	RoundsAtLastCheckpoint int       `json:"rounds_at_last_checkpoint"`
	Theme                  string    `json:"theme"`
	StartedAt              time.Time `json:"started_at"`
}

// FinaleCheckpoint is the Checkpoint value once the finale is reached.
const FinaleCheckpoint = 4

// MasteryQuery answers whether every word across all known word lists has
// reached the mastery threshold. Implementations may hit storage and fail;
// the tracker treats any error as "not mastered".
type MasteryQuery interface {
	AllWordsMastered(ctx context.Context) (bool, error)
}

// Repo persists tracker snapshots. Writes are fire-and-forget: the tracker
// logs failures and carries on with its in-memory state.
type Repo interface {
	SaveProgress(ctx context.Context, snap Snapshot) error
}

// Tracker is the checkpoint/milestone state machine.
type Tracker struct {
	state    State
	unlocked map[int]bool
	snap     Snapshot
	mastery  MasteryQuery
	repo     Repo
	clock    func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the tracker's time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) { t.clock = clock }
}

// New creates a tracker in the intro state, resuming from a prior snapshot
// when one is given. mastery and repo may be nil; a nil mastery query means
// the finale mastery condition is never met.
func New(prior *Snapshot, mastery MasteryQuery, repo Repo, opts ...Option) *Tracker {
	t := &Tracker{
		state:    StateIntro,
		unlocked: map[int]bool{0: true},
		mastery:  mastery,
		repo:     repo,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	if prior != nil {
		t.snap = *prior
		for _, n := range prior.Unlocked {
			t.unlocked[n] = true
		}
	} else {
		t.snap = Snapshot{StartedAt: t.clock()}
	}
	return t
}

// State returns the current machine state.
func (t *Tracker) State() State {
	return t.state
}

// Snapshot returns a copy of the persisted context, with the unlocked set
// rendered as a sorted slice.
func (t *Tracker) Snapshot() Snapshot {
	snap := t.snap
	snap.Unlocked = t.unlockedSlice()
	return snap
}

func (t *Tracker) unlockedSlice() []int {
	out := make([]int, 0, len(t.unlocked))
	for n := range t.unlocked {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Start moves the tracker from intro to playing. Called once when the
// parent session begins; a no-op in any other state.
func (t *Tracker) Start(theme string) {
	if t.state != StateIntro {
		return
	}
	t.snap.Theme = theme
	if t.snap.StartedAt.IsZero() {
		t.snap.StartedAt = t.clock()
	}
	t.state = StatePlaying
}

// RoundCompleted records one finished practice round and evaluates the
// checkpoint and finale guards. At most one transition happens per call.
func (t *Tracker) RoundCompleted(ctx context.Context) {
	if t.state == StateFinale {
		return
	}
	t.snap.RoundsCompleted++

	if target, state := t.nextCheckpoint(); target > 0 {
		t.enterCheckpoint(target, state)
		t.persist(ctx)
		return
	}

	if t.state == StatePlaying && t.finaleReady(ctx) {
		t.state = StateFinale
		t.snap.Checkpoint = FinaleCheckpoint
	}

	t.persist(ctx)
}

// nextCheckpoint returns the checkpoint the current round count has newly
// earned, or 0 when none applies. Each checkpoint is reachable once,
// guarded by the current checkpoint index being below the target.
func (t *Tracker) nextCheckpoint() (int, State) {
	if t.state != StatePlaying {
		return 0, ""
	}
	rounds := t.snap.RoundsCompleted
	switch {
	case rounds >= Checkpoint1Rounds && t.snap.Checkpoint < 1:
		return 1, StateCheckpoint1
	case rounds >= Checkpoint2Rounds && t.snap.Checkpoint < 2:
		return 2, StateCheckpoint2
	case rounds >= Checkpoint3Rounds && t.snap.Checkpoint < 3:
		return 3, StateCheckpoint3
	}
	return 0, ""
}

func (t *Tracker) enterCheckpoint(n int, state State) {
	t.state = state
	t.snap.Checkpoint = n
	t.unlocked[n] = true
	t.snap.RoundsAtLastCheckpoint = t.snap.RoundsCompleted
}

// finaleReady evaluates the finale guard: enough rounds and every word
// across all lists mastered. The mastery query fails closed: an error
// means the guard is not met, never a stalled machine.
func (t *Tracker) finaleReady(ctx context.Context) bool {
	if t.snap.RoundsCompleted < FinaleRounds {
		return false
	}
	if t.mastery == nil {
		return false
	}
	mastered, err := t.mastery.AllWordsMastered(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: mastery query failed, finale guard stays closed: %v\n", err)
		return false
	}
	return mastered
}

// Continue acknowledges a checkpoint celebration and resumes playing.
func (t *Tracker) Continue(ctx context.Context) {
	switch t.state {
	case StateCheckpoint1, StateCheckpoint2, StateCheckpoint3:
		t.state = StatePlaying
		t.persist(ctx)
	}
}

// Reset returns the tracker to intro with all counters zeroed and the
// unlocked set back to {0}.
func (t *Tracker) Reset(ctx context.Context) {
	t.state = StateIntro
	t.unlocked = map[int]bool{0: true}
	t.snap = Snapshot{StartedAt: t.clock(), Theme: t.snap.Theme}
	t.persist(ctx)
}

func (t *Tracker) persist(ctx context.Context) {
	if t.repo == nil {
		return
	}
	if err := t.repo.SaveProgress(ctx, t.Snapshot()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to persist story progress: %v\n", err)
	}
}
