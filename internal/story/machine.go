package story

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"spellquest/internal/practice"
	"spellquest/internal/progress"
)

// State names the orchestrator's position. The processing composite from
// the design is flattened into one sub-state per beat kind; routing
// between them is re-evaluated after every index advance.
type State string

const (
	StateIdle              State = "idle"
	StateShowingIntro      State = "showingIntro"
	StateShowingNarrative  State = "showingNarrative"
	StatePresentingChoice  State = "presentingChoice"
	StatePlayingGame       State = "playingGame"
	StateShowingCheckpoint State = "showingCheckpoint"
	StateFinale            State = "finale"
)

// EventType enumerates the dispatchable events.
type EventType string

const (
	EventStartStory     EventType = "START_STORY"
	EventSkipIntro      EventType = "SKIP_INTRO"
	EventNarrativeSeen  EventType = "NARRATIVE_SEEN"
	EventChoiceMade     EventType = "CHOICE_MADE"
	EventGameCompleted  EventType = "GAME_COMPLETED"
	EventContinueStory  EventType = "CONTINUE_STORY"
	EventSkipCheckpoint EventType = "SKIP_CHECKPOINT"
	EventRestartStory   EventType = "RESTART_STORY"
	EventTryNewWords    EventType = "TRY_NEW_WORDS"
	EventStoryReset     EventType = "STORY_RESET"
)

// GameResult is the payload of GAME_COMPLETED.
type GameResult struct {
	Correct     bool
	TimeSpentMs int
	HintsUsed   int
	Errors      int
}

// Event pairs a type with its payload. OptionID accompanies CHOICE_MADE
// and Result accompanies GAME_COMPLETED; both are ignored otherwise.
type Event struct {
	Type     EventType
	OptionID string
	Result   *GameResult
}

// checkpointGateMs is how long a checkpoint must stay on screen before
// CONTINUE_STORY is accepted. SKIP_CHECKPOINT bypasses the gate.
const checkpointGateMs = 5000

// IntroMarker records that a learner has seen the intro for a word list.
type IntroMarker interface {
	MarkIntroSeen(ctx context.Context, listID string) error
}

// AttemptSink receives the attempt record produced by each completed
// game round. Writes are fire-and-forget.
type AttemptSink interface {
	AppendAttempt(ctx context.Context, rec practice.AttemptRecord) error
}

// Machine is the parent session orchestrator. One machine owns exactly
// one SessionContext and one progress tracker; it is not safe for
// concurrent use and expects events one at a time.
type Machine struct {
	state   State
	sctx    *SessionContext
	tracker *progress.Tracker

	intro    IntroMarker
	attempts AttemptSink
	clock    func() time.Time

	// construction inputs, kept for restart
	listID  string
	theme   string
	words   []string
	beats   []Beat
	mastery progress.MasteryQuery
	repo    progress.Repo

	wantsNewWords bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the machine's time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Machine) { m.clock = clock }
}

// WithIntroMarker sets the intro-seen recorder.
func WithIntroMarker(marker IntroMarker) Option {
	return func(m *Machine) { m.intro = marker }
}

// WithAttemptSink sets the attempt-record sink.
func WithAttemptSink(sink AttemptSink) Option {
	return func(m *Machine) { m.attempts = sink }
}

// New builds a machine for one narrative session. The beat sequence must
// already be validated and non-empty; the machine has no content
// fallback of its own. The machine spawns its own progress tracker,
// wired to the given mastery query and progress repo (both may be nil).
func New(listID, theme string, words []string, beats []Beat, prior *progress.Snapshot, mastery progress.MasteryQuery, repo progress.Repo, opts ...Option) (*Machine, error) {
	if err := ValidateSequence(beats, words); err != nil {
		return nil, fmt.Errorf("invalid beat sequence: %w", err)
	}
	m := &Machine{
		clock:   time.Now,
		listID:  listID,
		theme:   theme,
		words:   words,
		beats:   beats,
		mastery: mastery,
		repo:    repo,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize(prior)
	return m, nil
}

// initialize performs the idle-state setup and auto-advances to the
// intro: spawn the tracker, seed per-word running stats, assign a fresh
// session id.
func (m *Machine) initialize(prior *progress.Snapshot) {
	m.state = StateIdle
	m.tracker = progress.New(prior, m.mastery, m.repo, progress.WithClock(m.clock))
	m.sctx = newSessionContext(uuid.NewString(), m.listID, m.theme, m.words, m.beats)
	m.wantsNewWords = false
	m.state = StateShowingIntro
}

// State returns the current machine state.
func (m *Machine) State() State {
	return m.state
}

// Context returns the live session context. Callers must treat it as
// read-only; the machine replaces it wholesale on each dispatch.
func (m *Machine) Context() *SessionContext {
	return m.sctx
}

// TrackerState exposes the child tracker's last-known snapshot.
func (m *Machine) TrackerState() (progress.State, progress.Snapshot) {
	return m.tracker.State(), m.tracker.Snapshot()
}

// CanContinue reports whether the checkpoint continue gate is open. It
// is false everywhere outside showingCheckpoint, and inside it until the
// gate duration has elapsed.
func (m *Machine) CanContinue() bool {
	if m.state != StateShowingCheckpoint {
		return false
	}
	return m.clock().Sub(m.sctx.checkpointEnteredAt) >= checkpointGateMs*time.Millisecond
}

// WantsNewWords reports that the learner chose TRY_NEW_WORDS at the
// finale. Navigation itself belongs to the caller.
func (m *Machine) WantsNewWords() bool {
	return m.wantsNewWords
}

// Dispatch applies one event. Events that do not apply in the current
// state are ignored rather than erroring, matching an event-driven UI
// where stale inputs are routine. Context mutation happens on a clone
// that is swapped in at the end, so a half-applied event can never leak.
func (m *Machine) Dispatch(ctx context.Context, ev Event) {
	if ev.Type == EventStoryReset {
		m.reset(ctx)
		return
	}

	switch m.state {
	case StateShowingIntro:
		if ev.Type == EventStartStory || ev.Type == EventSkipIntro {
			m.markIntroSeen(ctx)
			m.tracker.Start(m.theme)
			m.route(m.sctx.clone())
		}

	case StateShowingNarrative:
		if ev.Type == EventNarrativeSeen {
			next := m.sctx.clone()
			next.Index++
			m.route(next)
		}

	case StatePresentingChoice:
		if ev.Type == EventChoiceMade {
			next := m.sctx.clone()
			if beat := next.CurrentBeat(); beat != nil {
				next.Choices = append(next.Choices, ChoiceRecord{
					BeatID:   beat.ID,
					OptionID: ev.OptionID,
					MadeAt:   m.clock(),
				})
			}
			next.Index++
			m.route(next)
		}

	case StatePlayingGame:
		if ev.Type == EventGameCompleted && ev.Result != nil {
			next := m.sctx.clone()
			m.applyGameResult(ctx, next, *ev.Result)
			m.tracker.RoundCompleted(ctx)
			next.Index++
			m.route(next)
		}

	case StateShowingCheckpoint:
		switch ev.Type {
		case EventContinueStory:
			if !m.CanContinue() {
				return
			}
			m.tracker.Continue(ctx)
			next := m.sctx.clone()
			next.checkpointEnteredAt = time.Time{}
			next.Index++
			m.route(next)
		case EventSkipCheckpoint:
			m.tracker.Continue(ctx)
			next := m.sctx.clone()
			next.checkpointEnteredAt = time.Time{}
			next.Index++
			m.route(next)
		}

	case StateFinale:
		switch ev.Type {
		case EventRestartStory:
			m.tracker.Reset(ctx)
			m.initialize(nil)
		case EventTryNewWords:
			m.wantsNewWords = true
		}
	}
}

// route is the guarded always-transition: it inspects the (possibly
// advanced) context and picks the next state, swapping the new context
// in. Finale wins when every word has reached mastery or the sequence is
// exhausted; a missing beat always falls through to finale so the
// machine cannot strand itself on a nil beat.
func (m *Machine) route(next *SessionContext) {
	m.sctx = next

	if next.allWordsMastered() || next.Index >= len(next.Beats) {
		m.state = StateFinale
		return
	}

	beat := next.CurrentBeat()
	if beat == nil {
		m.state = StateFinale
		return
	}

	switch beat.Kind {
	case BeatNarrative:
		m.state = StateShowingNarrative
	case BeatChoice:
		m.state = StatePresentingChoice
	case BeatGame:
		m.state = StatePlayingGame
	case BeatCheckpoint:
		next.checkpointEnteredAt = m.clock()
		m.state = StateShowingCheckpoint
	default:
		m.state = StateFinale
	}
}

// applyGameResult folds one round into the target word's running stats
// using the incremental rule, appends the attempt record, and forwards
// it to the sink.
func (m *Machine) applyGameResult(ctx context.Context, next *SessionContext, res GameResult) {
	beat := next.CurrentBeat()
	if beat == nil || beat.Kind != BeatGame {
		return
	}
	st := next.Stats[beat.Word]
	if st == nil {
		st = &WordStats{Confidence: initialRunningConfidence}
		next.Stats[beat.Word] = st
	}

	delta := 0
	if res.Correct {
		delta += 15
		if st.Streak > 0 {
			delta += min(10, st.Streak*2)
		}
		st.Streak++
	} else {
		delta -= 15
		st.Streak = 0
	}
	delta -= min(15, res.Errors*5)
	delta -= min(9, res.HintsUsed*3)
	switch {
	case res.TimeSpentMs < 10000:
		delta += 5
	case res.TimeSpentMs > 30000:
		delta -= 5
	}

	st.Confidence = clamp(st.Confidence+delta, 0, 100)
	st.Rounds++
	st.Errors += res.Errors
	st.Hints += res.HintsUsed
	st.TimeMs += res.TimeSpentMs

	rec := practice.AttemptRecord{
		Word:        beat.Word,
		Correct:     res.Correct,
		Attempts:    res.Errors + 1,
		DurationMs:  res.TimeSpentMs,
		HintsUsed:   res.HintsUsed,
		MechanicID:  beat.MechanicID,
		CompletedAt: m.clock(),
	}
	next.Attempts = append(next.Attempts, rec)

	if m.attempts != nil {
		if err := m.attempts.AppendAttempt(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record attempt: %v\n", err)
		}
	}
}

func (m *Machine) markIntroSeen(ctx context.Context) {
	if m.intro == nil {
		return
	}
	if err := m.intro.MarkIntroSeen(ctx, m.listID); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to mark intro seen: %v\n", err)
	}
}

// reset is the full STORY_RESET: tracker back to intro with counters
// zeroed, fresh session context.
func (m *Machine) reset(ctx context.Context) {
	m.tracker.Reset(ctx)
	m.initialize(nil)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
