package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"spellquest/internal/practice"
	"spellquest/internal/story"
)

// maxTries is how many wrong submissions end a round as incorrect.
const maxTries = 3

// Model is the root Bubble Tea model for a narrative session. It owns
// the orchestrator and translates key input into dispatched events.
type Model struct {
	machine  *story.Machine
	registry *practice.Registry
	input    textinput.Model
	clock    func() time.Time

	width  int
	height int

	// per-round state, reset each time a game beat starts
	roundStart  time.Time
	roundErrors int
	roundHints  int
	hintLetters int
	typing      bool
	tiles       string

	// pending holds a finished round while the feedback view is up. The
	// GAME_COMPLETED event is only dispatched once the learner moves on.
	pending     *story.GameResult
	pendingWord string

	choiceSel   int
	gateOpensAt time.Time
	quitting    bool
}

// New builds the session model around an already-initialized machine.
func New(machine *story.Machine, registry *practice.Registry) Model {
	ti := textinput.New()
	ti.Placeholder = "Spell the word..."
	ti.CharLimit = 32
	ti.Focus()

	m := Model{
		machine:  machine,
		registry: registry,
		input:    ti,
		clock:    time.Now,
	}
	m.maybeStartRound()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.input.Focus(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.machine.State() == story.StatePlayingGame && m.pending == nil {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	ctx := context.Background()

	if m.pending != nil {
		// Feedback view: any key moves the story along.
		result := m.pending
		m.pending = nil
		m.dispatch(ctx, story.Event{Type: story.EventGameCompleted, Result: result})
		return m.afterDispatch()
	}

	switch m.machine.State() {
	case story.StateShowingIntro:
		switch key {
		case "enter":
			m.dispatch(ctx, story.Event{Type: story.EventStartStory})
			return m.afterDispatch()
		case "s":
			m.dispatch(ctx, story.Event{Type: story.EventSkipIntro})
			return m.afterDispatch()
		case "q":
			m.quitting = true
			return m, tea.Quit
		}

	case story.StateShowingNarrative:
		if key == "enter" || key == " " {
			m.dispatch(ctx, story.Event{Type: story.EventNarrativeSeen})
			return m.afterDispatch()
		}

	case story.StatePresentingChoice:
		beat := m.machine.Context().CurrentBeat()
		if beat == nil {
			return m, nil
		}
		switch key {
		case "up", "k", "down", "j", "tab":
			m.choiceSel = 1 - m.choiceSel
		case "1":
			m.choiceSel = 0
		case "2":
			m.choiceSel = 1
		case "enter":
			m.dispatch(ctx, story.Event{
				Type:     story.EventChoiceMade,
				OptionID: beat.Options[m.choiceSel].ID,
			})
			return m.afterDispatch()
		}
		return m, nil

	case story.StatePlayingGame:
		switch key {
		case "enter":
			m.submitSpelling()
			return m, nil
		case "tab":
			m.takeHint()
			return m, nil
		default:
			m.typing = true
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

	case story.StateShowingCheckpoint:
		switch key {
		case "enter":
			if m.machine.CanContinue() {
				m.dispatch(ctx, story.Event{Type: story.EventContinueStory})
				return m.afterDispatch()
			}
		case "s":
			m.dispatch(ctx, story.Event{Type: story.EventSkipCheckpoint})
			return m.afterDispatch()
		}

	case story.StateFinale:
		switch key {
		case "r":
			m.dispatch(ctx, story.Event{Type: story.EventRestartStory})
			return m.afterDispatch()
		case "n":
			m.dispatch(ctx, story.Event{Type: story.EventTryNewWords})
			m.quitting = true
			return m, tea.Quit
		case "q", "enter":
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) dispatch(ctx context.Context, ev story.Event) {
	m.machine.Dispatch(ctx, ev)
}

// afterDispatch re-primes round state when the machine has landed on a
// new beat.
func (m Model) afterDispatch() (tea.Model, tea.Cmd) {
	m.choiceSel = 0
	m.maybeStartRound()
	if m.machine.State() == story.StateShowingCheckpoint && m.gateOpensAt.IsZero() {
		m.gateOpensAt = m.clock().Add(5 * time.Second)
	}
	if m.machine.State() != story.StateShowingCheckpoint {
		m.gateOpensAt = time.Time{}
	}
	return m, nil
}

func (m *Model) maybeStartRound() {
	if m.machine.State() != story.StatePlayingGame {
		return
	}
	beat := m.machine.Context().CurrentBeat()
	if beat == nil {
		return
	}
	m.roundStart = m.clock()
	m.roundErrors = 0
	m.roundHints = 0
	m.hintLetters = 0
	m.typing = false
	m.tiles = shuffleLetters(beat.Word)
	m.input.SetValue("")
}

func (m *Model) submitSpelling() {
	beat := m.machine.Context().CurrentBeat()
	if beat == nil {
		return
	}
	guess := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if guess == "" {
		return
	}
	target := strings.ToLower(beat.Word)

	if guess == target {
		m.finishRound(true, beat.Word)
		return
	}

	m.roundErrors++
	m.input.SetValue("")
	if m.roundErrors >= maxTries {
		m.finishRound(false, beat.Word)
	}
}

func (m *Model) finishRound(correct bool, word string) {
	elapsed := int(m.clock().Sub(m.roundStart).Milliseconds())
	m.pending = &story.GameResult{
		Correct:     correct,
		TimeSpentMs: elapsed,
		HintsUsed:   m.roundHints,
		Errors:      m.roundErrors,
	}
	m.pendingWord = word
}

func (m *Model) takeHint() {
	beat := m.machine.Context().CurrentBeat()
	if beat == nil {
		return
	}
	if m.hintLetters < len(beat.Word) {
		m.hintLetters++
		m.roundHints++
	}
}

// shuffleLetters returns the word's letters in a random order, for the
// letter-tiles mechanic. A two-letter word is reversed so the tiles
// never spell the answer outright.
func shuffleLetters(word string) string {
	letters := []rune(strings.ToLower(word))
	if len(letters) < 3 {
		for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
			letters[i], letters[j] = letters[j], letters[i]
		}
		return string(letters)
	}
	shuffled := string(letters)
	for shuffled == strings.ToLower(word) {
		rand.Shuffle(len(letters), func(i, j int) {
			letters[i], letters[j] = letters[j], letters[i]
		})
		shuffled = string(letters)
	}
	return shuffled
}

// gateRemaining reports whole seconds until the checkpoint gate opens.
func (m Model) gateRemaining() int {
	if m.gateOpensAt.IsZero() {
		return 0
	}
	left := m.gateOpensAt.Sub(m.clock())
	if left <= 0 {
		return 0
	}
	return int(left.Seconds()) + 1
}

func (m Model) elapsedSeconds() int {
	if m.roundStart.IsZero() {
		return 0
	}
	return int(m.clock().Sub(m.roundStart).Seconds())
}

// Run starts the Bubble Tea program and blocks until the session ends.
func Run(machine *story.Machine, registry *practice.Registry) error {
	p := tea.NewProgram(New(machine, registry))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run session: %w", err)
	}
	return nil
}
