package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"spellquest/internal/practice"
	"spellquest/internal/story"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	var content string
	switch {
	case m.pending != nil:
		content = m.renderFeedback()
	default:
		switch m.machine.State() {
		case story.StateShowingIntro:
			content = m.renderIntro()
		case story.StateShowingNarrative:
			content = m.renderNarrative()
		case story.StatePresentingChoice:
			content = m.renderChoice()
		case story.StatePlayingGame:
			content = m.renderGame()
		case story.StateShowingCheckpoint:
			content = m.renderCheckpoint()
		case story.StateFinale:
			content = m.renderFinale()
		default:
			content = styleSubtitle.Render("Loading...")
		}
	}

	card := styleCard.Width(min(m.width-4, 72)).Render(content)
	footer := styleFooter.Render(m.footerHints())

	frame := lipgloss.JoinVertical(lipgloss.Left, card, footer)
	centered := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame)
	v.SetContent(centered)
	return v
}

func (m Model) footerHints() string {
	if m.pending != nil {
		return "any key: continue"
	}
	switch m.machine.State() {
	case story.StateShowingIntro:
		return "enter: begin  •  s: skip intro  •  q: quit"
	case story.StateShowingNarrative:
		return "enter: continue"
	case story.StatePresentingChoice:
		return "↑↓/1/2: pick  •  enter: choose"
	case story.StatePlayingGame:
		return "enter: submit  •  tab: hint  •  ctrl+c: quit"
	case story.StateShowingCheckpoint:
		if m.machine.CanContinue() {
			return "enter: continue  •  s: skip"
		}
		return fmt.Sprintf("continue in %ds  •  s: skip", m.gateRemaining())
	case story.StateFinale:
		return "r: play again  •  n: new words  •  q: quit"
	}
	return "ctrl+c: quit"
}

func (m Model) renderIntro() string {
	sc := m.machine.Context()
	var b strings.Builder
	b.WriteString(styleTitle.Render("✨ "+titleCase(sc.Theme)) + "\n\n")
	b.WriteString(styleBody.Render("A spelling adventure awaits. Every word you spell moves the story forward.") + "\n\n")
	b.WriteString(styleSubtitle.Render(fmt.Sprintf("%d words on this quest", len(sc.Words))))
	return b.String()
}

func (m Model) renderNarrative() string {
	beat := m.machine.Context().CurrentBeat()
	if beat == nil {
		return ""
	}
	return styleBody.Render(beat.Text)
}

func (m Model) renderChoice() string {
	beat := m.machine.Context().CurrentBeat()
	if beat == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleBody.Render(beat.Question) + "\n\n")
	for i, opt := range beat.Options {
		line := fmt.Sprintf("  %d) %s", i+1, opt.Label)
		if i == m.choiceSel {
			line = styleSelected.Render("▸ " + strings.TrimSpace(line))
		} else {
			line = styleSubtitle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderGame() string {
	beat := m.machine.Context().CurrentBeat()
	if beat == nil {
		return ""
	}
	mech, _ := m.registry.Get(beat.MechanicID)

	var b strings.Builder
	b.WriteString(styleSubtitle.Render(mech.Name) + "\n\n")
	if beat.Text != "" {
		b.WriteString(styleBody.Render(beat.Text) + "\n\n")
	}
	b.WriteString(m.renderWordPrompt(mech, beat.Word) + "\n\n")

	if m.hintLetters > 0 {
		revealed := beat.Word[:m.hintLetters]
		pad := strings.Repeat(" _", len(beat.Word)-m.hintLetters)
		b.WriteString(styleHint.Render("hint: "+revealed+pad) + "\n\n")
	}

	b.WriteString(m.input.View() + "\n\n")

	status := fmt.Sprintf("tries left: %d   time: %ds", maxTries-m.roundErrors, m.elapsedSeconds())
	if m.roundErrors > 0 {
		status = styleWrong.Render("not quite, try again!") + "   " + status
	}
	b.WriteString(styleSubtitle.Render(status))
	return b.String()
}

// renderWordPrompt frames the target word per the mechanic's learning
// style. Visual mechanics flash the word until typing starts; tiles show
// scrambled letters; auditory mechanics lean on the hint system.
func (m Model) renderWordPrompt(mech practice.Mechanic, word string) string {
	switch mech.ID {
	case "letter-tiles":
		tiles := strings.ToUpper(strings.Join(strings.Split(m.tiles, ""), " "))
		return styleWord.Render("[ " + tiles + " ]")
	case "trace-type":
		return styleWord.Render(strings.ToUpper(word)) + "  " + styleHint.Render("copy it carefully")
	}
	if mech.Style == practice.StyleVisual && !m.typing {
		return styleWord.Render(strings.ToUpper(word)) + "  " + styleHint.Render("memorize it, it hides when you type")
	}
	if mech.Style == practice.StyleVisual {
		return styleSubtitle.Render(strings.Repeat("▪ ", len(word)))
	}
	return styleHint.Render(fmt.Sprintf("sound it out: %d letters, starts with %q", len(word), strings.ToUpper(word[:1])))
}

func (m Model) renderFeedback() string {
	var b strings.Builder
	if m.pending.Correct {
		b.WriteString(styleCorrect.Render("✓ Correct!") + "\n\n")
	} else {
		b.WriteString(styleWrong.Render("✗ Not this time.") + "\n\n")
	}
	b.WriteString(styleBody.Render("The word was ") + styleWord.Render(strings.ToUpper(m.pendingWord)) + "\n\n")
	if st, ok := m.machine.Context().Stats[strings.ToLower(m.pendingWord)]; ok {
		b.WriteString(styleSubtitle.Render(fmt.Sprintf("confidence now %d/100", st.Confidence)))
	}
	return b.String()
}

func (m Model) renderCheckpoint() string {
	beat := m.machine.Context().CurrentBeat()
	var b strings.Builder
	title := "Checkpoint!"
	celebration := "You're doing great. Take a breath before the story continues."
	if beat != nil && beat.Kind == story.BeatCheckpoint {
		if beat.Title != "" {
			title = beat.Title
		}
		if beat.Celebration != "" {
			celebration = beat.Celebration
		}
	}
	b.WriteString(styleCelebration.Render("🎉 "+title) + "\n\n")
	b.WriteString(styleBody.Render(celebration))
	return b.String()
}

func (m Model) renderFinale() string {
	sc := m.machine.Context()
	_, snap := m.machine.TrackerState()

	var b strings.Builder
	b.WriteString(styleCelebration.Render("🏆 The End!") + "\n\n")
	b.WriteString(styleBody.Render(fmt.Sprintf("You finished %q after %d rounds.", titleCase(sc.Theme), snap.RoundsCompleted)) + "\n\n")

	words := make([]string, 0, len(sc.Stats))
	for w := range sc.Stats {
		words = append(words, w)
	}
	sort.Strings(words)
	for _, w := range words {
		st := sc.Stats[w]
		marker := styleSubtitle
		if st.Confidence >= 80 {
			marker = styleCorrect
		} else if st.Confidence < 60 {
			marker = styleWrong
		}
		b.WriteString(fmt.Sprintf("  %-14s %s\n", w, marker.Render(fmt.Sprintf("%3d/100", st.Confidence))))
	}
	return b.String()
}

func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
