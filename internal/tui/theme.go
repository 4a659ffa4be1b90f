package tui

import (
	"charm.land/lipgloss/v2"
)

// Color palette: kid-friendly, bright but not garish
var (
	colorPrimary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	colorSecondary = lipgloss.Color("#14B8A6") // Teal
	colorAccent    = lipgloss.Color("#F97316") // Orange
	colorSuccess   = lipgloss.Color("#22C55E") // Green
	colorError     = lipgloss.Color("#F43F5E") // Rose
	colorText      = lipgloss.Color("#F8FAFC") // White
	colorTextDim   = lipgloss.Color("#94A3B8") // Slate
	colorBorder    = lipgloss.Color("#334155") // Slate
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSubtitle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	styleBody = lipgloss.NewStyle().
			Foreground(colorText)

	styleHint = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true)

	styleWord = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	styleCorrect = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

	styleWrong = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	styleCelebration = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSecondary)

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	styleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Padding(0, 1)
)
