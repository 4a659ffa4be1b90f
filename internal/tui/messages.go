package tui

import "time"

// tickMsg fires once a second while a round timer or checkpoint gate is
// on screen.
type tickMsg time.Time
