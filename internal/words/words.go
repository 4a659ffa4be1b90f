// Package words defines word lists: the fixed pools a practice session
// draws from.
package words

import (
	"fmt"
	"strings"
)

// List is a named pool of practice words.
type List struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Theme string   `json:"theme"`
	Words []string `json:"words"`
}

// Normalize lowercases and trims every word and drops duplicates and
// blanks, preserving first-seen order.
func (l *List) Normalize() {
	seen := make(map[string]bool, len(l.Words))
	out := l.Words[:0]
	for _, w := range l.Words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	l.Words = out
}

// Validate checks the list is usable for a session.
func (l *List) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("word list has no id")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("word list %s has no name", l.ID)
	}
	if len(l.Words) == 0 {
		return fmt.Errorf("word list %s has no words", l.ID)
	}
	return nil
}

// StarterLists returns the built-in lists seeded on first run.
func StarterLists() []List {
	return []List{
		{
			ID:    "ocean-voyage",
			Name:  "Ocean Voyage",
			Theme: "ocean",
			Words: []string{"ship", "wave", "anchor", "coral", "island", "sailor", "treasure", "dolphin", "harbor", "voyage"},
		},
		{
			ID:    "forest-trail",
			Name:  "Forest Trail",
			Theme: "forest",
			Words: []string{"tree", "leaf", "branch", "squirrel", "meadow", "stream", "feather", "bright", "shadow", "whistle"},
		},
		{
			ID:    "night-sky",
			Name:  "Night Sky",
			Theme: "space",
			Words: []string{"star", "moon", "comet", "planet", "rocket", "galaxy", "orbit", "meteor", "eclipse", "gravity"},
		},
	}
}
