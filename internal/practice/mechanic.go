package practice

// Style is a sensory learning style a mechanic exercises.
type Style string

const (
	StyleVisual      Style = "visual"
	StyleAuditory    Style = "auditory"
	StyleKinesthetic Style = "kinesthetic"
)

// Mechanic describes one spelling mini-game type.
type Mechanic struct {
	ID    string
	Name  string
	Style Style
}

// Registry is an explicit mechanic lookup table. It is passed into the
// detector and game selector rather than living as package-level state, so
// callers (and tests) control exactly which mechanics exist.
type Registry struct {
	mechanics map[string]Mechanic
	order     []string
}

// NewRegistry builds a registry from the given mechanics, preserving order.
func NewRegistry(mechanics ...Mechanic) *Registry {
	r := &Registry{mechanics: make(map[string]Mechanic, len(mechanics))}
	for _, m := range mechanics {
		if _, exists := r.mechanics[m.ID]; exists {
			continue
		}
		r.mechanics[m.ID] = m
		r.order = append(r.order, m.ID)
	}
	return r
}

// Get returns the mechanic for id.
func (r *Registry) Get(id string) (Mechanic, bool) {
	m, ok := r.mechanics[id]
	return m, ok
}

// StyleOf returns the learning style for a mechanic id, or "" if unknown.
func (r *Registry) StyleOf(id string) Style {
	if m, ok := r.mechanics[id]; ok {
		return m.Style
	}
	return ""
}

// IDs returns all mechanic ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ByStyle returns the mechanic ids for one style, in registration order.
func (r *Registry) ByStyle(style Style) []string {
	var out []string
	for _, id := range r.order {
		if r.mechanics[id].Style == style {
			out = append(out, id)
		}
	}
	return out
}

// DefaultRegistry returns the built-in mechanic set.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Mechanic{ID: "word-flash", Name: "Word Flash", Style: StyleVisual},
		Mechanic{ID: "picture-match", Name: "Picture Match", Style: StyleVisual},
		Mechanic{ID: "echo-spell", Name: "Echo Spell", Style: StyleAuditory},
		Mechanic{ID: "sound-it-out", Name: "Sound It Out", Style: StyleAuditory},
		Mechanic{ID: "letter-tiles", Name: "Letter Tiles", Style: StyleKinesthetic},
		Mechanic{ID: "trace-type", Name: "Trace and Type", Style: StyleKinesthetic},
	)
}
