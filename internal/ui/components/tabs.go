package components

import (
	"strings"

	"github.com/abhisek/pathways/internal/ui/theme"
)

// Tabs is a horizontal tab strip.
type Tabs struct {
	Labels []string
	Active int
}

// Next activates the following tab, wrapping around.
func (t *Tabs) Next() {
	if len(t.Labels) > 0 {
		t.Active = (t.Active + 1) % len(t.Labels)
	}
}

// Prev activates the preceding tab, wrapping around.
func (t *Tabs) Prev() {
	if len(t.Labels) > 0 {
		t.Active = (t.Active - 1 + len(t.Labels)) % len(t.Labels)
	}
}

// View renders the strip.
func (t Tabs) View() string {
	parts := make([]string, len(t.Labels))
	for i, l := range t.Labels {
		if i == t.Active {
			parts[i] = theme.TabActive.Render(l)
		} else {
			parts[i] = theme.TabInactive.Render(l)
		}
	}
	return strings.Join(parts, " ")
}

// Chip renders a small on/off label, used for active filters.
func Chip(label string, on bool) string {
	if on {
		return theme.ChipActive.Render(label)
	}
	return theme.ChipInactive.Render(label)
}
