package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathways/internal/ui/theme"
)

// Picker chooses one value from a list. The first option is conventionally
// "All", meaning no filter.
type Picker struct {
	Title    string
	Options  []string
	Selected int
	Done     bool
	// Cancelled is set when the picker was dismissed with esc.
	Cancelled bool
}

// NewPicker creates a picker with current preselected when present.
func NewPicker(title string, options []string, current string) Picker {
	p := Picker{Title: title, Options: options}
	for i, o := range options {
		if o == current {
			p.Selected = i
			break
		}
	}
	return p
}

// Update handles navigation, enter to choose and esc to cancel.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if p.Done {
		return p, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return p, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if p.Selected > 0 {
			p.Selected--
		}
	case "down", "j":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
		}
	case "enter":
		p.Done = true
	case "esc":
		p.Done = true
		p.Cancelled = true
	}
	return p, nil
}

// Value returns the highlighted option.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected]
}

// View renders the picker as a bordered panel.
func (p Picker) View(height int) string {
	rows := max(height-4, 1)
	start := 0
	if p.Selected >= rows {
		start = p.Selected - rows + 1
	}

	s := theme.Section.Render(p.Title) + "\n"
	for i := start; i < len(p.Options) && i < start+rows; i++ {
		if i == p.Selected {
			s += theme.Selected.Render("▸ "+p.Options[i]) + "\n"
		} else {
			s += lipgloss.NewStyle().Foreground(theme.Text).Render("  "+p.Options[i]) + "\n"
		}
	}
	return theme.Panel.Render(s)
}
