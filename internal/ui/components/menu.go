package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathways/internal/ui/theme"
)

// MenuItem is one selectable row.
type MenuItem struct {
	Label  string
	Detail string
	// Style renders the label when not selected. The zero style is plain.
	Style    lipgloss.Style
	Disabled bool
}

// Menu is a vertical, scrollable selection list.
type Menu struct {
	Items    []MenuItem
	Selected int
	offset   int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

// Update moves the selection on up/down (and k/j).
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch kmsg.String() {
	case "up", "k":
		m.Move(-1)
	case "down", "j":
		m.Move(1)
	}
	return m, nil
}

// Move shifts the selection by delta, skipping disabled items.
func (m *Menu) Move(delta int) {
	for i := m.Selected + delta; i >= 0 && i < len(m.Items); i += delta {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// Current returns the selected index, or -1 for an empty menu.
func (m Menu) Current() int {
	if len(m.Items) == 0 {
		return -1
	}
	return m.Selected
}

// View renders at most height rows, scrolled to keep the selection
// visible. Details render dimmed after the label.
func (m *Menu) View(width, height int) string {
	if len(m.Items) == 0 || height <= 0 {
		return ""
	}
	if m.Selected < m.offset {
		m.offset = m.Selected
	}
	if m.Selected >= m.offset+height {
		m.offset = m.Selected - height + 1
	}

	var lines []string
	for i := m.offset; i < len(m.Items) && i < m.offset+height; i++ {
		item := m.Items[i]
		label := truncate(item.Label, width-4)
		detail := ""
		if room := width - 4 - lipgloss.Width(label) - 2; item.Detail != "" && room > 3 {
			detail = "  " + theme.Dim.Render(truncate(item.Detail, room))
		}
		switch {
		case i == m.Selected:
			lines = append(lines, theme.Selected.Render("  ▸ "+label)+detail)
		case item.Disabled:
			lines = append(lines, theme.Dim.Render("    "+label)+detail)
		default:
			lines = append(lines, "    "+item.Style.Render(label)+detail)
		}
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to width cells, ending in an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
