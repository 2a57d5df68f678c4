package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathways/internal/ui/theme"
)

// SearchInput wraps bubbles/textinput as the course search box.
type SearchInput struct {
	Model textinput.Model
}

// NewSearchInput creates an unfocused search box.
func NewSearchInput(placeholder string, maxLen int) SearchInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "⌕ "
	if maxLen > 0 {
		ti.CharLimit = maxLen
	}
	return SearchInput{Model: ti}
}

// Focus starts capturing keys.
func (s *SearchInput) Focus() tea.Cmd {
	return s.Model.Focus()
}

// Blur stops capturing keys.
func (s *SearchInput) Blur() {
	s.Model.Blur()
}

// Focused reports whether the box is capturing keys.
func (s SearchInput) Focused() bool {
	return s.Model.Focused()
}

// Update forwards a message to the text input and reports whether the
// value changed.
func (s SearchInput) Update(msg tea.Msg) (SearchInput, tea.Cmd, bool) {
	before := s.Model.Value()
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd, s.Model.Value() != before
}

// View renders the box with a mode tag.
func (s SearchInput) View(mode string) string {
	tag := lipgloss.NewStyle().Foreground(theme.Accent).Render("[" + mode + "]")
	return tag + " " + s.Model.View()
}

// Value returns the current text.
func (s SearchInput) Value() string {
	return s.Model.Value()
}

// SetValue replaces the text.
func (s *SearchInput) SetValue(v string) {
	s.Model.SetValue(v)
}
