package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathways/internal/ui/layout"
)

// Screen is one page of the terminal client.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen and command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens holding subscriptions. The router
// calls Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// InputCapturer is implemented by screens that can be typing into a text
// field. While Capturing is true the app leaves printable keys to the
// screen.
type InputCapturer interface {
	Capturing() bool
}
