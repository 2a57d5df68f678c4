// Package loading shows the splash screen while the course graph loads
// and hands over to the browse screen once it has.
package loading

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathways/internal/router"
	"github.com/abhisek/pathways/internal/screen"
	"github.com/abhisek/pathways/internal/ui/layout"
	"github.com/abhisek/pathways/internal/ui/theme"
)

const tickInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg time.Time

// doneMsg carries the outcome of the load.
type doneMsg struct {
	err error
}

// LoadFunc fetches the course graph into the client state.
type LoadFunc func(ctx context.Context) error

// Screen runs LoadFunc, animating until it returns.
type Screen struct {
	load        LoadFunc
	nextFactory func() screen.Screen
	timeout     time.Duration

	tickCount    int
	err          error
	transitioned bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a loading screen that replaces itself with next() once
// load succeeds.
func New(load LoadFunc, next func() screen.Screen, timeout time.Duration) *Screen {
	return &Screen{load: load, nextFactory: next, timeout: timeout}
}

func (s *Screen) Title() string {
	return ""
}

func (s *Screen) Init() tea.Cmd {
	if s.transitioned || s.err != nil {
		return nil
	}
	return tea.Batch(s.tick(), s.run())
}

func (s *Screen) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (s *Screen) run() tea.Cmd {
	load, timeout := s.load, s.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return doneMsg{err: load(ctx)}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if s.err != nil || s.transitioned {
			return s, nil
		}
		s.tickCount++
		return s, s.tick()

	case doneMsg:
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		return s, s.transition()

	case tea.KeyPressMsg:
		if s.err != nil && msg.String() == "r" {
			s.err = nil
			return s, tea.Batch(s.tick(), s.run())
		}
	}
	return s, nil
}

func (s *Screen) transition() tea.Cmd {
	if s.transitioned {
		return nil
	}
	s.transitioned = true
	next := s.nextFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// Err returns the load failure, if any.
func (s *Screen) Err() error {
	return s.err
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.err != nil {
		return []layout.KeyHint{
			{Key: "r", Description: "Retry"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (s *Screen) View(width, height int) string {
	sections := []string{RenderBanner(width), ""}

	if s.err != nil {
		sections = append(sections,
			theme.ErrorText.Bold(true).Render("Failed to load courses"),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Width(min(width-4, 70)).Render(s.err.Error()),
			"",
			theme.Hint.Render("press r to retry"),
		)
	} else {
		frame := spinnerFrames[s.tickCount%len(spinnerFrames)]
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.Accent).Render(frame)+" "+
				theme.Body.Render("Loading course progression routes…"),
		)
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
