// Package app is the root Bubble Tea model of the terminal explorer.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/explorer"
	"github.com/abhisek/pathways/internal/prefs"
	"github.com/abhisek/pathways/internal/router"
	"github.com/abhisek/pathways/internal/screen"
	"github.com/abhisek/pathways/internal/screens/browse"
	"github.com/abhisek/pathways/internal/screens/loading"
	"github.com/abhisek/pathways/internal/ui/layout"
)

// Options wires the explorer to its data and preferences.
type Options struct {
	State    *explorer.State
	Source   explorer.Source
	Prefs    *prefs.Store
	Logger   *zap.Logger
	Debounce time.Duration
	Timeout  time.Duration
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	state  *explorer.State
	width  int
	height int
}

// newAppModel starts on the loading screen, which hands over to browse.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	load := func(ctx context.Context) error {
		return explorer.Load(ctx, opts.Source, opts.State)
	}
	next := func() screen.Screen {
		return browse.New(browse.Options{
			State:    opts.State,
			Source:   opts.Source,
			Prefs:    opts.Prefs,
			Logger:   opts.Logger,
			Debounce: opts.Debounce,
			Timeout:  opts.Timeout,
		})
	}
	return AppModel{
		router: router.New(loading.New(load, next, opts.Timeout)),
		state:  opts.State,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.Capturing()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.Close()
			return m, tea.Quit
		case "q":
			if !m.capturing() {
				m.router.Close()
				return m, tea.Quit
			}
		case "esc":
			if m.router.Depth() > 1 && !m.capturing() {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.state.WishlistCount(), m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
