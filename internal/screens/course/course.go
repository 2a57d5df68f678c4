// Package course shows one course with its progression neighbourhood,
// route list and KSB enrichment.
package course

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/explorer"
	"github.com/abhisek/pathways/internal/prefs"
	"github.com/abhisek/pathways/internal/progression"
	"github.com/abhisek/pathways/internal/render"
	"github.com/abhisek/pathways/internal/screen"
	"github.com/abhisek/pathways/internal/ui/components"
	"github.com/abhisek/pathways/internal/ui/layout"
	"github.com/abhisek/pathways/internal/ui/theme"
)

// DefaultTimeout bounds a detail or career link fetch.
const DefaultTimeout = 10 * time.Second

const (
	tabRoutes = iota
	tabSkills
)

// Options wires the screen to the client state.
type Options struct {
	State   *explorer.State
	Source  explorer.Source
	Prefs   *prefs.Store
	Logger  *zap.Logger
	Timeout time.Duration
}

type detailMsg struct {
	detail explorer.Detail
}

type careerLinkMsg struct {
	title string
	link  careers.Link
	err   error
}

// Screen is the detail view of the selected course.
type Screen struct {
	opts     Options
	renderer *render.Renderer
	tabs     components.Tabs
	menu     components.Menu
	routes   []catalog.Route

	expanded     bool
	skillsOffset int

	links       map[string]careers.Link
	linkPending map[string]bool

	menuDirty   bool
	unsubscribe func()
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates a detail screen for the state's selected course.
func New(opts Options) *Screen {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.Memory()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	s := &Screen{
		opts:        opts,
		renderer:    render.NewRenderer(opts.State, layout.MinWidth),
		tabs:        components.Tabs{Labels: []string{"Progression", "Skills & careers"}},
		expanded:    opts.Prefs.Bool(prefs.KeyDetailsExpanded, false),
		links:       make(map[string]careers.Link),
		linkPending: make(map[string]bool),
		menuDirty:   true,
	}
	s.unsubscribe = opts.State.Subscribe(func(e explorer.Event) {
		switch e.Kind {
		case explorer.SelectionChanged, explorer.DirectionChanged, explorer.DetailChanged, explorer.DataLoaded:
			s.menuDirty = true
		}
	})
	return s
}

func (s *Screen) Init() tea.Cmd {
	if _, loading, ok := s.opts.State.Detail(); ok && !loading {
		return s.fetchCareerLinks()
	}
	return tea.Batch(s.fetchDetail(), s.fetchCareerLinks())
}

func (s *Screen) Title() string {
	if c, ok := s.opts.State.Selected(); ok {
		return c.Name
	}
	return "Course"
}

// Close releases the renderer and clears the selection.
func (s *Screen) Close() {
	s.renderer.Close()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.opts.State.CloseDetails()
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Switch tab"}}
	if s.tabs.Active == tabRoutes {
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Routes"},
			layout.KeyHint{Key: "Enter", Description: "Follow"},
			layout.KeyHint{Key: "f", Description: "Flip direction"},
		)
	} else {
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Scroll"})
	}
	if s.opts.State.CanGoBack() {
		hints = append(hints, layout.KeyHint{Key: "b", Description: "Back"})
	}
	if s.opts.State.CanGoForward() {
		hints = append(hints, layout.KeyHint{Key: "n", Description: "Forward"})
	}
	return append(hints,
		layout.KeyHint{Key: "w", Description: "Save"},
		layout.KeyHint{Key: "d", Description: "Details"},
		layout.KeyHint{Key: "Esc", Description: "Close"},
	)
}

// fetchDetail starts a ticketed route fetch for the selected course.
func (s *Screen) fetchDetail() tea.Cmd {
	ticket, ok := s.opts.State.BeginDetail()
	if !ok || s.opts.Source == nil {
		return nil
	}
	src, timeout := s.opts.Source, s.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return detailMsg{detail: explorer.FetchDetail(ctx, src, ticket)}
	}
}

// fetchCareerLinks resolves every career role of the selected course not
// resolved or in flight yet.
func (s *Screen) fetchCareerLinks() tea.Cmd {
	id, ok := s.opts.State.SelectedID()
	if !ok || s.opts.Source == nil {
		return nil
	}
	k, ok := s.opts.State.KSB(id)
	if !ok {
		return nil
	}

	var cmds []tea.Cmd
	for _, c := range k.CareerPathways {
		title := c.Role
		if title == "" || s.linkPending[title] {
			continue
		}
		if _, done := s.links[title]; done {
			continue
		}
		s.linkPending[title] = true
		src, timeout := s.opts.Source, s.opts.Timeout
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			link, err := src.CareerLink(ctx, title)
			return careerLinkMsg{title: title, link: link, err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case detailMsg:
		s.opts.State.ApplyDetail(msg.detail)
		return s, nil

	case careerLinkMsg:
		delete(s.linkPending, msg.title)
		if msg.err != nil {
			s.opts.Logger.Debug("career link lookup failed",
				zap.String("jobTitle", msg.title), zap.Error(msg.err))
			return s, nil
		}
		s.links[msg.title] = msg.link
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	state := s.opts.State
	switch msg.String() {
	case "tab":
		s.tabs.Next()
		s.skillsOffset = 0
	case "shift+tab":
		s.tabs.Prev()
		s.skillsOffset = 0
	case "up", "k":
		if s.tabs.Active == tabRoutes {
			s.syncMenu()
			s.menu.Move(-1)
		} else if s.skillsOffset > 0 {
			s.skillsOffset--
		}
	case "down", "j":
		if s.tabs.Active == tabRoutes {
			s.syncMenu()
			s.menu.Move(1)
		} else {
			s.skillsOffset++
		}
	case "f":
		state.ToggleDirection()
	case "enter":
		if s.tabs.Active != tabRoutes {
			return nil
		}
		s.syncMenu()
		if i := s.menu.Current(); i >= 0 && i < len(s.routes) {
			return s.navigate(func() bool { return state.SelectCourse(s.routes[i].Course.ID) })
		}
	case "b":
		return s.navigate(state.GoBack)
	case "n":
		return s.navigate(state.GoForward)
	case "w":
		if id, ok := state.SelectedID(); ok {
			state.ToggleWishlist(id)
		}
	case "d":
		s.expanded = !s.expanded
		if err := s.opts.Prefs.Set(prefs.KeyDetailsExpanded, s.expanded); err != nil {
			s.opts.Logger.Warn("persist details panel state", zap.Error(err))
		}
	}
	return nil
}

// navigate runs a selection change and, when it moved, fetches the new
// course's routes.
func (s *Screen) navigate(move func() bool) tea.Cmd {
	before, _ := s.opts.State.SelectedID()
	if !move() {
		return nil
	}
	if after, _ := s.opts.State.SelectedID(); after == before {
		return nil
	}
	s.skillsOffset = 0
	return tea.Batch(s.fetchDetail(), s.fetchCareerLinks())
}

// syncMenu rebuilds the route menu from the fetched detail in the current
// direction.
func (s *Screen) syncMenu() {
	if !s.menuDirty {
		return
	}
	s.menuDirty = false

	s.routes = nil
	if d, loading, ok := s.opts.State.Detail(); ok && !loading && !d.Failed() {
		if s.opts.State.Direction() == progression.Backward {
			s.routes = d.Incoming
		} else {
			s.routes = d.Outgoing
		}
	}

	items := make([]components.MenuItem, len(s.routes))
	for i, r := range s.routes {
		notes := r.Connection.Notes
		if notes == "" {
			notes = render.FallbackEdgeLabel
		}
		items[i] = components.MenuItem{
			Label:  r.Course.Name,
			Detail: fmt.Sprintf("L%d · %s · %s", r.Course.Level, render.ShortProvider(r.Course.Provider), notes),
			Style:  lipgloss.NewStyle().Foreground(theme.LevelColor(r.Course.Level)),
		}
	}
	s.menu = components.NewMenu(items)
}

func (s *Screen) View(width, height int) string {
	c, ok := s.opts.State.Selected()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Dim.Render("No course selected"))
	}
	s.syncMenu()

	var b strings.Builder
	b.WriteString(s.header(c, width))
	b.WriteString("\n")
	b.WriteString("  " + s.tabs.View())
	b.WriteString("\n\n")

	used := lipgloss.Height(b.String())
	var body string
	if s.tabs.Active == tabRoutes {
		body = s.routesView(width, height-used)
	} else {
		body = s.skillsView(c.ID, width, height-used)
	}
	b.WriteString(body)

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

func (s *Screen) header(c catalog.Course, width int) string {
	var b strings.Builder

	name := theme.Title.Render("  " + c.Name)
	if s.opts.State.InWishlist(c.ID) {
		name += "  " + theme.Saved.Render("♥ saved")
	}
	b.WriteString(name + "\n")

	meta := []string{c.Provider, fmt.Sprintf("Level %d", c.Level)}
	if c.SubjectArea != "" {
		meta = append(meta, c.SubjectArea)
	}
	if g := s.opts.State.Graph(); g != nil {
		out, in := g.Degree(c.ID)
		meta = append(meta, fmt.Sprintf("%d onward · %d prior", out, in))
	}
	b.WriteString(theme.Dim.Render("  "+strings.Join(meta, " · ")) + "\n")

	entries, pointer := s.opts.State.History()
	if len(entries) > 1 {
		back, fwd := "◀ b", "n ▶"
		if !s.opts.State.CanGoBack() {
			back = theme.Dim.Render(back)
		}
		if !s.opts.State.CanGoForward() {
			fwd = theme.Dim.Render(fwd)
		}
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  %s  %d/%d  %s", back, pointer+1, len(entries), fwd)) + "\n")
	}

	if s.expanded {
		body := lipgloss.NewStyle().Foreground(theme.Text).Width(min(width-4, 90)).PaddingLeft(2)
		if c.Description != "" {
			b.WriteString(body.Render(c.Description) + "\n")
		}
		if c.QualificationType != "" {
			b.WriteString(theme.Dim.Render("  Qualification: ") + c.QualificationType + "\n")
		}
		if c.URL != "" {
			b.WriteString(theme.Dim.Render("  Course page:   ") + c.URL + "\n")
		}
	}
	return b.String()
}

func (s *Screen) routesView(width, height int) string {
	dir := s.opts.State.Direction()

	var b strings.Builder
	b.WriteString(theme.Section.Render("  "+dir.Label()) + theme.Hint.Render("  (f to flip)") + "\n\n")

	s.renderer.SetWidth(width - 2)
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.renderer.View()) + "\n\n")

	d, loading, ok := s.opts.State.Detail()
	switch {
	case !ok || loading:
		b.WriteString("  " + theme.Dim.Render("Loading progression routes…"))
	case d.Failed():
		b.WriteString("  " + theme.ErrorText.Render(d.Err))
	case len(s.routes) == 0:
		b.WriteString("  " + theme.Dim.Render(render.EmptyMessage(dir)))
	default:
		b.WriteString(theme.Section.Render(fmt.Sprintf("  Routes (%d)", len(s.routes))) + "\n")
		rows := max(height-lipgloss.Height(b.String()), 3)
		b.WriteString(s.menu.View(width, rows))
	}
	return b.String()
}
