// Package browse is the searchable, filterable course list.
package browse

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/explorer"
	"github.com/abhisek/pathways/internal/prefs"
	"github.com/abhisek/pathways/internal/router"
	"github.com/abhisek/pathways/internal/screen"
	"github.com/abhisek/pathways/internal/screens/course"
	"github.com/abhisek/pathways/internal/search"
	"github.com/abhisek/pathways/internal/ui/components"
	"github.com/abhisek/pathways/internal/ui/layout"
	"github.com/abhisek/pathways/internal/ui/theme"
)

const maxQueryLen = 200

// Options wires the screen to the client state.
type Options struct {
	State    *explorer.State
	Source   explorer.Source
	Prefs    *prefs.Store
	Logger   *zap.Logger
	Debounce time.Duration
	// Timeout bounds each detail fetch made by the course screen.
	Timeout time.Duration
}

type pickerKind int

const (
	pickLevel pickerKind = iota
	pickProvider
	pickSubject
)

// queryMsg fires when the debounce period for a typed query ends.
type queryMsg struct {
	gen   uint64
	query string
}

// Screen lists courses grouped by level, or ranked when a query is set.
type Screen struct {
	opts      Options
	input     components.SearchInput
	debouncer *search.Debouncer
	gen       uint64

	rows   []row
	ranked bool
	count  int
	cursor int
	offset int
	dirty  bool

	picker     *components.Picker
	pickerKind pickerKind

	filtersCollapsed bool
	unsubscribe      func()
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.InputCapturer = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates the browse screen. It subscribes to the state and rebuilds
// its rows lazily after data, filter or wishlist changes.
func New(opts Options) *Screen {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.Memory()
	}
	s := &Screen{
		opts:             opts,
		input:            components.NewSearchInput("Search courses, skills or careers", maxQueryLen),
		debouncer:        search.NewDebouncer(opts.Debounce),
		dirty:            true,
		filtersCollapsed: opts.Prefs.Bool(prefs.KeyFiltersCollapsed, false),
	}
	if q, _ := opts.State.Query(); q != "" {
		s.input.SetValue(q)
	}
	s.unsubscribe = opts.State.Subscribe(func(e explorer.Event) {
		switch e.Kind {
		case explorer.DataLoaded, explorer.FiltersChanged, explorer.WishlistChanged:
			s.dirty = true
		}
	})
	return s
}

func (s *Screen) Init() tea.Cmd {
	s.dirty = true
	return nil
}

func (s *Screen) Title() string {
	return "Courses"
}

// Capturing reports whether keys are going to the search box or a picker.
func (s *Screen) Capturing() bool {
	return s.input.Focused() || s.picker != nil
}

// Close stops listening to the state.
func (s *Screen) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.picker != nil {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if s.input.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Ctrl+T", Description: "Mode"},
			{Key: "Esc", Description: "Stop typing"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Search"},
		{Key: "s", Description: "Mode"},
		{Key: "l/p/u", Description: "Filter"},
	}
	if s.opts.State.Filters().Active() {
		hints = append(hints, layout.KeyHint{Key: "x", Description: "Clear"})
	}
	return append(hints,
		layout.KeyHint{Key: "v", Description: "Saved only"},
		layout.KeyHint{Key: "w", Description: "Save"},
		layout.KeyHint{Key: "F", Description: "Fold filters"},
		layout.KeyHint{Key: "q", Description: "Quit"},
	)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case queryMsg:
		if s.debouncer.Current(msg.gen) {
			_, mode := s.opts.State.Query()
			s.opts.State.SetQuery(msg.query, mode)
		}
		return s, nil

	case tea.KeyPressMsg:
		if s.picker != nil {
			return s, s.updatePicker(msg)
		}
		if s.input.Focused() {
			return s, s.updateInput(msg)
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) updateInput(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter", "down":
		s.input.Blur()
		return s.commitQuery()
	case "ctrl+t":
		s.toggleMode()
		return nil
	}

	var (
		cmd     tea.Cmd
		changed bool
	)
	s.input, cmd, changed = s.input.Update(msg)
	if !changed {
		return cmd
	}
	s.gen = s.debouncer.Next()
	gen, query := s.gen, s.input.Value()
	return tea.Batch(cmd, tea.Tick(s.debouncer.Delay(), func(time.Time) tea.Msg {
		return queryMsg{gen: gen, query: query}
	}))
}

// commitQuery applies the typed text at once, superseding any pending
// debounced query.
func (s *Screen) commitQuery() tea.Cmd {
	s.gen = s.debouncer.Next()
	_, mode := s.opts.State.Query()
	s.opts.State.SetQuery(s.input.Value(), mode)
	return nil
}

func (s *Screen) toggleMode() {
	q, mode := s.opts.State.Query()
	if s.input.Value() != q {
		q = s.input.Value()
		s.gen = s.debouncer.Next()
	}
	s.opts.State.SetQuery(q, mode.Toggle())
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	s.refresh()
	state := s.opts.State
	switch msg.String() {
	case "up", "k":
		s.moveCursor(-1)
	case "down", "j":
		s.moveCursor(1)
	case "pgup":
		s.moveCursor(-10)
	case "pgdown":
		s.moveCursor(10)
	case "/":
		return s.input.Focus()
	case "s", "ctrl+t":
		s.toggleMode()
	case "l":
		s.openPicker(pickLevel)
	case "p":
		s.openPicker(pickProvider)
	case "u":
		s.openPicker(pickSubject)
	case "x":
		state.ClearFilters()
	case "v":
		state.SetWishlistOnly(!state.Filters().WishlistOnly)
	case "F":
		s.filtersCollapsed = !s.filtersCollapsed
		if err := s.opts.Prefs.Set(prefs.KeyFiltersCollapsed, s.filtersCollapsed); err != nil {
			s.opts.Logger.Warn("persist filter panel state", zap.Error(err))
		}
	case "w":
		if id, ok := s.currentCourseID(); ok {
			state.ToggleWishlist(id)
		}
	case "esc":
		if q, mode := state.Query(); q != "" {
			s.input.SetValue("")
			s.gen = s.debouncer.Next()
			state.SetQuery("", mode)
		}
	case "enter":
		return s.openCourse()
	}
	return nil
}

func (s *Screen) openCourse() tea.Cmd {
	id, ok := s.currentCourseID()
	if !ok || !s.opts.State.SelectCourse(id) {
		return nil
	}
	next := course.New(course.Options{
		State:   s.opts.State,
		Source:  s.opts.Source,
		Prefs:   s.opts.Prefs,
		Logger:  s.opts.Logger,
		Timeout: s.opts.Timeout,
	})
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (s *Screen) openPicker(kind pickerKind) {
	g := s.opts.State.Graph()
	f := s.opts.State.Filters()

	var (
		title   string
		options = []string{"All"}
		current = "All"
	)
	switch kind {
	case pickLevel:
		title = "Level"
		for _, l := range g.Levels() {
			options = append(options, "Level "+strconv.Itoa(l))
		}
		if f.Level != 0 {
			current = "Level " + strconv.Itoa(f.Level)
		}
	case pickProvider:
		title = "Provider"
		providers := slices.Clone(g.Providers())
		slices.Sort(providers)
		options = append(options, providers...)
		if f.Provider != "" {
			current = f.Provider
		}
	case pickSubject:
		title = "Subject"
		subjects := slices.Clone(g.Subjects())
		slices.Sort(subjects)
		options = append(options, subjects...)
		if f.Subject != "" {
			current = f.Subject
		}
	}
	p := components.NewPicker(title, options, current)
	s.picker = &p
	s.pickerKind = kind
}

func (s *Screen) updatePicker(msg tea.KeyPressMsg) tea.Cmd {
	p, cmd := s.picker.Update(msg)
	s.picker = &p
	if !p.Done {
		return cmd
	}
	s.picker = nil
	if p.Cancelled {
		return cmd
	}

	f := s.opts.State.Filters()
	value := p.Value()
	if value == "All" {
		value = ""
	}
	switch s.pickerKind {
	case pickLevel:
		f.Level = 0
		if value != "" {
			f.Level, _ = strconv.Atoi(strings.TrimPrefix(value, "Level "))
		}
	case pickProvider:
		f.Provider = value
	case pickSubject:
		f.Subject = value
	}
	s.opts.State.SetFilters(f)
	return cmd
}

// refresh rebuilds the rows from the state, keeping the cursor on the
// same course when it is still listed.
func (s *Screen) refresh() {
	if !s.dirty {
		return
	}
	s.dirty = false

	prev, hadPrev := s.currentCourseID()
	q, _ := s.opts.State.Query()
	results := s.opts.State.Results()
	s.ranked = search.Normalize(q) != ""
	s.rows = buildRows(results, s.ranked)
	s.count = len(results)

	s.cursor = -1
	for i, r := range s.rows {
		if r.kind != rowCourse {
			continue
		}
		if s.cursor < 0 {
			s.cursor = i
		}
		if hadPrev && r.result.Course.ID == prev {
			s.cursor = i
			break
		}
	}
	if s.cursor < 0 {
		s.cursor = 0
		s.offset = 0
	}
}

func (s *Screen) currentCourseID() (int, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].kind != rowCourse {
		return 0, false
	}
	return s.rows[s.cursor].result.Course.ID, true
}

// moveCursor moves by delta course rows, skipping level headers.
func (s *Screen) moveCursor(delta int) {
	s.refresh()
	step := 1
	if delta < 0 {
		step = -1
		delta = -delta
	}
	for ; delta > 0; delta-- {
		next := s.cursor + step
		for next >= 0 && next < len(s.rows) && s.rows[next].kind != rowCourse {
			next += step
		}
		if next < 0 || next >= len(s.rows) {
			return
		}
		s.cursor = next
	}
}

// rowHeight is two lines for ranked rows carrying reasons.
func (s *Screen) rowHeight(r row) int {
	if s.ranked && r.kind == rowCourse && len(r.result.Reasons) > 0 {
		return 2
	}
	return 1
}

func (s *Screen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	top := s.cursor
	for top > 0 && s.rows[top-1].kind == rowLevelHeader {
		top--
	}
	if top < s.offset {
		s.offset = top
	}
	for {
		used := 0
		for i := s.offset; i <= s.cursor && i < len(s.rows); i++ {
			used += s.rowHeight(s.rows[i])
		}
		if used <= height || s.offset >= s.cursor {
			return
		}
		s.offset++
	}
}

func (s *Screen) View(width, height int) string {
	s.refresh()

	var top []string
	q, mode := s.opts.State.Query()
	top = append(top, "  "+s.input.View(string(mode)))
	top = append(top, "  "+s.filterLine())
	top = append(top, "  "+theme.Dim.Render(s.countLine(q)), "")

	listHeight := height - len(top)
	body := s.listView(width, listHeight)
	if s.picker != nil {
		body = lipgloss.NewStyle().PaddingLeft(2).Render(s.picker.View(listHeight))
	}
	return strings.Join(top, "\n") + "\n" + body
}

func (s *Screen) filterLine() string {
	f := s.opts.State.Filters()
	if s.filtersCollapsed {
		n := 0
		for _, on := range []bool{f.Level != 0, f.Provider != "", f.Subject != "", f.WishlistOnly} {
			if on {
				n++
			}
		}
		return theme.Hint.Render(fmt.Sprintf("Filters (%d active) · F to expand", n))
	}

	level := "Level: All"
	if f.Level != 0 {
		level = "Level: " + strconv.Itoa(f.Level)
	}
	provider := "Provider: All"
	if f.Provider != "" {
		provider = "Provider: " + f.Provider
	}
	subject := "Subject: All"
	if f.Subject != "" {
		subject = "Subject: " + f.Subject
	}
	return strings.Join([]string{
		components.Chip(level, f.Level != 0),
		components.Chip(provider, f.Provider != ""),
		components.Chip(subject, f.Subject != ""),
		components.Chip("♥ Saved only", f.WishlistOnly),
	}, " ")
}

func (s *Screen) countLine(q string) string {
	switch {
	case s.ranked:
		return fmt.Sprintf("%d matches for %q", s.count, q)
	case s.count == 1:
		return "1 course"
	default:
		return fmt.Sprintf("%d courses", s.count)
	}
}

func (s *Screen) emptyMessage() string {
	f := s.opts.State.Filters()
	switch {
	case len(s.opts.State.Graph().Courses()) == 0:
		return "No courses loaded. Run `pathways load` to import course data."
	case f.WishlistOnly:
		return "No saved courses yet. Press w on a course to save it."
	case s.ranked:
		return "No courses match your search."
	default:
		return "No courses match the current filters."
	}
}

func (s *Screen) listView(width, height int) string {
	if len(s.rows) == 0 {
		return "  " + theme.Dim.Render(s.emptyMessage())
	}
	s.adjustScroll(height)

	var lines []string
	for i := s.offset; i < len(s.rows) && len(lines) < height; i++ {
		r := s.rows[i]
		switch r.kind {
		case rowLevelHeader:
			lines = append(lines, renderLevelHeader(r.level, width))
		case rowCourse:
			saved := s.opts.State.InWishlist(r.result.Course.ID)
			lines = append(lines, renderCourseRow(r, i == s.cursor, saved, s.ranked, width))
			if s.rowHeight(r) == 2 && len(lines) < height {
				lines = append(lines, renderReasons(r.result.Reasons, width))
			}
		}
	}
	return strings.Join(lines, "\n")
}
