// Package explorer holds the client-side graph mirror and the navigation
// state machine: selection, direction, history, wishlist, filters and the
// current search. It is independent of any UI and is driven from a single
// goroutine.
package explorer

import (
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/progression"
	"github.com/abhisek/pathways/internal/search"
)

// EventKind says which part of the state changed.
type EventKind int

const (
	DataLoaded EventKind = iota
	SelectionChanged
	DirectionChanged
	WishlistChanged
	FiltersChanged
	DetailChanged
)

func (k EventKind) String() string {
	switch k {
	case DataLoaded:
		return "data-loaded"
	case SelectionChanged:
		return "selection"
	case DirectionChanged:
		return "direction"
	case WishlistChanged:
		return "wishlist"
	case FiltersChanged:
		return "filters"
	case DetailChanged:
		return "detail"
	}
	return "unknown"
}

// Event notifies subscribers of a state change. CourseID is set for
// selection, wishlist and detail events.
type Event struct {
	Kind     EventKind
	CourseID int
}

// Config wires a State's collaborators.
type Config struct {
	Wishlist      WishlistStore
	SearchOptions search.Options
	Logger        *zap.Logger
}

// State is the client graph state container.
type State struct {
	graph *progression.Graph
	ksb   map[int]catalog.KSB

	selected    int
	hasSelected bool
	direction   progression.Direction
	history     History
	wishlist    *Wishlist

	filters    search.Filters
	query      string
	mode       search.Mode
	searchOpts search.Options

	detailSeq uint64
	detail    *Detail

	subscribers map[int]func(Event)
	nextSub     int
	logger      *zap.Logger
}

// New returns an empty State looking forward with no selection.
func New(cfg Config) *State {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := cfg.SearchOptions
	if opts.Categories == nil && opts.Fuzzy == nil {
		opts = search.DefaultOptions()
	}
	return &State{
		graph:       progression.NewGraph(nil, nil),
		ksb:         map[int]catalog.KSB{},
		direction:   progression.Forward,
		wishlist:    NewWishlist(cfg.Wishlist),
		mode:        search.ModeCourses,
		searchOpts:  opts,
		subscribers: make(map[int]func(Event)),
		logger:      logger,
	}
}

// SetData replaces the mirror. A selection whose course no longer exists
// is cleared.
func (s *State) SetData(courses []catalog.Course, connections []catalog.Connection, ksb []catalog.KSB) {
	s.graph = progression.NewGraph(courses, connections)
	s.ksb = search.Index(ksb)
	if err := s.graph.Validate(); err != nil {
		s.logger.Warn("course graph has integrity problems", zap.Error(err))
	}
	if s.hasSelected && !s.graph.Has(s.selected) {
		s.hasSelected = false
		s.detail = nil
	}
	s.emit(Event{Kind: DataLoaded})
}

// Graph returns the in-memory course graph.
func (s *State) Graph() *progression.Graph {
	return s.graph
}

// KSB returns the enrichment for a course, if any.
func (s *State) KSB(courseID int) (catalog.KSB, bool) {
	k, ok := s.ksb[courseID]
	return k, ok
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it.
func (s *State) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() { delete(s.subscribers, id) }
}

func (s *State) emit(e Event) {
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subscribers[i]; ok {
			fn(e)
		}
	}
}

// SelectOption adjusts a single SelectCourse call.
type SelectOption func(*selectConfig)

type selectConfig struct {
	record bool
}

// WithoutHistory selects without touching the history stack.
func WithoutHistory() SelectOption {
	return func(c *selectConfig) { c.record = false }
}

// SelectCourse selects a course. Unknown ids are ignored and return false
// with the state untouched. Unless WithoutHistory is given the visit is
// pushed onto the history.
func (s *State) SelectCourse(id int, opts ...SelectOption) bool {
	cfg := selectConfig{record: true}
	for _, o := range opts {
		o(&cfg)
	}

	if !s.graph.Has(id) {
		s.logger.Debug("ignoring selection of unknown course", zap.Int("courseID", id))
		return false
	}
	if cfg.record {
		s.history.Push(id)
	}

	changed := !s.hasSelected || s.selected != id
	s.selected = id
	s.hasSelected = true
	if changed {
		s.detail = nil
		s.emit(Event{Kind: SelectionChanged, CourseID: id})
	}
	return true
}

// Selected returns the selected course.
func (s *State) Selected() (catalog.Course, bool) {
	if !s.hasSelected {
		return catalog.Course{}, false
	}
	return s.graph.Course(s.selected)
}

// SelectedID returns the selected course id.
func (s *State) SelectedID() (int, bool) {
	return s.selected, s.hasSelected
}

// CloseDetails clears the selection. History is kept.
func (s *State) CloseDetails() {
	if !s.hasSelected {
		return
	}
	s.hasSelected = false
	s.detail = nil
	s.emit(Event{Kind: SelectionChanged})
}

// GoBack re-selects the previous history entry. It returns false when
// already at the start.
func (s *State) GoBack() bool {
	return s.move(s.history.Back, s.history.Forward)
}

// GoForward re-selects the next history entry. It returns false when
// already at the tip.
func (s *State) GoForward() bool {
	return s.move(s.history.Forward, s.history.Back)
}

func (s *State) move(step, undo func() (int, bool)) bool {
	id, ok := step()
	if !ok {
		return false
	}
	if !s.SelectCourse(id, WithoutHistory()) {
		undo()
		return false
	}
	return true
}

// CanGoBack reports whether GoBack would move.
func (s *State) CanGoBack() bool { return s.history.CanBack() }

// CanGoForward reports whether GoForward would move.
func (s *State) CanGoForward() bool { return s.history.CanForward() }

// History returns the visit stack and the pointer into it.
func (s *State) History() (entries []int, pointer int) {
	return s.history.Entries(), s.history.Pointer()
}

// Direction returns the traversal direction of the neighbourhood view.
func (s *State) Direction() progression.Direction {
	return s.direction
}

// SetDirection changes the traversal direction. History is not affected.
func (s *State) SetDirection(d progression.Direction) {
	if d != progression.Backward {
		d = progression.Forward
	}
	if d == s.direction {
		return
	}
	s.direction = d
	s.emit(Event{Kind: DirectionChanged, CourseID: s.selected})
}

// ToggleDirection flips between forward and backward.
func (s *State) ToggleDirection() {
	s.SetDirection(s.direction.Opposite())
}

// Neighbors returns the selected course's routes in the current direction.
func (s *State) Neighbors() []catalog.Route {
	if !s.hasSelected {
		return nil
	}
	return s.graph.Neighbors(s.selected, s.direction)
}

// ToggleWishlist flips the course's wishlist membership and persists it.
// It returns the new membership. Persistence failures are logged; the
// in-memory wishlist still changes.
func (s *State) ToggleWishlist(id int) bool {
	in, err := s.wishlist.Toggle(id)
	if err != nil {
		s.logger.Warn("persist wishlist", zap.Int("courseID", id), zap.Error(err))
	}
	s.emit(Event{Kind: WishlistChanged, CourseID: id})
	return in
}

// InWishlist reports wishlist membership.
func (s *State) InWishlist(id int) bool {
	return s.wishlist.Has(id)
}

// WishlistCount returns the number of saved courses.
func (s *State) WishlistCount() int {
	return s.wishlist.Len()
}

// Wishlist returns the saved course ids in ascending order.
func (s *State) Wishlist() []int {
	return s.wishlist.IDs()
}

// Filters returns the active attribute filters.
func (s *State) Filters() search.Filters {
	return s.filters
}

// SetFilters replaces the attribute filters.
func (s *State) SetFilters(f search.Filters) {
	if f == s.filters {
		return
	}
	s.filters = f
	s.emit(Event{Kind: FiltersChanged})
}

// ClearFilters resets level, provider and subject. The wishlist-only
// toggle is kept.
func (s *State) ClearFilters() {
	s.SetFilters(search.Filters{WishlistOnly: s.filters.WishlistOnly})
}

// SetWishlistOnly restricts the list to the wishlist.
func (s *State) SetWishlistOnly(on bool) {
	f := s.filters
	f.WishlistOnly = on
	s.SetFilters(f)
}

// Query returns the current search text and mode.
func (s *State) Query() (string, search.Mode) {
	return s.query, s.mode
}

// SetQuery sets the search text and mode.
func (s *State) SetQuery(query string, mode search.Mode) {
	if query == s.query && mode == s.mode {
		return
	}
	s.query = query
	s.mode = mode
	s.emit(Event{Kind: FiltersChanged})
}

// Results narrows the course list by the filters and then ranks what is
// left against the query.
func (s *State) Results() []search.Result {
	narrowed := search.Apply(s.graph.Courses(), s.filters, s.wishlist.Has)
	return search.Run(narrowed, s.query, s.mode, s.ksb, s.searchOpts)
}
