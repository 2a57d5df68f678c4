package course

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/explorer"
	"github.com/abhisek/pathways/internal/prefs"
	"github.com/abhisek/pathways/internal/progression"
)

// graphSource answers route queries from an in-memory graph.
type graphSource struct {
	graph   *progression.Graph
	failOn  bool
	careers *careers.Mapping
}

func (g *graphSource) Courses(context.Context) ([]catalog.Course, error) {
	return g.graph.Courses(), nil
}

func (g *graphSource) Connections(context.Context) ([]catalog.Connection, error) {
	return g.graph.Connections(), nil
}

func (g *graphSource) KSB(context.Context) ([]catalog.KSB, error) { return nil, nil }

func (g *graphSource) Outgoing(_ context.Context, id int) ([]catalog.Route, error) {
	if g.failOn {
		return nil, errors.New("connection reset")
	}
	return g.graph.Outgoing(id), nil
}

func (g *graphSource) Incoming(_ context.Context, id int) ([]catalog.Route, error) {
	if g.failOn {
		return nil, errors.New("connection reset")
	}
	return g.graph.Incoming(id), nil
}

func (g *graphSource) CareerLink(_ context.Context, title string) (careers.Link, error) {
	return g.careers.Resolve(title), nil
}

func newTestScreen(t *testing.T) (*Screen, *explorer.State, *graphSource) {
	t.Helper()
	state := explorer.New(explorer.Config{})
	state.SetData(
		[]catalog.Course{
			{ID: 1, Name: "Electrical Installation", Provider: "Derby College", Level: 3},
			{ID: 2, Name: "Electrical Engineering HNC", Provider: "Derby College", Level: 4},
			{ID: 3, Name: "Electrical Engineering BEng", Provider: "University of Derby", Level: 6},
		},
		[]catalog.Connection{
			{ID: 1, FromCourseID: 1, ToCourseID: 2, Notes: "Direct progression"},
			{ID: 2, FromCourseID: 2, ToCourseID: 3},
		},
		[]catalog.KSB{{
			CourseID:          1,
			OverallConfidence: 8,
			SkillsAreas:       []catalog.KSBItem{{Description: "Wiring regulations", Confidence: 9}},
			CareerPathways:    []catalog.Career{{Role: "Electrician", Confidence: 8}},
		}},
	)
	src := &graphSource{
		graph:   state.Graph(),
		careers: careers.NewMapping(map[string]string{"Electrician": "electrician"}),
	}
	require.True(t, state.SelectCourse(1))

	s := New(Options{State: state, Source: src, Prefs: prefs.Memory()})
	t.Cleanup(s.Close)
	return s, state, src
}

func key(text string) tea.KeyPressMsg {
	r := []rune(text)
	return tea.KeyPressMsg{Code: r[0], Text: text}
}

// loadDetail runs the detail fetch synchronously.
func loadDetail(t *testing.T, s *Screen) {
	t.Helper()
	cmd := s.fetchDetail()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestRoutesFromFetchedDetail(t *testing.T) {
	s, _, _ := newTestScreen(t)

	view := s.View(100, 40)
	assert.Contains(t, view, "Loading progression routes")

	loadDetail(t, s)
	view = s.View(100, 40)
	assert.Contains(t, view, "Routes (1)")
	assert.Contains(t, view, "Electrical Engineering HNC")
	assert.Contains(t, view, "Direct progression")
}

func TestFollowRouteRecordsHistory(t *testing.T) {
	s, state, _ := newTestScreen(t)
	loadDetail(t, s)
	s.View(100, 40)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)

	id, _ := state.SelectedID()
	assert.Equal(t, 2, id)
	entries, pointer := state.History()
	assert.Equal(t, []int{1, 2}, entries)
	assert.Equal(t, 1, pointer)

	s.Update(key("b"))
	id, _ = state.SelectedID()
	assert.Equal(t, 1, id)

	s.Update(key("n"))
	id, _ = state.SelectedID()
	assert.Equal(t, 2, id)
}

func TestStaleDetailIsDiscarded(t *testing.T) {
	s, state, _ := newTestScreen(t)

	stale := s.fetchDetail()
	require.True(t, state.SelectCourse(2))
	fresh := s.fetchDetail()

	s.Update(stale())
	_, loading, _ := state.Detail()
	assert.True(t, loading, "stale response must not complete the detail")

	s.Update(fresh())
	d, loading, _ := state.Detail()
	assert.False(t, loading)
	assert.Equal(t, 2, d.Ticket.CourseID)
}

func TestFlipDirectionShowsPrerequisites(t *testing.T) {
	s, state, _ := newTestScreen(t)
	require.True(t, state.SelectCourse(2))
	loadDetail(t, s)

	s.Update(key("f"))
	assert.Equal(t, progression.Backward, state.Direction())

	view := s.View(100, 40)
	assert.Contains(t, view, "How do I get to this course?")
	assert.Contains(t, view, "Electrical Installation")
}

func TestEmptyDirectionMessage(t *testing.T) {
	s, _, _ := newTestScreen(t)
	loadDetail(t, s)
	s.Update(key("f"))
	assert.Contains(t, s.View(100, 40), "No prerequisite courses found")
}

func TestFetchFailureShowsError(t *testing.T) {
	s, _, src := newTestScreen(t)
	src.failOn = true
	loadDetail(t, s)
	assert.Contains(t, s.View(100, 40), "Failed to load progression routes")
}

func TestCloseClearsSelection(t *testing.T) {
	s, state, _ := newTestScreen(t)
	s.Close()
	_, ok := state.SelectedID()
	assert.False(t, ok)

	entries, _ := state.History()
	assert.Equal(t, []int{1}, entries, "history survives closing the detail view")
}

func TestWishlistAndDetailsToggle(t *testing.T) {
	s, state, _ := newTestScreen(t)

	s.Update(key("w"))
	assert.True(t, state.InWishlist(1))
	assert.Contains(t, s.View(100, 40), "♥ saved")

	s.Update(key("d"))
	assert.True(t, s.opts.Prefs.Bool(prefs.KeyDetailsExpanded, false))
}

func TestCareerLinksOnSkillsTab(t *testing.T) {
	s, _, _ := newTestScreen(t)

	cmd := s.fetchCareerLinks()
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.Nil(t, s.fetchCareerLinks(), "resolved titles are not fetched again")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	view := s.View(120, 40)
	assert.Contains(t, view, "Career pathways (1)")
	assert.Contains(t, view, careers.ProfileBaseURL+"electrician")
	assert.Contains(t, view, "Wiring regulations")
}

func TestSkillsTabWithoutEnrichment(t *testing.T) {
	s, state, _ := newTestScreen(t)
	require.True(t, state.SelectCourse(3))
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Contains(t, s.View(100, 40), "No skills or career data")
}

func TestHeaderShowsRouteCounts(t *testing.T) {
	s, state, _ := newTestScreen(t)
	assert.Contains(t, s.View(100, 30), "1 onward · 0 prior")

	require.True(t, state.SelectCourse(2))
	assert.Contains(t, s.View(100, 30), "1 onward · 1 prior")
}

func TestTitleFollowsSelection(t *testing.T) {
	s, state, _ := newTestScreen(t)
	assert.Equal(t, "Electrical Installation", s.Title())
	state.CloseDetails()
	assert.Equal(t, "Course", s.Title())
	assert.True(t, strings.Contains(s.View(80, 20), "No course selected"))
}
