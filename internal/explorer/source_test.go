package explorer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/catalog"
)

type fakeSource struct {
	courses  []catalog.Course
	conns    []catalog.Connection
	ksb      []catalog.KSB
	failOn   string
	outgoing map[int][]catalog.Route
}

func (f *fakeSource) fail(op string) error {
	if f.failOn == op {
		return errors.New(op + " unavailable")
	}
	return nil
}

func (f *fakeSource) Courses(context.Context) ([]catalog.Course, error) {
	return f.courses, f.fail("courses")
}

func (f *fakeSource) Connections(context.Context) ([]catalog.Connection, error) {
	return f.conns, f.fail("connections")
}

func (f *fakeSource) KSB(context.Context) ([]catalog.KSB, error) {
	if err := f.fail("ksb"); err != nil {
		return nil, err
	}
	return f.ksb, nil
}

func (f *fakeSource) Outgoing(_ context.Context, id int) ([]catalog.Route, error) {
	return f.outgoing[id], f.fail("outgoing")
}

func (f *fakeSource) Incoming(context.Context, int) ([]catalog.Route, error) {
	return nil, f.fail("incoming")
}

func (f *fakeSource) CareerLink(_ context.Context, title string) (careers.Link, error) {
	return careers.Link{JobTitle: title}, nil
}

func newFakeSource() *fakeSource {
	a := catalog.Course{ID: 1, Name: "A", Provider: "P", Level: 3}
	b := catalog.Course{ID: 2, Name: "B", Provider: "P", Level: 5}
	conn := catalog.Connection{ID: 1, FromCourseID: 1, ToCourseID: 2, Notes: "via X"}
	return &fakeSource{
		courses:  []catalog.Course{a, b},
		conns:    []catalog.Connection{conn},
		ksb:      []catalog.KSB{{CourseID: 1, OverallConfidence: 6}},
		outgoing: map[int][]catalog.Route{1: {{Connection: conn, Course: b}}},
	}
}

func TestLoad(t *testing.T) {
	s := New(Config{})
	var loaded bool
	s.Subscribe(func(e Event) { loaded = loaded || e.Kind == DataLoaded })

	require.NoError(t, Load(context.Background(), newFakeSource(), s))
	assert.True(t, loaded)
	assert.Len(t, s.Graph().Courses(), 2)
	k, ok := s.KSB(1)
	require.True(t, ok)
	assert.Equal(t, 6, k.OverallConfidence)
}

func TestLoad_KSBFailureDegrades(t *testing.T) {
	src := newFakeSource()
	src.failOn = "ksb"
	s := New(Config{})

	require.NoError(t, Load(context.Background(), src, s))
	_, ok := s.KSB(1)
	assert.False(t, ok)
	assert.Len(t, s.Graph().Courses(), 2)
}

func TestLoad_CoursesFailure(t *testing.T) {
	src := newFakeSource()
	src.failOn = "connections"
	err := Load(context.Background(), src, New(Config{}))
	assert.ErrorContains(t, err, "load connections")
}

func TestDetail_StaleResponseDiscarded(t *testing.T) {
	src := newFakeSource()
	s := New(Config{})
	require.NoError(t, Load(context.Background(), src, s))

	s.SelectCourse(1)
	first, ok := s.BeginDetail()
	require.True(t, ok)

	s.SelectCourse(2)
	second, _ := s.BeginDetail()

	// The slow response for course 1 arrives after course 2 was selected.
	assert.False(t, s.ApplyDetail(FetchDetail(context.Background(), src, first)))
	_, loading, ok := s.Detail()
	require.True(t, ok)
	assert.True(t, loading)

	assert.True(t, s.ApplyDetail(FetchDetail(context.Background(), src, second)))
	d, loading, _ := s.Detail()
	assert.False(t, loading)
	assert.Equal(t, 2, d.Ticket.CourseID)
	assert.NotNil(t, d.Outgoing)
	assert.Empty(t, d.Outgoing)
}

func TestDetail_OlderTicketForSameCourseDiscarded(t *testing.T) {
	src := newFakeSource()
	s := New(Config{})
	require.NoError(t, Load(context.Background(), src, s))

	s.SelectCourse(1)
	old, _ := s.BeginDetail()
	latest, _ := s.BeginDetail()

	assert.False(t, s.ApplyDetail(Detail{Ticket: old}))
	assert.True(t, s.ApplyDetail(FetchDetail(context.Background(), src, latest)))

	d, _, _ := s.Detail()
	require.Len(t, d.Outgoing, 1)
	assert.Equal(t, "via X", d.Outgoing[0].Connection.Notes)
}

func TestDetail_FailureRecorded(t *testing.T) {
	src := newFakeSource()
	s := New(Config{})
	require.NoError(t, Load(context.Background(), src, s))
	s.SelectCourse(1)
	tk, _ := s.BeginDetail()

	src.failOn = "incoming"
	require.True(t, s.ApplyDetail(FetchDetail(context.Background(), src, tk)))

	d, _, _ := s.Detail()
	assert.True(t, d.Failed())
	assert.Empty(t, d.Outgoing)
	assert.Empty(t, d.Incoming)
}

func TestDetail_NoSelection(t *testing.T) {
	s := New(Config{})
	_, ok := s.BeginDetail()
	assert.False(t, ok)
}

func TestLocalSource_CareerLinkWithoutMapping(t *testing.T) {
	l := &LocalSource{}
	link, err := l.CareerLink(context.Background(), "Electrician")
	require.NoError(t, err)
	assert.False(t, link.HasMapping)
}
