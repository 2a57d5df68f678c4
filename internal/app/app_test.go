package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/explorer"
	"github.com/abhisek/pathways/internal/prefs"
	"github.com/abhisek/pathways/internal/router"
	"github.com/abhisek/pathways/internal/screens/browse"
)

type staticSource struct{}

func (staticSource) Courses(context.Context) ([]catalog.Course, error) {
	return []catalog.Course{{ID: 1, Name: "Electrical Installation", Provider: "Derby College", Level: 3}}, nil
}

func (staticSource) Connections(context.Context) ([]catalog.Connection, error) { return nil, nil }
func (staticSource) KSB(context.Context) ([]catalog.KSB, error) { return nil, nil }
func (staticSource) Outgoing(context.Context, int) ([]catalog.Route, error) { return nil, nil }
func (staticSource) Incoming(context.Context, int) ([]catalog.Route, error) { return nil, nil }
func (staticSource) CareerLink(_ context.Context, title string) (careers.Link, error) {
	return careers.Link{JobTitle: title}, nil
}

func newTestModel(t *testing.T) (AppModel, Options) {
	t.Helper()
	opts := Options{
		State:    explorer.New(explorer.Config{}),
		Source:   staticSource{},
		Prefs:    prefs.Memory(),
		Debounce: time.Millisecond,
		Timeout:  time.Second,
	}
	require.NoError(t, explorer.Load(context.Background(), opts.Source, opts.State))

	m := newAppModel(opts)
	b := browse.New(browse.Options{State: opts.State, Source: opts.Source, Prefs: opts.Prefs, Debounce: time.Millisecond})
	updated, _ := m.Update(router.ReplaceScreenMsg{Screen: b})
	return updated.(AppModel), opts
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestQuitWhenNotTyping(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	assert.True(t, isQuit(cmd))
}

func TestQKeyTypesWhileSearching(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(tea.KeyPressMsg{Code: '/', Text: "/"})
	m = updated.(AppModel)
	require.True(t, m.capturing())

	updated, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	m = updated.(AppModel)
	assert.False(t, isQuit(cmd))
	assert.True(t, m.capturing())
}

func TestEscPopsCourseScreen(t *testing.T) {
	m, opts := newTestModel(t)

	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(AppModel)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(AppModel)
	require.Equal(t, 2, m.router.Depth())

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(AppModel)
	assert.Equal(t, 1, m.router.Depth())

	_, selected := opts.State.SelectedID()
	assert.False(t, selected, "closing the course screen clears the selection")
}

func TestEscAtRootDoesNotPop(t *testing.T) {
	m, _ := newTestModel(t)
	updated, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, updated.(AppModel).router.Depth())
}
