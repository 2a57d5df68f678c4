package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/search"
	"github.com/abhisek/pathways/internal/store"
)

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	st, err := store.Open("file:" + filepath.Base(t.Name()) + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Replace(context.Background(), catalog.Dataset{
		Courses: []catalog.Course{
			{ID: 1, Name: "Electrical Installation", Provider: "Derby College", Level: 3, SubjectArea: "Engineering"},
			{ID: 2, Name: "HNC Electrical Engineering", Provider: "Derby College", Level: 4, SubjectArea: "Engineering"},
			{ID: 3, Name: "Art and Design", Provider: "Loughborough College", Level: 3, SubjectArea: "Art"},
		},
		Connections: []catalog.Connection{{ID: 1, FromCourseID: 1, ToCourseID: 2, Notes: "via X"}},
		KSB: []catalog.KSB{{
			CourseID:          2,
			OverallConfidence: 8,
			SkillsAreas:       []catalog.KSBItem{{Description: "Circuit design", Confidence: 8}},
		}},
	}))

	srv := New(&Tools{
		Store:   st,
		Careers: careers.NewMapping(map[string]string{"Electrician": "electrician"}),
	}, "test")

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	_, err = srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func call(t *testing.T, s *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := s.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text, res.IsError
}

func TestListTools(t *testing.T) {
	s := connect(t)
	res, err := s.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_courses", "course_routes", "search_courses", "career_link"}, names)
}

func TestListCourses_Filters(t *testing.T) {
	s := connect(t)

	text, isErr := call(t, s, "list_courses", map[string]any{"level": 3})
	require.False(t, isErr)
	var courses []catalog.Course
	require.NoError(t, json.Unmarshal([]byte(text), &courses))
	assert.Len(t, courses, 2)

	text, _ = call(t, s, "list_courses", map[string]any{"subject": "Art"})
	require.NoError(t, json.Unmarshal([]byte(text), &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, 3, courses[0].ID)
}

func TestCourseRoutes(t *testing.T) {
	s := connect(t)

	text, isErr := call(t, s, "course_routes", map[string]any{"course_id": 1})
	require.False(t, isErr)
	var out RoutesOutput
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "forward", out.Direction)
	require.Len(t, out.Routes, 1)
	assert.Equal(t, "via X", out.Routes[0].Connection.Notes)

	text, _ = call(t, s, "course_routes", map[string]any{"course_id": 2, "direction": "backward"})
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	require.Len(t, out.Routes, 1)
	assert.Equal(t, 1, out.Routes[0].Course.ID)

	text, isErr = call(t, s, "course_routes", map[string]any{"course_id": 42})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")

	_, isErr = call(t, s, "course_routes", map[string]any{"course_id": 1, "direction": "sideways"})
	assert.True(t, isErr)
}

func TestSearchCourses(t *testing.T) {
	s := connect(t)

	text, isErr := call(t, s, "search_courses", map[string]any{"query": "circuit", "mode": "skills"})
	require.False(t, isErr)
	var results []search.Result
	require.NoError(t, json.Unmarshal([]byte(text), &results))
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Course.ID)

	text, _ = call(t, s, "search_courses", map[string]any{"query": "derby"})
	require.NoError(t, json.Unmarshal([]byte(text), &results))
	assert.Len(t, results, 2)
}

func TestCareerLink(t *testing.T) {
	s := connect(t)

	text, isErr := call(t, s, "career_link", map[string]any{"job_title": "electrician"})
	require.False(t, isErr)
	var link careers.Link
	require.NoError(t, json.Unmarshal([]byte(text), &link))
	assert.True(t, link.HasMapping)

	_, isErr = call(t, s, "career_link", map[string]any{"job_title": ""})
	assert.True(t, isErr)
}
