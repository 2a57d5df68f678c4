// Package mcpserver exposes the course graph as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/abhisek/pathways/internal/careers"
	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/progression"
	"github.com/abhisek/pathways/internal/search"
	"github.com/abhisek/pathways/internal/store"
)

// Tools holds what the tool handlers query.
type Tools struct {
	Store   store.Reader
	Careers *careers.Mapping
	Logger  *zap.Logger
}

// New creates an MCP server with every tool registered.
func New(t *Tools, version string) *mcp.Server {
	if t.Careers == nil {
		t.Careers = careers.NewMapping(nil)
	}
	if t.Logger == nil {
		t.Logger = zap.NewNop()
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "pathways",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_courses",
		Description: "List courses, optionally filtered by level, provider and subject area",
	}, t.ListCourses)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "course_routes",
		Description: "Show a course and the courses it leads to (forward) or that lead to it (backward)",
	}, t.CourseRoutes)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_courses",
		Description: "Search courses by name/provider (mode courses) or by knowledge, skills and careers (mode skills)",
	}, t.SearchCourses)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "career_link",
		Description: "Resolve a career pathway job title to its National Careers Service profile",
	}, t.CareerLink)

	return srv
}

// Serve runs the server over stdio until the client disconnects or ctx
// ends.
func Serve(ctx context.Context, srv *mcp.Server) error {
	return srv.Run(ctx, &mcp.StdioTransport{})
}

type ListCoursesInput struct {
	Level    int    `json:"level,omitempty" jsonschema:"Only courses at this level (3-7)"`
	Provider string `json:"provider,omitempty" jsonschema:"Only courses from this provider"`
	Subject  string `json:"subject,omitempty" jsonschema:"Only courses in this subject area"`
}

type CourseRoutesInput struct {
	CourseID  int    `json:"course_id" jsonschema:"Course id"`
	Direction string `json:"direction,omitempty" jsonschema:"forward (default) or backward"`
}

type SearchCoursesInput struct {
	Query         string `json:"query" jsonschema:"Search text"`
	Mode          string `json:"mode,omitempty" jsonschema:"courses (default) or skills"`
	MinConfidence int    `json:"min_confidence,omitempty" jsonschema:"Skills mode only: minimum overall KSB confidence (0-10)"`
}

type CareerLinkInput struct {
	JobTitle string `json:"job_title" jsonschema:"Career pathway role, e.g. Electrician"`
}

// RoutesOutput is the course_routes result.
type RoutesOutput struct {
	Course    catalog.Course  `json:"course"`
	Direction string          `json:"direction"`
	Routes    []catalog.Route `json:"routes"`
}

func (t *Tools) ListCourses(ctx context.Context, _ *mcp.CallToolRequest, input ListCoursesInput) (*mcp.CallToolResult, any, error) {
	courses, err := t.Store.Courses(ctx)
	if err != nil {
		return t.toolError("Failed to list courses: %v", err), nil, nil
	}
	f := search.Filters{Level: input.Level, Provider: input.Provider, Subject: input.Subject}
	return toolJSON(search.Apply(courses, f, nil))
}

func (t *Tools) CourseRoutes(ctx context.Context, _ *mcp.CallToolRequest, input CourseRoutesInput) (*mcp.CallToolResult, any, error) {
	dir := progression.Forward
	if input.Direction != "" {
		d, err := progression.ParseDirection(input.Direction)
		if err != nil {
			return t.toolError("%v", err), nil, nil
		}
		dir = d
	}

	course, err := t.Store.Course(ctx, input.CourseID)
	if errors.Is(err, store.ErrNotFound) {
		return t.toolError("Course %d not found", input.CourseID), nil, nil
	}
	if err != nil {
		return t.toolError("Failed to load course: %v", err), nil, nil
	}

	query := t.Store.Outgoing
	if dir == progression.Backward {
		query = t.Store.Incoming
	}
	routes, err := query(ctx, input.CourseID)
	if err != nil {
		return t.toolError("Failed to load routes: %v", err), nil, nil
	}
	return toolJSON(RoutesOutput{Course: course, Direction: string(dir), Routes: routes})
}

func (t *Tools) SearchCourses(ctx context.Context, _ *mcp.CallToolRequest, input SearchCoursesInput) (*mcp.CallToolResult, any, error) {
	mode := search.ModeCourses
	if input.Mode != "" {
		m, err := search.ParseMode(input.Mode)
		if err != nil {
			return t.toolError("%v", err), nil, nil
		}
		mode = m
	}

	courses, err := t.Store.Courses(ctx)
	if err != nil {
		return t.toolError("Failed to list courses: %v", err), nil, nil
	}
	records, err := t.Store.KSB(ctx)
	if err != nil {
		t.Logger.Warn("searching without enrichment", zap.Error(err))
		records = nil
	}

	opts := search.DefaultOptions()
	opts.MinConfidence = input.MinConfidence
	results := search.Run(courses, input.Query, mode, search.Index(records), opts)
	if results == nil {
		results = []search.Result{}
	}
	return toolJSON(results)
}

func (t *Tools) CareerLink(_ context.Context, _ *mcp.CallToolRequest, input CareerLinkInput) (*mcp.CallToolResult, any, error) {
	if input.JobTitle == "" {
		return t.toolError("job_title is required"), nil, nil
	}
	return toolJSON(t.Careers.Resolve(input.JobTitle))
}

func (t *Tools) toolError(format string, args ...any) *mcp.CallToolResult {
	msg := fmt.Sprintf(format, args...)
	t.Logger.Debug("tool error", zap.String("message", msg))
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
