package progression

import (
	"fmt"
	"slices"
	"sort"

	"github.com/abhisek/pathways/internal/catalog"
)

// Direction selects which side of a course's adjacency to traverse.
type Direction string

const (
	Forward  Direction = "forward"  // Where this course leads
	Backward Direction = "backward" // What leads to this course
)

// ParseDirection maps user input onto a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Forward, "":
		return Forward, nil
	case Backward:
		return Backward, nil
	default:
		return "", fmt.Errorf("unknown direction %q (want forward or backward)", s)
	}
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Backward {
		return Forward
	}
	return Backward
}

// Label returns the question the direction answers in the UI.
func (d Direction) Label() string {
	if d == Backward {
		return "How do I get to this course?"
	}
	return "Where can I go from here?"
}

// Graph is an immutable in-memory course graph with adjacency indices.
// It is built once after load and only read afterwards.
type Graph struct {
	courses     []catalog.Course
	connections []catalog.Connection
	byID        map[int]int
	outgoing    map[int][]int
	incoming    map[int][]int
}

// NewGraph indexes courses and connections. Connections are kept even
// when an endpoint is unknown; queries simply skip them.
func NewGraph(courses []catalog.Course, connections []catalog.Connection) *Graph {
	g := &Graph{
		courses:     slices.Clone(courses),
		connections: slices.Clone(connections),
		byID:        make(map[int]int, len(courses)),
		outgoing:    make(map[int][]int),
		incoming:    make(map[int][]int),
	}

	for i, c := range g.courses {
		g.byID[c.ID] = i
	}

	// Connection ids ascending keeps query output stable.
	sort.SliceStable(g.connections, func(i, j int) bool {
		return g.connections[i].ID < g.connections[j].ID
	})
	for i, conn := range g.connections {
		g.outgoing[conn.FromCourseID] = append(g.outgoing[conn.FromCourseID], i)
		g.incoming[conn.ToCourseID] = append(g.incoming[conn.ToCourseID], i)
	}

	return g
}

// Course returns the course with the given id.
func (g *Graph) Course(id int) (catalog.Course, bool) {
	i, ok := g.byID[id]
	if !ok {
		return catalog.Course{}, false
	}
	return g.courses[i], true
}

// Has reports whether the course id exists in the graph.
func (g *Graph) Has(id int) bool {
	_, ok := g.byID[id]
	return ok
}

// Courses returns all courses in load order.
func (g *Graph) Courses() []catalog.Course {
	return slices.Clone(g.courses)
}

// Connections returns all connections ordered by id.
func (g *Graph) Connections() []catalog.Connection {
	return slices.Clone(g.connections)
}

// Outgoing returns the connections leaving id, each paired with its target.
func (g *Graph) Outgoing(id int) []catalog.Route {
	return g.routes(g.outgoing[id], func(c catalog.Connection) int { return c.ToCourseID })
}

// Incoming returns the connections arriving at id, each paired with its source.
func (g *Graph) Incoming(id int) []catalog.Route {
	return g.routes(g.incoming[id], func(c catalog.Connection) int { return c.FromCourseID })
}

// Neighbors returns Outgoing for Forward and Incoming for Backward.
func (g *Graph) Neighbors(id int, dir Direction) []catalog.Route {
	if dir == Backward {
		return g.Incoming(id)
	}
	return g.Outgoing(id)
}

// Degree returns the number of outgoing and incoming edges of id.
func (g *Graph) Degree(id int) (out, in int) {
	return len(g.outgoing[id]), len(g.incoming[id])
}

func (g *Graph) routes(idx []int, other func(catalog.Connection) int) []catalog.Route {
	result := make([]catalog.Route, 0, len(idx))
	for _, i := range idx {
		conn := g.connections[i]
		course, ok := g.Course(other(conn))
		if !ok {
			continue
		}
		result = append(result, catalog.Route{Connection: conn, Course: course})
	}
	return result
}

// Providers returns the distinct providers in first-seen order.
func (g *Graph) Providers() []string {
	return distinct(g.courses, func(c catalog.Course) string { return c.Provider })
}

// Subjects returns the distinct non-empty subject areas in first-seen order.
func (g *Graph) Subjects() []string {
	return distinct(g.courses, func(c catalog.Course) string { return c.SubjectArea })
}

// Levels returns the distinct levels in ascending order.
func (g *Graph) Levels() []int {
	seen := make(map[int]bool)
	var levels []int
	for _, c := range g.courses {
		if !seen[c.Level] {
			seen[c.Level] = true
			levels = append(levels, c.Level)
		}
	}
	sort.Ints(levels)
	return levels
}

func distinct(courses []catalog.Course, key func(catalog.Course) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range courses {
		k := key(c)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Validate checks the graph for structural issues.
func (g *Graph) Validate() error {
	return ValidateConnections(g.courses, g.connections)
}
