// Package render maps the one-hop neighbourhood of the selected course
// onto a node/edge scene and draws it for the terminal.
package render

import (
	"strings"

	"github.com/abhisek/pathways/internal/catalog"
	"github.com/abhisek/pathways/internal/progression"
)

// FallbackEdgeLabel labels connections that have no notes.
const FallbackEdgeLabel = "Progression route"

// NeutralColor is used for levels outside the palette.
const NeutralColor = "#CCCCCC"

var levelColors = map[int]string{
	3: "#FF9999",
	4: "#FFCC99",
	5: "#FFFF99",
	6: "#99FF99",
	7: "#99CCFF",
}

// LevelColor returns the palette colour for a course level.
func LevelColor(level int) string {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return NeutralColor
}

// ShortProvider abbreviates the known providers.
func ShortProvider(provider string) string {
	switch {
	case strings.Contains(provider, "Derby College"):
		return "DCG"
	case strings.Contains(provider, "Loughborough College"):
		return "LC"
	case strings.Contains(provider, "University of Derby"):
		return "UoD"
	case strings.Contains(provider, "Loughborough University"):
		return "LU"
	}
	return provider
}

// Node is one course box.
type Node struct {
	ID       int
	Label    string
	Provider string
	Tooltip  string
	Level    int
	Color    string
	Central  bool
	// Rank is 0 for the central node, +1 below it for forward neighbours
	// and -1 above it for backward ones.
	Rank int
	// Slot orders nodes within a rank from left to right.
	Slot int
}

// Edge is one directed connection between two nodes.
type Edge struct {
	ConnectionID int
	From         int
	To           int
	Label        string
}

// Scene is the full set of nodes and edges to draw.
type Scene struct {
	CentralID int
	Direction progression.Direction
	Nodes     []Node
	Edges     []Edge
}

// Empty reports whether there is nothing to draw.
func (s Scene) Empty() bool {
	return len(s.Nodes) == 0
}

// Neighbours returns every node except the central one, in slot order.
func (s Scene) Neighbours() []Node {
	var out []Node
	for _, n := range s.Nodes {
		if !n.Central {
			out = append(out, n)
		}
	}
	return out
}

// Central returns the central node.
func (s Scene) Central() (Node, bool) {
	for _, n := range s.Nodes {
		if n.Central {
			return n, true
		}
	}
	return Node{}, false
}

// EdgeTo returns the edge touching the neighbour with the given id.
func (s Scene) EdgeTo(id int) (Edge, bool) {
	for _, e := range s.Edges {
		if (e.From == id && e.To == s.CentralID) || (e.To == id && e.From == s.CentralID) {
			return e, true
		}
	}
	return Edge{}, false
}

func newNode(c catalog.Course) Node {
	return Node{
		ID:       c.ID,
		Label:    c.Name,
		Provider: ShortProvider(c.Provider),
		Tooltip:  c.Tooltip(),
		Level:    c.Level,
		Color:    LevelColor(c.Level),
	}
}

// Build produces the neighbourhood scene of selectedID in direction dir.
// An unknown id yields an empty scene. A self-loop adds an edge from the
// central node to itself but no second node.
func Build(g *progression.Graph, selectedID int, dir progression.Direction) Scene {
	scene := Scene{CentralID: selectedID, Direction: dir}
	course, ok := g.Course(selectedID)
	if !ok {
		return scene
	}

	central := newNode(course)
	central.Central = true
	scene.Nodes = append(scene.Nodes, central)

	rank := 1
	if dir == progression.Backward {
		rank = -1
	}

	slot := 0
	for _, route := range g.Neighbors(selectedID, dir) {
		label := route.Connection.Notes
		if label == "" {
			label = FallbackEdgeLabel
		}
		edge := Edge{ConnectionID: route.Connection.ID, Label: label}
		if dir == progression.Backward {
			edge.From, edge.To = route.Course.ID, selectedID
		} else {
			edge.From, edge.To = selectedID, route.Course.ID
		}
		scene.Edges = append(scene.Edges, edge)

		if route.Course.ID == selectedID {
			continue
		}
		n := newNode(route.Course)
		n.Rank = rank
		n.Slot = slot
		slot++
		scene.Nodes = append(scene.Nodes, n)
	}
	return scene
}
