package progression

import (
	"testing"

	"github.com/abhisek/pathways/internal/catalog"
)

func sampleGraph() *Graph {
	courses := []catalog.Course{
		{ID: 1, Name: "Electrical Installation", Provider: "Derby College", Level: 3, SubjectArea: "Engineering"},
		{ID: 2, Name: "HNC Electrical Engineering", Provider: "Derby College", Level: 4, SubjectArea: "Engineering"},
		{ID: 3, Name: "BEng Electrical Engineering", Provider: "University of Derby", Level: 6, SubjectArea: "Engineering"},
		{ID: 4, Name: "Digital Media", Provider: "Loughborough College", Level: 3, SubjectArea: "Creative"},
	}
	connections := []catalog.Connection{
		{ID: 11, FromCourseID: 2, ToCourseID: 3, Notes: "Top-up year"},
		{ID: 10, FromCourseID: 1, ToCourseID: 2},
		{ID: 12, FromCourseID: 1, ToCourseID: 99},
	}
	return NewGraph(courses, connections)
}

func TestOutgoing(t *testing.T) {
	g := sampleGraph()
	routes := g.Outgoing(1)
	if len(routes) != 1 {
		t.Fatalf("Outgoing(1): got %d routes, want 1 (dangling edge skipped)", len(routes))
	}
	if routes[0].Connection.ID != 10 || routes[0].Course.ID != 2 {
		t.Errorf("Outgoing(1)[0]: got conn %d course %d, want conn 10 course 2",
			routes[0].Connection.ID, routes[0].Course.ID)
	}
}

func TestIncoming(t *testing.T) {
	g := sampleGraph()
	routes := g.Incoming(3)
	if len(routes) != 1 {
		t.Fatalf("Incoming(3): got %d routes, want 1", len(routes))
	}
	if routes[0].Course.ID != 2 {
		t.Errorf("Incoming(3)[0].Course.ID = %d, want 2", routes[0].Course.ID)
	}
	if routes[0].Connection.Notes != "Top-up year" {
		t.Errorf("notes = %q, want %q", routes[0].Connection.Notes, "Top-up year")
	}
}

func TestUnknownCourse_EmptyRoutes(t *testing.T) {
	g := sampleGraph()
	for _, dir := range []Direction{Forward, Backward} {
		if got := g.Neighbors(999, dir); len(got) != 0 {
			t.Errorf("Neighbors(999, %s): got %d routes, want 0", dir, len(got))
		}
	}
}

func TestIsolatedCourse_NoNeighbours(t *testing.T) {
	g := sampleGraph()
	if !g.Has(4) {
		t.Fatal("course 4 should be listed")
	}
	out, in := g.Degree(4)
	if out != 0 || in != 0 {
		t.Errorf("Degree(4) = (%d, %d), want (0, 0)", out, in)
	}
}

func TestNeighbors_Direction(t *testing.T) {
	g := sampleGraph()
	fwd := g.Neighbors(2, Forward)
	back := g.Neighbors(2, Backward)
	if len(fwd) != 1 || fwd[0].Course.ID != 3 {
		t.Errorf("forward from 2: got %+v, want course 3", fwd)
	}
	if len(back) != 1 || back[0].Course.ID != 1 {
		t.Errorf("backward from 2: got %+v, want course 1", back)
	}
}

func TestConnections_OrderedByID(t *testing.T) {
	conns := sampleGraph().Connections()
	for i := 1; i < len(conns); i++ {
		if conns[i].ID < conns[i-1].ID {
			t.Fatalf("connections out of order at %d: %d after %d", i, conns[i].ID, conns[i-1].ID)
		}
	}
}

func TestFacets(t *testing.T) {
	g := sampleGraph()
	if got := g.Levels(); len(got) != 3 || got[0] != 3 || got[2] != 6 {
		t.Errorf("Levels() = %v, want [3 4 6]", got)
	}
	if got := g.Providers(); len(got) != 3 {
		t.Errorf("Providers() = %v, want 3 entries", got)
	}
	if got := g.Subjects(); len(got) != 2 {
		t.Errorf("Subjects() = %v, want 2 entries", got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"forward", Forward, false},
		{"", Forward, false},
		{"backward", Backward, false},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if Forward.Opposite() != Backward || Backward.Opposite() != Forward {
		t.Error("Opposite should flip the direction")
	}
}
