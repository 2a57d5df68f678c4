package progression

import (
	"errors"
	"testing"

	"github.com/abhisek/pathways/internal/catalog"
)

func TestValidate_Clean(t *testing.T) {
	courses := []catalog.Course{{ID: 1}, {ID: 2}}
	conns := []catalog.Connection{{ID: 1, FromCourseID: 1, ToCourseID: 2}}
	if err := ValidateConnections(courses, conns); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Dangling(t *testing.T) {
	courses := []catalog.Course{{ID: 1}}
	conns := []catalog.Connection{{ID: 1, FromCourseID: 1, ToCourseID: 7}}
	err := ValidateConnections(courses, conns)
	if !errors.Is(err, ErrDanglingEndpoint) {
		t.Fatalf("got %v, want ErrDanglingEndpoint", err)
	}
}

func TestValidate_DuplicatePair(t *testing.T) {
	courses := []catalog.Course{{ID: 1}, {ID: 2}}
	conns := []catalog.Connection{
		{ID: 1, FromCourseID: 1, ToCourseID: 2},
		{ID: 2, FromCourseID: 1, ToCourseID: 2},
	}
	err := ValidateConnections(courses, conns)
	if !errors.Is(err, ErrDuplicateConnection) {
		t.Fatalf("got %v, want ErrDuplicateConnection", err)
	}
}

func TestValidate_SelfLoopAllowed(t *testing.T) {
	courses := []catalog.Course{{ID: 1}}
	conns := []catalog.Connection{{ID: 1, FromCourseID: 1, ToCourseID: 1}}
	if err := ValidateConnections(courses, conns); err != nil {
		t.Fatalf("self-loop should validate, got %v", err)
	}
}

func TestGraphValidate_ReportsDangling(t *testing.T) {
	if err := sampleGraph().Validate(); !errors.Is(err, ErrDanglingEndpoint) {
		t.Fatalf("got %v, want ErrDanglingEndpoint", err)
	}
}
