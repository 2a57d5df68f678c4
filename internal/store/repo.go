package store

import (
	"context"

	"github.com/abhisek/pathways/internal/catalog"
)

// Reader is the read-only query surface over the course graph.
// *Store implements it; HTTP and MCP handlers depend on this interface.
type Reader interface {
	// Courses returns every course ordered by level, provider and name.
	Courses(ctx context.Context) ([]catalog.Course, error)

	// CoursesByLevel returns the courses at one level.
	CoursesByLevel(ctx context.Context, level int) ([]catalog.Course, error)

	// Course returns a single course or ErrNotFound.
	Course(ctx context.Context, id int) (catalog.Course, error)

	// Connections returns every connection ordered by id.
	Connections(ctx context.Context) ([]catalog.Connection, error)

	// Connection returns one connection with both endpoints or ErrNotFound.
	Connection(ctx context.Context, id int) (catalog.ConnectionDetail, error)

	// Outgoing returns routes leaving the course; unknown ids yield none.
	Outgoing(ctx context.Context, courseID int) ([]catalog.Route, error)

	// Incoming returns routes arriving at the course; unknown ids yield none.
	Incoming(ctx context.Context, courseID int) ([]catalog.Route, error)

	// KSB returns every enrichment record.
	KSB(ctx context.Context) ([]catalog.KSB, error)

	// KSBForCourse returns one course's enrichment or ErrNotFound.
	KSBForCourse(ctx context.Context, courseID int) (catalog.KSB, error)
}

var _ Reader = (*Store)(nil)
