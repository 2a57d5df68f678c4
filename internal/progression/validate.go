package progression

import (
	"errors"
	"fmt"

	"github.com/abhisek/pathways/internal/catalog"
)

// ErrDanglingEndpoint marks a connection that references a missing course.
var ErrDanglingEndpoint = errors.New("connection references nonexistent course")

// ErrDuplicateConnection marks a second edge for an existing (from, to) pair.
var ErrDuplicateConnection = errors.New("duplicate connection")

// ValidateConnections performs all structural checks on a course set and
// its connections. Returns every problem found joined together, or nil.
func ValidateConnections(courses []catalog.Course, connections []catalog.Connection) error {
	var errs []error

	ids := make(map[int]bool, len(courses))
	for _, c := range courses {
		if ids[c.ID] {
			errs = append(errs, fmt.Errorf("duplicate course ID %d", c.ID))
		}
		ids[c.ID] = true
	}

	type pair struct{ from, to int }
	seen := make(map[pair]int, len(connections))
	for _, conn := range connections {
		if !ids[conn.FromCourseID] {
			errs = append(errs, fmt.Errorf("connection %d from %d: %w", conn.ID, conn.FromCourseID, ErrDanglingEndpoint))
		}
		if !ids[conn.ToCourseID] {
			errs = append(errs, fmt.Errorf("connection %d to %d: %w", conn.ID, conn.ToCourseID, ErrDanglingEndpoint))
		}
		p := pair{conn.FromCourseID, conn.ToCourseID}
		if first, dup := seen[p]; dup {
			errs = append(errs, fmt.Errorf("connection %d repeats %d (%d -> %d): %w",
				conn.ID, first, conn.FromCourseID, conn.ToCourseID, ErrDuplicateConnection))
			continue
		}
		seen[p] = conn.ID
	}

	return errors.Join(errs...)
}
