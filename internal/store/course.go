package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathways/internal/catalog"
)

var courseColumns = []string{
	"id", "name", "provider", "level",
	"subject_area", "description", "qualification_type", "url",
}

var connectionColumns = []string{"id", "from_course_id", "to_course_id", "notes"}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Courses returns every course ordered by level, provider and name.
func (s *Store) Courses(ctx context.Context) ([]catalog.Course, error) {
	b := builder()
	q, args := b.Select(courseColumns...).
		From(b.Table(coursesTable)).
		OrderBy("level", "provider", "name").
		Query()
	courses, err := s.queryCourses(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// CoursesByLevel returns the courses at one level ordered by provider and name.
func (s *Store) CoursesByLevel(ctx context.Context, level int) ([]catalog.Course, error) {
	b := builder()
	q, args := b.Select(courseColumns...).
		From(b.Table(coursesTable)).
		Where(entsql.EQ("level", level)).
		OrderBy("provider", "name").
		Query()
	courses, err := s.queryCourses(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("list level %d courses: %w", level, err)
	}
	return courses, nil
}

// Course returns a single course or ErrNotFound.
func (s *Store) Course(ctx context.Context, id int) (catalog.Course, error) {
	b := builder()
	q, args := b.Select(courseColumns...).
		From(b.Table(coursesTable)).
		Where(entsql.EQ("id", id)).
		Query()
	var c catalog.Course
	err := s.db.QueryRowContext(ctx, q, args...).Scan(courseDest(&c)...)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Course{}, fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return catalog.Course{}, fmt.Errorf("get course %d: %w", id, err)
	}
	return c, nil
}

// Connections returns every connection ordered by id.
func (s *Store) Connections(ctx context.Context) ([]catalog.Connection, error) {
	b := builder()
	q, args := b.Select(connectionColumns...).
		From(b.Table(connectionsTable)).
		OrderBy("id").
		Query()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	conns := []catalog.Connection{}
	for rows.Next() {
		var c catalog.Connection
		if err := rows.Scan(connectionDest(&c)...); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

// Connection returns one connection with both endpoint courses resolved.
func (s *Store) Connection(ctx context.Context, id int) (catalog.ConnectionDetail, error) {
	b := builder()
	q, args := b.Select(connectionColumns...).
		From(b.Table(connectionsTable)).
		Where(entsql.EQ("id", id)).
		Query()
	var d catalog.ConnectionDetail
	err := s.db.QueryRowContext(ctx, q, args...).Scan(connectionDest(&d.Connection)...)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.ConnectionDetail{}, fmt.Errorf("connection %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return catalog.ConnectionDetail{}, fmt.Errorf("get connection %d: %w", id, err)
	}

	if from, err := s.Course(ctx, d.FromCourseID); err == nil {
		d.FromCourse = &from
	} else if !errors.Is(err, ErrNotFound) {
		return catalog.ConnectionDetail{}, err
	}
	if to, err := s.Course(ctx, d.ToCourseID); err == nil {
		d.ToCourse = &to
	} else if !errors.Is(err, ErrNotFound) {
		return catalog.ConnectionDetail{}, err
	}
	return d, nil
}

// Outgoing returns the connections leaving courseID joined with their
// target courses. An unknown id yields an empty list.
func (s *Store) Outgoing(ctx context.Context, courseID int) ([]catalog.Route, error) {
	routes, err := s.routes(ctx, "from_course_id", "to_course_id", courseID)
	if err != nil {
		return nil, fmt.Errorf("outgoing routes for %d: %w", courseID, err)
	}
	return routes, nil
}

// Incoming returns the connections arriving at courseID joined with their
// source courses. An unknown id yields an empty list.
func (s *Store) Incoming(ctx context.Context, courseID int) ([]catalog.Route, error) {
	routes, err := s.routes(ctx, "to_course_id", "from_course_id", courseID)
	if err != nil {
		return nil, fmt.Errorf("incoming routes for %d: %w", courseID, err)
	}
	return routes, nil
}

func (s *Store) routes(ctx context.Context, matchCol, joinCol string, courseID int) ([]catalog.Route, error) {
	b := builder()
	edge := b.Table(connectionsTable).As("e")
	other := b.Table(coursesTable).As("c")

	cols := make([]string, 0, len(connectionColumns)+len(courseColumns))
	for _, c := range connectionColumns {
		cols = append(cols, edge.C(c))
	}
	for _, c := range courseColumns {
		cols = append(cols, other.C(c))
	}

	q, args := b.Select(cols...).
		From(edge).
		Join(other).
		On(edge.C(joinCol), other.C("id")).
		Where(entsql.EQ(edge.C(matchCol), courseID)).
		OrderBy(edge.C("id")).
		Query()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []catalog.Route{}
	for rows.Next() {
		var r catalog.Route
		dest := append(connectionDest(&r.Connection), courseDest(&r.Course)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

func (s *Store) queryCourses(ctx context.Context, q string, args []any) ([]catalog.Course, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []catalog.Course{}
	for rows.Next() {
		var c catalog.Course
		if err := rows.Scan(courseDest(&c)...); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func courseDest(c *catalog.Course) []any {
	return []any{
		&c.ID, &c.Name, &c.Provider, &c.Level,
		&c.SubjectArea, &c.Description, &c.QualificationType, &c.URL,
	}
}

func connectionDest(c *catalog.Connection) []any {
	return []any{&c.ID, &c.FromCourseID, &c.ToCourseID, &c.Notes}
}

func courseValues(c catalog.Course) []any {
	return []any{
		c.ID, c.Name, c.Provider, c.Level,
		c.SubjectArea, c.Description, c.QualificationType, c.URL,
	}
}

func connectionValues(c catalog.Connection) []any {
	return []any{c.ID, c.FromCourseID, c.ToCourseID, c.Notes}
}
