package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/pathways/internal/catalog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + filepath.Base(t.Name()) + "?mode=memory&cache=shared"
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	processed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ds := catalog.Dataset{
		Courses: []catalog.Course{
			{ID: 1, Name: "Electrical Installation", Provider: "Derby College", Level: 3, SubjectArea: "Engineering"},
			{ID: 2, Name: "HNC Electrical Engineering", Provider: "Derby College", Level: 4, SubjectArea: "Engineering"},
			{ID: 3, Name: "BEng Electrical Engineering", Provider: "University of Derby", Level: 6},
			{ID: 4, Name: "Art and Design", Provider: "Loughborough College", Level: 3},
		},
		Connections: []catalog.Connection{
			{ID: 20, FromCourseID: 2, ToCourseID: 3, Notes: "Top-up"},
			{ID: 10, FromCourseID: 1, ToCourseID: 2},
			{ID: 11, FromCourseID: 1, ToCourseID: 3},
		},
		KSB: []catalog.KSB{{
			CourseID:       1,
			KnowledgeAreas: []catalog.KSBItem{{ID: "K1", Description: "Wiring regulations", Confidence: 8}},
			CareerPathways: []catalog.Career{{Role: "Electrician", Level: "3", Confidence: 9}},
			ProcessedDate:  &processed,
		}},
	}
	if err := s.Replace(context.Background(), ds); err != nil {
		t.Fatalf("replace: %v", err)
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"pathways.db", "pathways.db?_pragma=foreign_keys(1)"},
		{"file:x?mode=memory", "file:x?mode=memory&_pragma=foreign_keys(1)"},
		{"file:x?_pragma=foreign_keys(0)", "file:x?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		if got := withForeignKeys(tt.in); got != tt.want {
			t.Errorf("withForeignKeys(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCourses_Ordered(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	courses, err := s.Courses(context.Background())
	if err != nil {
		t.Fatalf("courses: %v", err)
	}
	want := []int{1, 4, 2, 3} // level, then provider, then name
	if len(courses) != len(want) {
		t.Fatalf("got %d courses, want %d", len(courses), len(want))
	}
	for i, id := range want {
		if courses[i].ID != id {
			t.Errorf("courses[%d].ID = %d, want %d", i, courses[i].ID, id)
		}
	}
}

func TestCoursesByLevel(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	courses, err := s.CoursesByLevel(context.Background(), 3)
	if err != nil {
		t.Fatalf("by level: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("got %d level 3 courses, want 2", len(courses))
	}
}

func TestCourse_NotFound(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	_, err := s.Course(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestOutgoingIncoming(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	out, err := s.Outgoing(ctx, 1)
	if err != nil {
		t.Fatalf("outgoing: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("outgoing(1): got %d routes, want 2", len(out))
	}
	if out[0].Connection.ID != 10 || out[0].Course.ID != 2 {
		t.Errorf("out[0] = conn %d course %d, want conn 10 course 2", out[0].Connection.ID, out[0].Course.ID)
	}
	if out[1].Course.Name != "BEng Electrical Engineering" {
		t.Errorf("out[1] course name = %q", out[1].Course.Name)
	}

	in, err := s.Incoming(ctx, 3)
	if err != nil {
		t.Fatalf("incoming: %v", err)
	}
	if len(in) != 2 {
		t.Fatalf("incoming(3): got %d routes, want 2", len(in))
	}
	if in[0].Course.ID != 1 || in[1].Course.ID != 2 {
		t.Errorf("incoming(3) sources = %d, %d, want 1, 2", in[0].Course.ID, in[1].Course.ID)
	}
	if in[1].Connection.Notes != "Top-up" {
		t.Errorf("notes = %q, want Top-up", in[1].Connection.Notes)
	}
}

func TestRoutes_UnknownCourse(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	out, err := s.Outgoing(context.Background(), 999)
	if err != nil {
		t.Fatalf("outgoing: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Errorf("outgoing(999) = %v, want empty non-nil list", out)
	}
}

func TestConnectionDetail(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	d, err := s.Connection(ctx, 20)
	if err != nil {
		t.Fatalf("connection: %v", err)
	}
	if d.FromCourse == nil || d.FromCourse.ID != 2 {
		t.Errorf("from course = %+v, want id 2", d.FromCourse)
	}
	if d.ToCourse == nil || d.ToCourse.ID != 3 {
		t.Errorf("to course = %+v, want id 3", d.ToCourse)
	}

	if _, err := s.Connection(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("connection(404) err = %v, want ErrNotFound", err)
	}
}

func TestKSBRoundTrip(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	k, err := s.KSBForCourse(ctx, 1)
	if err != nil {
		t.Fatalf("ksb: %v", err)
	}
	if len(k.KnowledgeAreas) != 1 || k.KnowledgeAreas[0].Description != "Wiring regulations" {
		t.Errorf("knowledge = %+v", k.KnowledgeAreas)
	}
	if len(k.SkillsAreas) != 0 {
		t.Errorf("skills = %+v, want empty", k.SkillsAreas)
	}
	if k.ProcessedDate == nil || k.ProcessedDate.Year() != 2025 {
		t.Errorf("processed date = %v", k.ProcessedDate)
	}

	if _, err := s.KSBForCourse(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("ksb(2) err = %v, want ErrNotFound", err)
	}
}

func TestKSB_MalformedColumnDegrades(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	if _, err := s.DB().Exec("UPDATE ksb_mappings SET skills_areas = '[{broken' WHERE course_id = 1"); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}
	all, err := s.KSB(ctx)
	if err != nil {
		t.Fatalf("ksb: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d records, want 1", len(all))
	}
	if len(all[0].SkillsAreas) != 0 || len(all[0].KnowledgeAreas) != 1 {
		t.Errorf("record = %+v, want empty skills and intact knowledge", all[0])
	}
}

func TestReplace_DanglingConnectionRollsBack(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	err := s.Replace(ctx, catalog.Dataset{
		Courses:     []catalog.Course{{ID: 1, Name: "Only", Provider: "X", Level: 3}},
		Connections: []catalog.Connection{{ID: 1, FromCourseID: 1, ToCourseID: 42}},
	})
	if err == nil {
		t.Fatal("expected foreign key violation")
	}

	c, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if c.Courses != 4 || c.Connections != 3 || c.KSB != 1 {
		t.Errorf("counts after failed replace = %+v, want previous dataset", c)
	}
}

func TestReplace_LargeBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ds catalog.Dataset
	for i := 1; i <= 250; i++ {
		ds.Courses = append(ds.Courses, catalog.Course{ID: i, Name: "Course", Provider: "P", Level: 3 + i%5})
		if i > 1 {
			ds.Connections = append(ds.Connections, catalog.Connection{ID: i, FromCourseID: i - 1, ToCourseID: i})
		}
	}
	if err := s.Replace(ctx, ds); err != nil {
		t.Fatalf("replace: %v", err)
	}
	c, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if c.Courses != 250 || c.Connections != 249 {
		t.Errorf("counts = %+v, want 250 courses and 249 connections", c)
	}
}

func TestDefaultDBPath_Env(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "nested", "p.db")
	t.Setenv("PATHWAYS_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATHWAYS_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := filepath.Join(dir, "pathways", "pathways.db"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
