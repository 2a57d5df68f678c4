package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, Execute(context.Background()), out.String())
	return out.String()
}

func TestLoadThenQuery(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "pathways.db")
	writeFile(t, dir, "courses.csv",
		"CourseId,Course Name,Provider,Course Level,Pathway\n"+
			"1,Electrical Installation,Derby College,3,Engineering\n"+
			"2,Electrical Engineering HNC,Derby College,4,Engineering\n")
	writeFile(t, dir, "connections.csv",
		"FromCourseID,ToCourseID,Notes\n"+
			"1,2,Direct progression\n"+
			"1,99,\n")

	out := run(t, "load", "--db", db, "--data", dir)
	assert.Contains(t, out, "Loaded 2 courses, 1 connections, 0 KSB mappings")
	assert.Contains(t, out, "1 rows rejected")
	assert.Contains(t, out, "Missing target course ids: [99]")

	out = run(t, "course", "show", "1", "--db", db)
	assert.Contains(t, out, "Where can I go from here?")
	assert.Contains(t, out, "→ [2] Electrical Engineering HNC (L4, DCG)  Direct progression")

	out = run(t, "course", "show", "1", "--db", db, "--direction", "backward")
	assert.Contains(t, out, "No prerequisite courses found")

	out = run(t, "course", "list", "--db", db, "--level", "4")
	assert.Contains(t, out, "Electrical Engineering HNC")
	assert.NotContains(t, out, "Electrical Installation")
	assert.Contains(t, out, "1 courses")

	out = run(t, "course", "search", "installation", "--db", db)
	assert.Contains(t, out, "Course name or provider match")
	assert.Contains(t, out, "1 matches")
}

func TestVersion(t *testing.T) {
	assert.Contains(t, run(t, "version"), "pathways (devel)")
}
