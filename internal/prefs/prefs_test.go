package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "prefs.json")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Nil(t, s.LoadWishlist())
	require.NoError(t, s.SaveWishlist([]int{7, 3}))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7}, reopened.LoadWishlist())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pathways-wishlist"`)
}

func TestCorruptFileResetsToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Nil(t, s.LoadWishlist())
	assert.True(t, s.Bool(KeyFiltersCollapsed, true))
}

func TestCorruptValueResetsThatKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	body := `{"pathways-wishlist": "oops", "pathways-details-expanded": true}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Nil(t, s.LoadWishlist())
	assert.True(t, s.Bool(KeyDetailsExpanded, false))
}

func TestMemoryStore(t *testing.T) {
	s := Memory()
	require.NoError(t, s.Set(KeyFiltersCollapsed, false))
	assert.False(t, s.Bool(KeyFiltersCollapsed, true))
	require.NoError(t, s.SaveWishlist(nil))
	assert.Equal(t, []int{}, s.LoadWishlist())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("PATHWAYS_PREFS", "")
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	got, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pathways", "prefs.json"), got)
}
