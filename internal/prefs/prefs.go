// Package prefs persists small client preferences (wishlist, panel
// collapse state) in a JSON file under a fixed key namespace.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Namespace prefixes every stored key.
const Namespace = "pathways"

// Well-known keys.
const (
	KeyWishlist         = "wishlist"
	KeyFiltersCollapsed = "filters-collapsed"
	KeyDetailsExpanded  = "details-expanded"
)

// Store is a namespaced key/value file. Reads come from an in-memory copy
// loaded once; every write rewrites the file atomically.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]json.RawMessage
}

// Open loads the file at path. A missing or corrupt file starts empty; the
// returned error is only for paths that cannot be used at all.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]json.RawMessage)}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read prefs: %w", err)
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err == nil && values != nil {
		s.values = values
	}
	return s, nil
}

// Memory returns a Store that never touches disk.
func Memory() *Store {
	s, _ := Open("")
	return s
}

// DefaultPath resolves the prefs file in priority order:
// 1. PATHWAYS_PREFS environment variable
// 2. $XDG_STATE_HOME/pathways/prefs.json
// 3. ~/.local/state/pathways/prefs.json
func DefaultPath() (string, error) {
	if p := os.Getenv("PATHWAYS_PREFS"); p != "" {
		return p, nil
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, Namespace, "prefs.json"), nil
}

func namespaced(key string) string {
	return Namespace + "-" + key
}

// Get decodes the value under key into dst. It reports false when the key
// is absent or its value does not decode, leaving dst untouched.
func (s *Store) Get(key string, dst any) bool {
	s.mu.Lock()
	raw, ok := s.values[namespaced(key)]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// Set stores value under key and writes the file.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[namespaced(key)] = raw
	return s.flush()
}

// Bool returns the boolean under key, or def when unset or invalid.
func (s *Store) Bool(key string, def bool) bool {
	var v bool
	if !s.Get(key, &v) {
		return def
	}
	return v
}

// flush writes all values via a temp file and rename. Callers hold mu.
func (s *Store) flush() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prefs-*.json")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// LoadWishlist returns the stored wishlist ids, or nil when none are
// stored or the stored value is corrupt.
func (s *Store) LoadWishlist() []int {
	var ids []int
	if !s.Get(KeyWishlist, &ids) {
		return nil
	}
	return ids
}

// SaveWishlist stores the wishlist ids in ascending order.
func (s *Store) SaveWishlist(ids []int) error {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	if sorted == nil {
		sorted = []int{}
	}
	return s.Set(KeyWishlist, sorted)
}
