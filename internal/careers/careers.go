// Package careers resolves career pathway job titles to National Careers
// Service job profile links.
package careers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ProfileBaseURL is the prefix for every job profile link.
const ProfileBaseURL = "https://nationalcareers.service.gov.uk/job-profiles/"

// Link is the resolution of one job title.
type Link struct {
	JobTitle   string  `json:"jobTitle"`
	Slug       *string `json:"ncsSlug"`
	URL        *string `json:"ncsUrl"`
	HasMapping bool    `json:"hasMapping"`
}

// Mapping maps job titles to job profile slugs. Lookups try the exact
// title first and then a case-insensitive match.
type Mapping struct {
	slugs map[string]string
	fold  map[string]string
}

// NewMapping builds a Mapping from title → slug pairs. Empty slugs are
// ignored.
func NewMapping(slugs map[string]string) *Mapping {
	m := &Mapping{
		slugs: make(map[string]string, len(slugs)),
		fold:  make(map[string]string, len(slugs)),
	}
	for title, slug := range slugs {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			continue
		}
		m.slugs[title] = slug
		m.fold[strings.ToLower(strings.TrimSpace(title))] = slug
	}
	return m
}

// Decode reads a JSON object of title → slug.
func Decode(r io.Reader) (*Mapping, error) {
	var slugs map[string]string
	if err := json.NewDecoder(r).Decode(&slugs); err != nil {
		return nil, fmt.Errorf("decode career mapping: %w", err)
	}
	return NewMapping(slugs), nil
}

// Load reads the mapping file at path. A missing file or empty path gives
// an empty mapping so career links simply stay disabled.
func Load(path string) (*Mapping, error) {
	if path == "" {
		return NewMapping(nil), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewMapping(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open career mapping: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Len returns the number of mapped titles.
func (m *Mapping) Len() int {
	return len(m.slugs)
}

// All returns a copy of the title → slug map.
func (m *Mapping) All() map[string]string {
	out := make(map[string]string, len(m.slugs))
	for k, v := range m.slugs {
		out[k] = v
	}
	return out
}

// Resolve looks up a job title. Unmapped titles resolve with
// HasMapping false and nil slug and URL.
func (m *Mapping) Resolve(jobTitle string) Link {
	link := Link{JobTitle: jobTitle}
	slug, ok := m.slugs[jobTitle]
	if !ok {
		slug, ok = m.fold[strings.ToLower(strings.TrimSpace(jobTitle))]
	}
	if !ok {
		return link
	}
	url := ProfileBaseURL + slug
	link.Slug = &slug
	link.URL = &url
	link.HasMapping = true
	return link
}
