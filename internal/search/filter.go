// Package search narrows the course list by attribute filters and ranks it
// by free-text or skills-weighted matching against course and KSB fields.
package search

import "github.com/abhisek/pathways/internal/catalog"

// Filters are the attribute filters of the list view. Zero values match
// everything for that dimension.
type Filters struct {
	Level        int    `json:"level,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Subject      string `json:"subject,omitempty"`
	WishlistOnly bool   `json:"wishlistOnly,omitempty"`
}

// Active reports whether any filter narrows the list.
func (f Filters) Active() bool {
	return f.Level != 0 || f.Provider != "" || f.Subject != "" || f.WishlistOnly
}

// Match reports whether c passes the attribute filters. All set
// dimensions must match exactly.
func (f Filters) Match(c catalog.Course) bool {
	if f.Level != 0 && c.Level != f.Level {
		return false
	}
	if f.Provider != "" && c.Provider != f.Provider {
		return false
	}
	if f.Subject != "" && c.SubjectArea != f.Subject {
		return false
	}
	return true
}

// Apply returns the courses passing f, keeping input order. When
// WishlistOnly is set the attribute filters are ignored and only courses
// for which inWishlist returns true are kept.
func Apply(courses []catalog.Course, f Filters, inWishlist func(id int) bool) []catalog.Course {
	out := make([]catalog.Course, 0, len(courses))
	for _, c := range courses {
		if f.WishlistOnly {
			if inWishlist != nil && inWishlist(c.ID) {
				out = append(out, c)
			}
			continue
		}
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}
