package search

import (
	"fmt"

	"github.com/abhisek/pathways/internal/catalog"
)

// Category is one kind of KSB list that skills search scores against.
type Category string

const (
	Knowledge   Category = "knowledge"
	SkillsAreas Category = "skills"
	Careers     Category = "careers"
	Standards   Category = "standards"
	Behaviours  Category = "behaviours"
)

// DefaultCategories are scored by the list view's skills mode.
var DefaultCategories = []Category{Knowledge, SkillsAreas, Careers, Standards}

// Weight is the multiplier applied to a category's item scores.
func (c Category) Weight() float64 {
	switch c {
	case Knowledge:
		return 0.8
	case SkillsAreas:
		return 1.0
	case Careers:
		return 0.9
	case Standards, Behaviours:
		return 0.7
	}
	return 0
}

// label prefixes match reasons.
func (c Category) label() string {
	switch c {
	case Knowledge:
		return "Knowledge"
	case SkillsAreas:
		return "Skill"
	case Careers:
		return "Career path"
	case Standards:
		return "Occupational standard"
	case Behaviours:
		return "Behaviour"
	}
	return string(c)
}

// texts returns the searchable text of each item in the category.
func (c Category) texts(k catalog.KSB) []string {
	var out []string
	switch c {
	case Knowledge:
		out = itemTexts(k.KnowledgeAreas)
	case SkillsAreas:
		out = itemTexts(k.SkillsAreas)
	case Behaviours:
		out = itemTexts(k.Behaviours)
	case Careers:
		for _, cp := range k.CareerPathways {
			out = append(out, cp.Role)
		}
	case Standards:
		for _, s := range k.OccupationalStandards {
			out = append(out, s.Name)
		}
	}
	return out
}

func itemTexts(items []catalog.KSBItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Description
	}
	return out
}

// ParseSearchType maps the HTTP searchType field to categories. "all" (or
// empty) selects knowledge, skills, careers and behaviours.
func ParseSearchType(s string) ([]Category, error) {
	switch s {
	case "", "all":
		return []Category{Knowledge, SkillsAreas, Careers, Behaviours}, nil
	case string(Knowledge), string(SkillsAreas), string(Careers), string(Behaviours), string(Standards):
		return []Category{Category(s)}, nil
	}
	return nil, fmt.Errorf("unknown search type %q", s)
}
