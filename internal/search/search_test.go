package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathways/internal/catalog"
)

func courses() []catalog.Course {
	return []catalog.Course{
		{ID: 1, Name: "Electrical Installation", Provider: "Derby College", Level: 3, SubjectArea: "Engineering"},
		{ID: 2, Name: "Software Development", Provider: "Loughborough College", Level: 6, SubjectArea: "Computing"},
		{ID: 3, Name: "Cyber Security", Provider: "University of Derby", Level: 6, SubjectArea: "Computing"},
		{ID: 4, Name: "Games Design", Provider: "Loughborough College", Level: 5, SubjectArea: "Creative"},
	}
}

func TestFilters_LevelAndProvider(t *testing.T) {
	got := Apply(courses(), Filters{Level: 6, Provider: "Loughborough College"}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID, "level 6 from a different provider is excluded")
}

func TestFilters_EmptyMatchesAll(t *testing.T) {
	assert.Len(t, Apply(courses(), Filters{}, nil), 4)
	assert.False(t, Filters{}.Active())
	assert.True(t, Filters{Subject: "Computing"}.Active())
}

func TestFilters_WishlistOnlyOverridesAttributes(t *testing.T) {
	wish := map[int]bool{1: true, 4: true}
	got := Apply(courses(), Filters{Level: 6, WishlistOnly: true}, func(id int) bool { return wish[id] })
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 4, got[1].ID)
}

func TestTraditional_ProviderOnlyMatch(t *testing.T) {
	got := Traditional(courses(), "university of", nil)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Course.ID)
	assert.Equal(t, TraditionalScore, got[0].Score)
	assert.Equal(t, []string{FallbackReason}, got[0].Reasons)
}

func TestTraditional_CaseInsensitive(t *testing.T) {
	got := Traditional(courses(), "  COMPUTING ", nil)
	assert.Len(t, got, 2)
}

func TestSkills_CategoryWeights(t *testing.T) {
	cs := []catalog.Course{
		{ID: 10, Name: "Course A", Provider: "P", Level: 3},
		{ID: 11, Name: "Course B", Provider: "P", Level: 3},
	}
	ksb := Index([]catalog.KSB{
		{CourseID: 10, SkillsAreas: []catalog.KSBItem{{Description: "Welding fabrication"}}, OverallConfidence: 5},
		{CourseID: 11, OccupationalStandards: []catalog.Standard{{Name: "Welding fabrication"}}, OverallConfidence: 5},
	})

	got := Skills(cs, "welding", ksb, DefaultOptions())
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].Course.ID, "skills area outranks occupational standard")
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
	assert.InDelta(t, 0.7, got[1].Score, 1e-9)
	assert.Equal(t, []string{"Skill: Welding fabrication"}, got[0].Reasons)
	assert.Equal(t, []string{"Occupational standard: Welding fabrication"}, got[1].Reasons)
}

func TestSkills_NormalisedByWordCount(t *testing.T) {
	cs := []catalog.Course{{ID: 1, Name: "X", Provider: "P", Level: 3}}
	ksb := Index([]catalog.KSB{{CourseID: 1, SkillsAreas: []catalog.KSBItem{{Description: "network security"}}}})

	got := Skills(cs, "network design", ksb, Options{Fuzzy: NoFuzzy})
	require.Len(t, got, 1)
	assert.InDelta(t, 0.5, got[0].Score, 1e-9)
}

func TestSkills_FuzzyHalfCredit(t *testing.T) {
	cs := []catalog.Course{{ID: 1, Name: "X", Provider: "P", Level: 3}}
	ksb := Index([]catalog.KSB{{CourseID: 1, KnowledgeAreas: []catalog.KSBItem{{Description: "Programming fundamentals"}}}})

	got := Skills(cs, "programs", ksb, DefaultOptions())
	require.Len(t, got, 1)
	assert.InDelta(t, 0.5*0.8, got[0].Score, 1e-9)

	assert.Empty(t, Skills(cs, "programs", ksb, Options{Fuzzy: NoFuzzy}))
}

func TestSkills_ZeroScoreExcluded(t *testing.T) {
	cs := courses()
	ksb := Index([]catalog.KSB{{CourseID: 1, SkillsAreas: []catalog.KSBItem{{Description: "Cable routing"}}}})
	got := Skills(cs[:1], "astronomy", ksb, DefaultOptions())
	assert.Empty(t, got)
}

func TestSkills_FallbackForUnenriched(t *testing.T) {
	ksb := Index([]catalog.KSB{{CourseID: 1, SkillsAreas: []catalog.KSBItem{{Description: "Cable routing"}}}})
	got := Skills(courses(), "games", ksb, DefaultOptions())
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Course.ID)
	assert.Equal(t, FallbackScore, got[0].Score)
	assert.Equal(t, 0, got[0].Confidence)

	opts := DefaultOptions()
	opts.Fallback = false
	assert.Empty(t, Skills(courses(), "games", ksb, opts))
}

func TestSkills_TieBrokenByConfidence(t *testing.T) {
	cs := []catalog.Course{{ID: 1, Name: "A", Provider: "P"}, {ID: 2, Name: "B", Provider: "P"}}
	item := []catalog.KSBItem{{Description: "Data analysis"}}
	ksb := Index([]catalog.KSB{
		{CourseID: 1, SkillsAreas: item, OverallConfidence: 4},
		{CourseID: 2, SkillsAreas: item, OverallConfidence: 9},
	})
	got := Skills(cs, "data", ksb, DefaultOptions())
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Course.ID)
}

func TestSkills_ReasonsCappedAtThree(t *testing.T) {
	cs := []catalog.Course{{ID: 1, Name: "A", Provider: "P"}}
	ksb := Index([]catalog.KSB{{
		CourseID:       1,
		KnowledgeAreas: []catalog.KSBItem{{Description: "Safety one"}, {Description: "Safety two"}},
		SkillsAreas:    []catalog.KSBItem{{Description: "Safety three"}},
		CareerPathways: []catalog.Career{{Role: "Safety officer"}},
	}})
	got := Skills(cs, "safety", ksb, DefaultOptions())
	require.Len(t, got, 1)
	assert.Len(t, got[0].Reasons, MaxReasons)
	assert.Equal(t, "Knowledge: Safety one", got[0].Reasons[0])
	assert.InDelta(t, 0.8+0.8+1.0+0.9, got[0].Score, 1e-9)
}

func TestSkills_MinConfidenceAndCategories(t *testing.T) {
	cs := []catalog.Course{{ID: 1, Name: "A", Provider: "P"}, {ID: 2, Name: "B", Provider: "P"}}
	ksb := Index([]catalog.KSB{
		{CourseID: 1, Behaviours: []catalog.KSBItem{{Description: "Teamwork"}}, OverallConfidence: 3},
		{CourseID: 2, Behaviours: []catalog.KSBItem{{Description: "Teamwork"}}, OverallConfidence: 8},
	})

	assert.Empty(t, Skills(cs, "teamwork", ksb, DefaultOptions()), "behaviours are not scored by default")

	cats, err := ParseSearchType("behaviours")
	require.NoError(t, err)
	got := Skills(cs, "teamwork", ksb, Options{Categories: cats, MinConfidence: 5})
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Course.ID)
	assert.InDelta(t, 0.7, got[0].Score, 1e-9)
}

func TestRun_EmptyQueryKeepsAll(t *testing.T) {
	got := Run(courses(), "   ", ModeSkills, nil, DefaultOptions())
	require.Len(t, got, 4)
	assert.Zero(t, got[0].Score)
}

func TestRun_ShortSkillsQueryKeepsOnlyFallbackMatches(t *testing.T) {
	ksb := Index([]catalog.KSB{{CourseID: 3, SkillsAreas: []catalog.KSBItem{{Description: "Cyber defence"}}}})
	got := Run(courses(), "de", ModeSkills, ksb, DefaultOptions())
	require.Len(t, got, 3, "enriched Cyber Security scores zero")
	for _, r := range got {
		assert.NotEqual(t, 3, r.Course.ID)
		assert.Equal(t, FallbackScore, r.Score)
	}

	assert.Len(t, Run(courses(), "de", ModeCourses, ksb, DefaultOptions()), 4)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"web", "development"}, Tokenize("a web  development to"))
	assert.Nil(t, Tokenize("an it"))
}

func TestSuffixVariants(t *testing.T) {
	tests := []struct {
		text, word string
		want       bool
	}{
		{"network engineering", "engineer", true}, // +ing
		{"project plans", "plan", true},           // plural
		{"painting", "paint", true},               // +ing
		{"the welder", "welding", true},           // "ing" removed
		{"networking", "nets", true},              // trailing letter dropped
		{"abc", "ab", false},                      // too short
		{"carpentry", "plumbing", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuffixVariants.Match(tt.text, tt.word), "%q in %q", tt.word, tt.text)
	}
}

func TestParseSearchType(t *testing.T) {
	all, err := ParseSearchType("all")
	require.NoError(t, err)
	assert.Equal(t, []Category{Knowledge, SkillsAreas, Careers, Behaviours}, all)

	_, err = ParseSearchType("vibes")
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("skills")
	require.NoError(t, err)
	assert.Equal(t, ModeSkills, m)
	assert.Equal(t, ModeCourses, m.Toggle())

	_, err = ParseMode("regex")
	assert.Error(t, err)
}
