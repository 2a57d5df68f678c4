package search

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/pathways/internal/catalog"
)

// Mode selects how the query text is matched.
type Mode string

const (
	// ModeCourses matches the query as a substring of name, provider or subject.
	ModeCourses Mode = "courses"
	// ModeSkills scores the query words against KSB enrichment.
	ModeSkills Mode = "skills"
)

// ParseMode maps user input onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCourses, "", "traditional":
		return ModeCourses, nil
	case ModeSkills:
		return ModeSkills, nil
	}
	return "", fmt.Errorf("unknown search mode %q (want courses or skills)", s)
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeSkills {
		return ModeCourses
	}
	return ModeSkills
}

// FallbackReason explains a match on course fields rather than enrichment.
const FallbackReason = "Course name or provider match"

// Scores for course-field matches.
const (
	TraditionalScore = 1.0
	FallbackScore    = 0.5
)

// MaxReasons caps the match reasons kept per result.
const MaxReasons = 3

// Result is one ranked course.
type Result struct {
	Course     catalog.Course `json:"course"`
	Score      float64        `json:"matchScore"`
	Reasons    []string       `json:"matchReasons"`
	Confidence int            `json:"confidenceScore"`
}

// Options tune skills search.
type Options struct {
	// Categories are scored in order; reasons follow the same order.
	Categories []Category
	// MinConfidence drops courses whose overall KSB confidence is lower.
	MinConfidence int
	// Fallback lets courses without enrichment match on course fields at
	// FallbackScore.
	Fallback bool
	// Fuzzy is the loose word matcher; nil means SuffixVariants.
	Fuzzy FuzzyMatcher
}

// DefaultOptions are the list view's skills search settings.
func DefaultOptions() Options {
	return Options{
		Categories: DefaultCategories,
		Fallback:   true,
		Fuzzy:      SuffixVariants,
	}
}

// Normalize lower-cases and trims a query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Tokenize splits a normalised query on spaces and keeps words longer
// than two characters.
func Tokenize(query string) []string {
	var words []string
	for _, w := range strings.Split(query, " ") {
		if utf8.RuneCountInString(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

// Run ranks courses against query in the given mode. An empty query
// returns every course unranked in input order. A skills query with no
// usable words scores enriched courses zero, so only the unenriched
// fallback matches remain.
func Run(courses []catalog.Course, query string, mode Mode, ksb map[int]catalog.KSB, opts Options) []Result {
	q := Normalize(query)
	if q == "" {
		out := make([]Result, len(courses))
		for i, c := range courses {
			out[i] = Result{Course: c, Confidence: confidence(ksb, c.ID)}
		}
		return out
	}
	if mode == ModeSkills {
		return Skills(courses, q, ksb, opts)
	}
	return Traditional(courses, q, ksb)
}

// MatchesCourse reports whether the normalised query is a substring of
// the course name, provider or subject area.
func MatchesCourse(c catalog.Course, query string) bool {
	for _, field := range []string{c.Name, c.Provider, c.SubjectArea} {
		if field != "" && strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Traditional keeps courses whose name, provider or subject contains the
// query. Every match scores TraditionalScore; input order is kept.
func Traditional(courses []catalog.Course, query string, ksb map[int]catalog.KSB) []Result {
	q := Normalize(query)
	var out []Result
	for _, c := range courses {
		if !MatchesCourse(c, q) {
			continue
		}
		out = append(out, Result{
			Course:     c,
			Score:      TraditionalScore,
			Reasons:    []string{FallbackReason},
			Confidence: confidence(ksb, c.ID),
		})
	}
	return out
}

// Skills scores each course's enrichment against the query words and
// returns the non-zero results by descending score, then descending
// confidence.
func Skills(courses []catalog.Course, query string, ksb map[int]catalog.KSB, opts Options) []Result {
	q := Normalize(query)
	words := Tokenize(q)
	fuzzy := opts.Fuzzy
	if fuzzy == nil {
		fuzzy = SuffixVariants
	}
	cats := opts.Categories
	if cats == nil {
		cats = DefaultCategories
	}

	var out []Result
	for _, c := range courses {
		k, ok := ksb[c.ID]
		if !ok {
			if opts.Fallback && opts.MinConfidence <= 0 && MatchesCourse(c, q) {
				out = append(out, Result{
					Course:  c,
					Score:   FallbackScore,
					Reasons: []string{FallbackReason},
				})
			}
			continue
		}
		if k.OverallConfidence < opts.MinConfidence || len(words) == 0 {
			continue
		}

		score, reasons := scoreKSB(k, words, cats, fuzzy)
		if score <= 0 {
			continue
		}
		out = append(out, Result{
			Course:     c,
			Score:      score,
			Reasons:    reasons,
			Confidence: k.OverallConfidence,
		})
	}

	Rank(out)
	return out
}

// Rank orders results by descending score, then descending confidence.
// Equal results keep their relative order.
func Rank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Confidence > results[j].Confidence
	})
}

func scoreKSB(k catalog.KSB, words []string, cats []Category, fuzzy FuzzyMatcher) (float64, []string) {
	var (
		total   float64
		reasons []string
	)
	for _, cat := range cats {
		for _, text := range cat.texts(k) {
			s := textScore(text, words, fuzzy)
			if s <= 0 {
				continue
			}
			total += s * cat.Weight()
			reasons = append(reasons, cat.label()+": "+text)
		}
	}
	if len(reasons) > MaxReasons {
		reasons = reasons[:MaxReasons]
	}
	return total, reasons
}

// textScore is the fraction of words found in text, counting a verbatim
// hit as 1 and a fuzzy hit as 0.5.
func textScore(text string, words []string, fuzzy FuzzyMatcher) float64 {
	if text == "" || len(words) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	var score float64
	for _, w := range words {
		switch {
		case strings.Contains(lower, w):
			score++
		case fuzzy.Match(lower, w):
			score += 0.5
		}
	}
	return score / float64(len(words))
}

func confidence(ksb map[int]catalog.KSB, id int) int {
	if k, ok := ksb[id]; ok {
		return k.OverallConfidence
	}
	return 0
}

// Index builds the course id → KSB lookup used by Run. Later records for
// the same course win.
func Index(records []catalog.KSB) map[int]catalog.KSB {
	idx := make(map[int]catalog.KSB, len(records))
	for _, k := range records {
		idx[k.CourseID] = k
	}
	return idx
}
