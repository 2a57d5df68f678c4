package search

import "strings"

// FuzzyMatcher decides whether word loosely appears in text when it does
// not appear verbatim. Both arguments are lower case.
type FuzzyMatcher interface {
	Match(text, word string) bool
}

// FuzzyFunc adapts a plain function to FuzzyMatcher.
type FuzzyFunc func(text, word string) bool

func (f FuzzyFunc) Match(text, word string) bool { return f(text, word) }

// SuffixVariants matches common inflections: the word minus its last
// letter, with "ing" or "s" appended, or with "ing" removed. Words shorter
// than four letters never fuzzy match.
var SuffixVariants FuzzyMatcher = FuzzyFunc(func(text, word string) bool {
	if len([]rune(word)) < 4 {
		return false
	}
	r := []rune(word)
	variants := []string{
		string(r[:len(r)-1]),
		word + "ing",
		word + "s",
		strings.Replace(word, "ing", "", 1),
	}
	for _, v := range variants {
		if strings.Contains(text, v) {
			return true
		}
	}
	return false
})

// NoFuzzy disables fuzzy matching.
var NoFuzzy FuzzyMatcher = FuzzyFunc(func(string, string) bool { return false })
