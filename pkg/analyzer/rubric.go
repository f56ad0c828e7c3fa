package analyzer

import (
	"strings"
	"unicode"
)

// RubricEntry is one required section and the keywords that satisfy it.
type RubricEntry struct {
	Name     string
	Keywords []string
}

// Matches reports whether a normalized heading satisfies the entry.
func (e RubricEntry) Matches(heading string) bool {
	h := strings.ToLower(heading)
	for _, k := range e.Keywords {
		if strings.Contains(h, k) {
			return true
		}
	}
	return false
}

// MatchesWords is the strict form of Matches: the heading must equal the
// entry name, or contain a keyword as a run of whole words. "Data Structures"
// does not satisfy "structure" and "Latest Changes" does not satisfy "test".
func (e RubricEntry) MatchesWords(heading string) bool {
	words := splitWords(heading)
	if equalWords(words, splitWords(e.Name)) {
		return true
	}
	for _, k := range e.Keywords {
		if containsRun(words, splitWords(k)) {
			return true
		}
	}
	return false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func equalWords(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsRun(words, run []string) bool {
	if len(run) == 0 {
		return false
	}
	for i := 0; i+len(run) <= len(words); i++ {
		if equalWords(words[i:i+len(run)], run) {
			return true
		}
	}
	return false
}

// Rubric is the ordered list of required sections.
type Rubric []RubricEntry

// Names returns the rubric entry names in order.
func (r Rubric) Names() []string {
	out := make([]string, 0, len(r))
	for _, e := range r {
		out = append(out, e.Name)
	}
	return out
}

// Lookup returns the entry with the given name.
func (r Rubric) Lookup(name string) (RubricEntry, bool) {
	for _, e := range r {
		if e.Name == name {
			return e, true
		}
	}
	return RubricEntry{}, false
}

// Section names used by the gap probes.
const (
	SectionStructure      = "Structure"
	SectionCoreConcepts   = "Core Concepts"
	SectionTips           = "Tips"
	SectionBestPractices  = "Best Practices"
	SectionCommonMistakes = "Common Mistakes"
	SectionAdvanced       = "Advanced Topics"
	SectionTesting        = "Testing"
	SectionPerformance    = "Performance"
	SectionSecurity       = "Security"
	SectionRelated        = "Related Topics"
)

// DefaultRubric returns the ten sections a complete lesson covers.
func DefaultRubric() Rubric {
	return Rubric{
		{Name: SectionStructure, Keywords: []string{"structure", "setup"}},
		{Name: SectionCoreConcepts, Keywords: []string{"concept"}},
		{Name: SectionTips, Keywords: []string{"tip"}},
		{Name: SectionBestPractices, Keywords: []string{"best practice"}},
		{Name: SectionCommonMistakes, Keywords: []string{"mistake", "pitfall"}},
		{Name: SectionAdvanced, Keywords: []string{"advanced"}},
		{Name: SectionTesting, Keywords: []string{"test"}},
		{Name: SectionPerformance, Keywords: []string{"performance"}},
		{Name: SectionSecurity, Keywords: []string{"security"}},
		{Name: SectionRelated, Keywords: []string{"related"}},
	}
}
