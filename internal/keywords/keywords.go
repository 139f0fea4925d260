// Package keywords extracts candidate skill keywords from resume text by
// stop-word filtering. Pure functions, no side effects.
package keywords

import (
	"sort"
	"strings"
	"unicode"
)

// Common filler words excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "at": {}, "for": {}, "from": {}, "the": {}, "and": {},
	"or": {}, "but": {}, "if": {}, "to": {}, "of": {}, "in": {}, "on": {},
	"with": {}, "is": {}, "it": {}, "this": {}, "that": {}, "be": {}, "as": {},
	"by": {}, "are": {}, "was": {}, "must": {}, "can": {}, "able": {},
}

const minTokenLen = 2

// Extract lowercases the text, splits on non-alphanumeric boundaries, and
// drops stop words and tokens shorter than the minimum length. The result is
// deduplicated and sorted, so extraction is deterministic and idempotent.
func Extract(text string) []string {
	seen := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		if _, skip := stopWords[tok]; skip {
			continue
		}
		if len([]rune(tok)) < minTokenLen {
			continue
		}
		seen[tok] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Match reports the keyword overlap between a resume and a job description:
// the matched keywords plus the percentage of unique job keywords found in
// the resume. An empty job description scores zero.
func Match(resumeText, jobDescription string) ([]string, float64) {
	resumeSet := make(map[string]struct{})
	for _, tok := range Extract(resumeText) {
		resumeSet[tok] = struct{}{}
	}

	jobKeywords := Extract(jobDescription)
	matched := make([]string, 0, len(jobKeywords))
	for _, tok := range jobKeywords {
		if _, ok := resumeSet[tok]; ok {
			matched = append(matched, tok)
		}
	}

	if len(jobKeywords) == 0 {
		return matched, 0
	}
	return matched, float64(len(matched)) / float64(len(jobKeywords)) * 100
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
