// Package skills compares a job's required skills against resume text.
package skills

import "strings"

// MaxRequired caps how many skills are kept from model output.
const MaxRequired = 10

// Coverage holds the result of matching required skills against a resume.
type Coverage struct {
	Skills  []string
	Present []bool
	Covered int
}

// Fraction returns the share of skills found, or 0 when no skills were given.
func (c Coverage) Fraction() float64 {
	if len(c.Skills) == 0 {
		return 0
	}
	return float64(c.Covered) / float64(len(c.Skills))
}

// Compare checks each skill for case-insensitive substring containment in the
// resume text. Exact substring only; abbreviation mismatches are accepted
// false negatives.
func Compare(resumeText string, required []string) Coverage {
	lowered := strings.ToLower(resumeText)

	cov := Coverage{
		Skills:  required,
		Present: make([]bool, len(required)),
	}
	for i, skill := range required {
		needle := strings.ToLower(strings.TrimSpace(skill))
		if needle == "" {
			continue
		}
		if strings.Contains(lowered, needle) {
			cov.Present[i] = true
			cov.Covered++
		}
	}
	return cov
}

// ParseList extracts up to MaxRequired skill names from model output, one per
// line, stripping list bullets and "1." style numbering.
func ParseList(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		skill := stripBullet(line)
		if skill == "" {
			continue
		}
		out = append(out, skill)
		if len(out) == MaxRequired {
			break
		}
	}
	return out
}

func stripBullet(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-•*")
	s = strings.TrimSpace(s)

	// Numbered lists: "1. Python" or "2) SQL".
	if i := strings.IndexAny(s, ".)"); i > 0 && i <= 2 && isDigits(s[:i]) {
		s = strings.TrimSpace(s[i+1:])
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
