package analyses

import "strings"

// parseJobOptions turns raw model output into selectable job titles, one per
// non-empty line with list markers trimmed.
func parseJobOptions(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		title := strings.TrimSpace(line)
		title = strings.Trim(title, "-•* ")
		title = strings.TrimSpace(stripNumbering(title))
		if title == "" {
			continue
		}
		out = append(out, title)
	}
	return out
}

func stripNumbering(s string) string {
	if i := strings.IndexAny(s, ".)"); i > 0 && i <= 2 && allDigits(s[:i]) {
		return s[i+1:]
	}
	return s
}

func allDigits(s string) bool {
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
