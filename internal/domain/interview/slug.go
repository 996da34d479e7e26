package interview

import (
	"strings"
	"unicode"
)

// Slugify turns a project name into a stable lowercase identifier used as
// the persistence key, e.g. "Task Management App" -> "task-management-app".
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "unnamed-project"
	}
	return slug
}
