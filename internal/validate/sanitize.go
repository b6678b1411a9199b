package validate

import (
	"regexp"
	"strings"
)

var (
	jsSchemeRe     = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRe = regexp.MustCompile(`(?i)on\w+=`)
)

// Sanitize trims a free-text value and strips the substrings that would
// let markup or script fragments survive into stored records: angle
// brackets, javascript: schemes, and inline event-handler assignments.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	s = jsSchemeRe.ReplaceAllString(s, "")
	s = eventHandlerRe.ReplaceAllString(s, "")
	return s
}
