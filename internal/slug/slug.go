package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	edgeDash  = regexp.MustCompile(`^-+|-+$`)
	slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Make derives a URL-safe slug from a human-readable name. Lowercase
// alphanumerics and single hyphens only, no leading or trailing hyphen.
// Applying Make to its own output returns the same slug.
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = edgeDash.ReplaceAllString(s, "")
	return s
}

// IsValid reports whether s is a well-formed slug.
func IsValid(s string) bool {
	return s != "" && len(s) <= 80 && slugShape.MatchString(s)
}
