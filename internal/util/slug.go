package util

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a string to kebab-case suitable for ids and URL anchors.
// It returns an empty string when nothing alphanumeric remains.
func Slugify(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	slug := slugPattern.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}
