// Package helpers holds text utilities shared by the crosswalks.
package helpers

import (
	"html"
	"regexp"
	"strings"
)

var (
	commentRegex  = regexp.MustCompile(`<!--[\s\S]*?-->`)
	blockEndRegex = regexp.MustCompile(`(?i)</(?:p|div|li|h[1-6]|blockquote|tr)>|<br\s*/?>`)
	tagRegex      = regexp.MustCompile(`<[^>]*>`)
	spaceRegex    = regexp.MustCompile(`\s+`)
)

// StripHTML reduces HTML markup in a metadata value, such as an abstract
// entered through a rich text editor, to plain text on one line.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = commentRegex.ReplaceAllString(s, "")
	s = blockEndRegex.ReplaceAllString(s, " ")
	s = tagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}
