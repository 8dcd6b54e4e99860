// Package util provides shared string helpers used across the codebase.
package util

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "..."

// TruncateString caps a string at maxLen runes, marking the cut with "...".
// It counts runes, not columns, so it suits plain text such as prompt
// sections and log fields. For styled terminal rows use TruncateANSI.
func TruncateString(s string, maxLen int) string {
	if maxLen <= len(ellipsis) {
		return ellipsis
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}

// TruncateANSI caps a string at maxWidth visual columns, marking the cut
// with "...". Escape sequences and wide characters are measured correctly,
// so styled checklist rows keep their colors when clipped.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= len(ellipsis) {
		return ellipsis
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	// ansi.Truncate counts the tail against maxWidth
	return ansi.Truncate(s, maxWidth, ellipsis)
}

// CollapseWhitespace replaces every run of whitespace (including newlines and
// tabs) with a single space and trims the ends. Search snippets arrive with
// embedded line breaks and non-breaking spaces that would break single-line
// rendering.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
