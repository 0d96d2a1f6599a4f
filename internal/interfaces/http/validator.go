package http

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxSlugLength   = 64
	MaxFilterLength = 100
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug checks that s has the shape Slugify produces.
func ValidSlug(s string) bool {
	return s != "" && len(s) <= MaxSlugLength && slugRegex.MatchString(s)
}

// SanitizeString drops invalid UTF-8 and control characters other than
// newlines and tabs.
func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, strings.ToValidUTF8(s, ""))
}

// TruncateString cuts s to at most maxLen bytes on a rune boundary.
func TruncateString(s string, maxLen int) string {
	for s != "" && len(s) > maxLen {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s
}
