package http

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"corner-shop", true},
		{"shop2", true},
		{"a", true},
		{"", false},
		{"Corner-Shop", false},
		{"-shop", false},
		{"shop-", false},
		{"corner--shop", false},
		{"../etc", false},
		{strings.Repeat("a", MaxSlugLength), true},
		{strings.Repeat("a", MaxSlugLength+1), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidSlug(tt.slug), tt.slug)
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("hel\x00lo"))
	assert.Equal(t, "ok", SanitizeString("o\xffk"))
	assert.Equal(t, "Пекарня", SanitizeString("Пекарня"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))

	// "П" is two bytes; a cut at 3 bytes must not split the second rune.
	got := TruncateString("Пекарня", 3)
	assert.Equal(t, "П", got)
	assert.True(t, utf8.ValidString(got))
}
