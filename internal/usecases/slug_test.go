package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Bakery", "bakery"},
		{"spaces and punctuation", "  Joe's  Coffee & Tea! ", "joe-s-coffee-tea"},
		{"digits kept", "Shop 24/7", "shop-24-7"},
		{"non ascii dropped", "Пекарня Bread", "bread"},
		{"nothing left", "Пекарня", "business"},
		{"empty", "", "business"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyMaxLength(t *testing.T) {
	slug := Slugify(strings.Repeat("ab ", 40))
	assert.LessOrEqual(t, len(slug), 64)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestUniqueSlugAppendsCounter(t *testing.T) {
	taken := map[string]bool{"bakery": true, "bakery-2": true}
	isTaken := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	slug, err := UniqueSlug(context.Background(), "bakery", isTaken)
	require.NoError(t, err)
	assert.Equal(t, "bakery-3", slug)

	slug, err = UniqueSlug(context.Background(), "florist", isTaken)
	require.NoError(t, err)
	assert.Equal(t, "florist", slug)
}

func TestUniqueSlugKeepsLengthLimit(t *testing.T) {
	base := strings.Repeat("a", 64)
	isTaken := func(_ context.Context, s string) (bool, error) { return s == base, nil }

	slug, err := UniqueSlug(context.Background(), base, isTaken)
	require.NoError(t, err)
	assert.Len(t, slug, 64)
	assert.True(t, strings.HasSuffix(slug, "-2"))
}

func TestUniqueSlugPropagatesErrors(t *testing.T) {
	_, err := UniqueSlug(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, errBoom
	})
	assert.ErrorIs(t, err, errBoom)
}
