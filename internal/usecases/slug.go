package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	maxSlugLength = 64
	defaultSlug   = "business"
)

// Slugify keeps ASCII letters and digits, lower-cased; every other run of
// characters becomes a single hyphen.
func Slugify(name string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
		default:
			pendingDash = true
		}
	}

	slug := sb.String()
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return defaultSlug
	}
	return slug
}

// UniqueSlug returns base, or base-2, base-3, ... whichever is not taken yet.
func UniqueSlug(ctx context.Context, base string, taken func(context.Context, string) (bool, error)) (string, error) {
	candidate := base
	for n := 2; n < 10000; n++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		suffix := fmt.Sprintf("-%d", n)
		trimmed := base
		if len(trimmed)+len(suffix) > maxSlugLength {
			trimmed = strings.TrimRight(trimmed[:maxSlugLength-len(suffix)], "-")
		}
		candidate = trimmed + suffix
	}
	return "", fmt.Errorf("no free slug for %q", base)
}

// insertWithSlug picks a free slug and hands it to insert. A concurrent insert
// can take the slug between the check and the insert, so an ErrConflict is
// retried once with a freshly picked slug.
func insertWithSlug(ctx context.Context, base string, taken func(context.Context, string) (bool, error), insert func(slug string) error) error {
	for attempt := 0; ; attempt++ {
		slug, err := UniqueSlug(ctx, base, taken)
		if err != nil {
			return err
		}
		err = insert(slug)
		if attempt == 0 && errors.Is(err, ErrConflict) {
			continue
		}
		return err
	}
}
