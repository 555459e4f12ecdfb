package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxSlugLength = 200

// Slugify transliterates s to lower-case ASCII words joined by hyphens, capped at maxSlugLength
func Slugify(s string) string {
	out := slug.Make(s)
	if len(out) > maxSlugLength {
		out = strings.TrimRight(out[:maxSlugLength], "-")
	}
	return out
}

type slugChecker func(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)

// uniqueSlug returns base, or base-2, base-3, ... for the first slug not yet taken
func uniqueSlug(ctx context.Context, base string, excludeID *uuid.UUID, exists slugChecker) (string, error) {
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for n := 2; n < 100; n++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", ErrSlugTaken
}
