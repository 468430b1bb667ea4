package identity

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparators   = regexp.MustCompile(`[-\s]+`)
)

// maxSlugBase leaves room for a uniqueness suffix (e.g. "-12") within common
// slug length limits.
const maxSlugBase = 26

// Slugify generates a URL-safe slug from an organization name.
func Slugify(name string) string {
	normalized := slugInvalidChars.ReplaceAllString(strings.ToLower(name), "")
	slug := strings.Trim(slugSeparators.ReplaceAllString(normalized, "-"), "-")

	if len(slug) > maxSlugBase {
		slug = strings.TrimRight(slug[:maxSlugBase], "-")
	}

	if slug == "" {
		slug = "org"
	}

	return slug
}
