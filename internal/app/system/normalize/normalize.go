// Package normalize holds canonical forms for identifiers stored in the
// database. All writes go through these so lookups stay consistent.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/gosimple/slug"
)

// Email case-folds and trims an email address.
func Email(s string) string {
	return text.Fold(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Slug derives the URL-safe id for a display name: lowercase,
// hyphen-separated. Collisions are a caller-level conflict; ids are
// never silently suffixed.
func Slug(name string) string {
	return slug.Make(name)
}
