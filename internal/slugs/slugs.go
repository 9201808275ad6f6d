// Package slugs derives URL-safe identifiers from post titles.
package slugs

import (
	"fmt"

	"github.com/gosimple/slug"
)

// FromTitle returns the slug base for a title: lowercase, ASCII-folded,
// separator-normalized. Uniqueness is the caller's concern.
func FromTitle(title string) string {
	return slug.Make(title)
}

// WithSuffix appends the numeric collision suffix to a base slug.
// Suffixing starts at 2: "hi-there", "hi-there-2", "hi-there-3", ...
func WithSuffix(base string, n int) string {
	if n < 2 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
