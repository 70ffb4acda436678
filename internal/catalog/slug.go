package catalog

import (
	"regexp"
	"strings"
)

// whitespace matches what browsers treat as \s: ASCII spacing, \v, every
// Unicode space separator and the BOM.
var whitespace = regexp.MustCompile(`[\s\v\p{Z}\x{feff}]+`)

// Slug lowercases name and replaces every run of whitespace with a single
// hyphen. It is the canonical path segment for an item.
func Slug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "-")
}
