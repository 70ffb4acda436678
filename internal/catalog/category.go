package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is the closed set of project categories. The zero value is not a
// category, so an item that omits it is rejected by New.
type Category int

const (
	MobileApplications Category = iota + 1
	DesktopApplications
	Branding
)

// Categories lists every category in display order. The first entry is the
// default filter.
var Categories = []Category{MobileApplications, DesktopApplications, Branding}

var categoryLabels = map[Category]string{
	MobileApplications:  "Mobile Applications",
	DesktopApplications: "Desktop Applications",
	Branding:            "Branding",
}

// String returns the display label.
func (c Category) String() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Key is the URL form of the category, e.g. "mobile-applications".
func (c Category) Key() string {
	return Slug(c.String())
}

func (c Category) valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory accepts a display label or a key, case-insensitively.
func ParseCategory(s string) (Category, error) {
	want := Slug(strings.TrimSpace(s))
	for _, c := range Categories {
		if c.Key() == want {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c *Category) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseCategory(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
