// Package catalog holds the ordered, immutable list of portfolio projects and
// the pure lookups over it: category filtering, circular adjacency and slug
// resolution.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("item not found")
	ErrEmptyCatalog    = errors.New("catalog is empty")
	ErrUnknownCategory = errors.New("unknown category")
	ErrDuplicateID     = errors.New("duplicate item id")
	ErrInvalidItem     = errors.New("invalid item")
)

// ImageRef is one image of an item. Position within Item.Images is the
// gallery navigation order.
type ImageRef struct {
	URL string `yaml:"url" json:"url" validate:"required"`
	Alt string `yaml:"alt" json:"alt"`
}

// Item is a single portfolio project.
type Item struct {
	ID          int        `yaml:"id" json:"id" validate:"required,gt=0"`
	Name        string     `yaml:"name" json:"name" validate:"required"`
	Category    Category   `yaml:"category" json:"category"`
	Tagline     string     `yaml:"tagline" json:"tagline"`
	Description string     `yaml:"description" json:"description"`
	Details     string     `yaml:"details" json:"details,omitempty"`
	Role        string     `yaml:"role" json:"role,omitempty"`
	Duration    string     `yaml:"duration" json:"duration,omitempty"`
	Year        string     `yaml:"year" json:"year,omitempty"`
	Process     []string   `yaml:"process" json:"process,omitempty"`
	Images      []ImageRef `yaml:"images" json:"images" validate:"dive"`
}

// Slug is the canonical path segment for the item.
func (it Item) Slug() string {
	return Slug(it.Name)
}

// Hero is the first image, or the zero ImageRef when the item has none.
func (it Item) Hero() ImageRef {
	if len(it.Images) == 0 {
		return ImageRef{}
	}
	return it.Images[0]
}

// Catalog is an ordered collection of items. Order is declaration order and
// never changes after New.
type Catalog struct {
	items []Item
	index map[int]int
}

// New builds a catalog, rejecting duplicate ids, blank names and categories
// outside the closed set. An empty catalog is allowed.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		index: make(map[int]int, len(items)),
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("%w: id %d has no name", ErrInvalidItem, it.ID)
		}
		if !it.Category.valid() {
			return nil, fmt.Errorf("%w: id %d: %v", ErrUnknownCategory, it.ID, it.Category)
		}
		if _, dup := c.index[it.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, it.ID)
		}
		c.index[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of the items in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// ByID returns the item with the given id.
func (c *Catalog) ByID(id int) (Item, error) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return c.items[i], nil
}

// Lookup resolves a slug strictly, ignoring case.
func (c *Catalog) Lookup(slug string) (Item, error) {
	want := strings.ToLower(slug)
	for _, it := range c.items {
		if it.Slug() == want {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: slug %q", ErrNotFound, slug)
}

// BySlug resolves a slug and falls back to the first item when nothing
// matches. The boolean reports whether the slug matched exactly.
func (c *Catalog) BySlug(slug string) (Item, bool, error) {
	if len(c.items) == 0 {
		return Item{}, false, ErrEmptyCatalog
	}
	it, err := c.Lookup(slug)
	if err != nil {
		return c.items[0], false, nil
	}
	return it, true, nil
}

func (c *Catalog) position(id int) (int, error) {
	if len(c.items) == 0 {
		return 0, ErrEmptyCatalog
	}
	i, ok := c.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return i, nil
}
