package catalog

// Select returns the items of one category in catalog order. It never
// returns nil.
func Select(c *Catalog, cat Category) []Item {
	out := make([]Item, 0)
	for _, it := range c.items {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	return out
}

// Adjacent is the pair of neighbours of an item with wraparound.
type Adjacent struct {
	Prev Item `json:"prev"`
	Next Item `json:"next"`
}

// Adjacents returns the previous and next items of id by catalog position,
// wrapping at both ends. A single-item catalog points at itself both ways.
func Adjacents(c *Catalog, id int) (Adjacent, error) {
	i, err := c.position(id)
	if err != nil {
		return Adjacent{}, err
	}
	n := len(c.items)
	return Adjacent{
		Prev: c.items[(i-1+n)%n],
		Next: c.items[(i+1)%n],
	}, nil
}
