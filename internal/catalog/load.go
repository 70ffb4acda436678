package catalog

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// featureImages is the number of secondary images derived for an item that
// declares none.
const featureImages = 5

type table struct {
	Projects []Item `yaml:"projects"`
}

// Load decodes a YAML project table and builds a catalog from it. Items that
// declare no images get the conventional hero/main/featureN set under
// /images/projects/<slug>/.
func Load(r io.Reader) (*Catalog, error) {
	var t table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding project table: %w", err)
	}

	v := validator.New()
	for i := range t.Projects {
		if len(t.Projects[i].Images) == 0 {
			t.Projects[i].Images = DefaultImages(t.Projects[i].Name)
		}
		if err := v.Struct(t.Projects[i]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidItem, i, err)
		}
	}
	return New(t.Projects)
}

// DefaultImages returns the ordered image set for a project folder.
func DefaultImages(name string) []ImageRef {
	base := "/images/projects/" + Slug(name) + "/"
	imgs := []ImageRef{
		{URL: base + "hero.jpg", Alt: name},
		{URL: base + "main.jpg", Alt: name + " main view"},
	}
	for i := 1; i <= featureImages; i++ {
		imgs = append(imgs, ImageRef{
			URL: fmt.Sprintf("%sfeature%d.jpg", base, i),
			Alt: fmt.Sprintf("%s feature %d", name, i),
		})
	}
	return imgs
}
