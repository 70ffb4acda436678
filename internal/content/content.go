// Package content embeds the static site tables and decodes them into the
// catalog, blog and playground types.
package content

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/designfolio/designfolio/internal/blog"
	"github.com/designfolio/designfolio/internal/catalog"
)

var (
	//go:embed projects.yaml
	projectsYAML []byte

	//go:embed posts.yaml
	postsYAML []byte

	//go:embed experiments.yaml
	experimentsYAML []byte
)

// Experiment is a playground entry.
type Experiment struct {
	ID          int    `yaml:"id" validate:"required,gt=0"`
	Title       string `yaml:"title" validate:"required"`
	ImageURL    string `yaml:"imageUrl" validate:"required"`
	Description string `yaml:"description"`
	Link        string `yaml:"link" validate:"omitempty,url"`
	Featured    bool   `yaml:"featured"`
}

// Site bundles every table the web layer renders.
type Site struct {
	Projects    *catalog.Catalog
	Posts       *blog.Store
	Experiments []Experiment
}

// Load decodes all embedded tables.
func Load() (*Site, error) {
	projects, err := catalog.Load(bytes.NewReader(projectsYAML))
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	posts, err := blog.Load(bytes.NewReader(postsYAML))
	if err != nil {
		return nil, fmt.Errorf("loading posts: %w", err)
	}
	experiments, err := loadExperiments(experimentsYAML)
	if err != nil {
		return nil, fmt.Errorf("loading experiments: %w", err)
	}
	return &Site{Projects: projects, Posts: posts, Experiments: experiments}, nil
}

func loadExperiments(data []byte) ([]Experiment, error) {
	var t struct {
		Experiments []Experiment `yaml:"experiments"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding experiments table: %w", err)
	}
	v := validator.New()
	for _, e := range t.Experiments {
		if err := v.Struct(e); err != nil {
			return nil, fmt.Errorf("experiment %d: %w", e.ID, err)
		}
	}
	return t.Experiments, nil
}
