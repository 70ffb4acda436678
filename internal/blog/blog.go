// Package blog serves the published posts: newest-first listing, slug lookup,
// category and tag filters, and related-post suggestions.
package blog

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("blog post not found")

// publishedLayouts are the date forms accepted in the post table.
var publishedLayouts = []string{"2 January 2006", "2006-01-02"}

type Post struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Excerpt     string        `json:"excerpt"`
	Content     template.HTML `json:"content"`
	Author      string        `json:"author"`
	PublishedAt time.Time     `json:"publishedAt"`
	ReadTime    string        `json:"readTime"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
	CoverImage  string        `json:"coverImage"`
}

type rawPost struct {
	ID          int      `yaml:"id" validate:"required,gt=0"`
	Title       string   `yaml:"title" validate:"required"`
	Slug        string   `yaml:"slug" validate:"required"`
	Excerpt     string   `yaml:"excerpt"`
	Content     string   `yaml:"content" validate:"required"`
	Author      string   `yaml:"author" validate:"required"`
	PublishedAt string   `yaml:"publishedAt" validate:"required"`
	ReadTime    string   `yaml:"readTime"`
	Category    string   `yaml:"category" validate:"required"`
	Tags        []string `yaml:"tags"`
	CoverImage  string   `yaml:"coverImage"`
}

// Store is an immutable, date-ordered set of posts.
type Store struct {
	posts  []Post
	bySlug map[string]int
}

// Load decodes a YAML post table.
func Load(r io.Reader) (*Store, error) {
	var t struct {
		Posts []rawPost `yaml:"posts"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding post table: %w", err)
	}

	v := validator.New()
	posts := make([]Post, 0, len(t.Posts))
	for i, rp := range t.Posts {
		if err := v.Struct(rp); err != nil {
			return nil, fmt.Errorf("post %d: %w", i, err)
		}
		published, err := parsePublished(rp.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("post %q: %w", rp.Slug, err)
		}
		posts = append(posts, Post{
			ID:          rp.ID,
			Title:       rp.Title,
			Slug:        rp.Slug,
			Excerpt:     rp.Excerpt,
			Content:     template.HTML(rp.Content),
			Author:      rp.Author,
			PublishedAt: published,
			ReadTime:    rp.ReadTime,
			Category:    rp.Category,
			Tags:        rp.Tags,
			CoverImage:  rp.CoverImage,
		})
	}
	return New(posts)
}

// New orders posts newest first and indexes them by slug.
func New(posts []Post) (*Store, error) {
	s := &Store{
		posts:  make([]Post, len(posts)),
		bySlug: make(map[string]int, len(posts)),
	}
	copy(s.posts, posts)
	sort.SliceStable(s.posts, func(i, j int) bool {
		return s.posts[i].PublishedAt.After(s.posts[j].PublishedAt)
	})
	for i, p := range s.posts {
		if _, dup := s.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate post slug %q", p.Slug)
		}
		s.bySlug[p.Slug] = i
	}
	return s, nil
}

func parsePublished(s string) (time.Time, error) {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised publish date %q", s)
}

// All returns every post, newest first.
func (s *Store) All() []Post {
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

func (s *Store) BySlug(slug string) (Post, error) {
	i, ok := s.bySlug[slug]
	if !ok {
		return Post{}, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	return s.posts[i], nil
}

func (s *Store) ByCategory(category string) []Post {
	return s.filter(func(p Post) bool { return p.Category == category })
}

func (s *Store) ByTag(tag string) []Post {
	return s.filter(func(p Post) bool {
		for _, t := range p.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

// Related returns up to limit other posts sharing the post's category.
func (s *Store) Related(post Post, limit int) []Post {
	out := make([]Post, 0, limit)
	for _, p := range s.posts {
		if len(out) == limit {
			break
		}
		if p.Category == post.Category && p.ID != post.ID {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in listing order.
func (s *Store) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.posts {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

func (s *Store) filter(keep func(Post) bool) []Post {
	out := make([]Post, 0)
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
