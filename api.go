package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/designfolio/designfolio/internal/catalog"
	"github.com/designfolio/designfolio/internal/typewriter"
)

type projectJSON struct {
	catalog.Item
	Slug string `json:"slug"`
}

type projectRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func toProjectJSON(items []catalog.Item) []projectJSON {
	out := make([]projectJSON, 0, len(items))
	for _, it := range items {
		out = append(out, projectJSON{Item: it, Slug: it.Slug()})
	}
	return out
}

func toRef(it catalog.Item) projectRef {
	return projectRef{ID: it.ID, Name: it.Name, Slug: it.Slug()}
}

func (s *server) setupAPIRoutes(r *gin.RouterGroup) {
	r.GET("/hero-frames", s.heroFrames)
	r.GET("/projects", s.listProjects)
	r.GET("/projects/:slug/adjacent", s.adjacentProjects)
}

func (s *server) heroFrames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"frames":     s.frames,
		"durationMs": typewriter.Duration(s.frames).Milliseconds(),
	})
}

// listProjects returns the whole catalog, or one category with ?category=.
func (s *server) listProjects(c *gin.Context) {
	items := s.site.Projects.Items()
	if key := c.Query("category"); key != "" {
		cat, err := catalog.ParseCategory(key)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items = catalog.Select(s.site.Projects, cat)
	}
	c.JSON(http.StatusOK, gin.H{"projects": toProjectJSON(items)})
}

func (s *server) adjacentProjects(c *gin.Context) {
	item, err := s.site.Projects.Lookup(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	adj, err := catalog.Adjacents(s.site.Projects, item.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"project": toRef(item),
		"prev":    toRef(adj.Prev),
		"next":    toRef(adj.Next),
	})
}
