package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/designfolio/designfolio/internal/catalog"
	"github.com/designfolio/designfolio/internal/content"
)

const relatedPosts = 2

func (s *server) setupPageRoutes(r *gin.RouterGroup) {
	r.GET("/", s.home)
	r.GET("/portfolio", s.portfolio)
	r.GET("/blog", s.blogIndex)
	r.GET("/blog/:slug", s.blogPost)
	r.GET("/info", s.info)
	r.GET("/playground", s.playground)
}

// home shows the hero and the filtered project grid. ?category= sets the
// filter for visitors without HTMX.
func (s *server) home(c *gin.Context) {
	active := catalog.Categories[0]
	if cat, err := catalog.ParseCategory(c.Query("category")); err == nil {
		sess := s.ensureSession(c)
		sess.Lock()
		sess.Filter = cat
		sess.Unlock()
		active = cat
	} else if sess := existingSession(c); sess != nil {
		sess.Lock()
		active = sess.Filter
		sess.Unlock()
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":   "Product Designer",
		"tagline": Tagline,
		"grid":    s.gridView(active),
	})
}

type categoryGroup struct {
	Category catalog.Category
	Projects []catalog.Item
}

func (s *server) portfolio(c *gin.Context) {
	groups := make([]categoryGroup, 0, len(catalog.Categories))
	for _, cat := range catalog.Categories {
		groups = append(groups, categoryGroup{Category: cat, Projects: catalog.Select(s.site.Projects, cat)})
	}
	c.HTML(http.StatusOK, "portfolio.html", gin.H{
		"title":  "Portfolio",
		"groups": groups,
	})
}

// blogIndex lists posts newest first, narrowed by ?category= or ?tag=.
func (s *server) blogIndex(c *gin.Context) {
	posts := s.site.Posts.All()
	filter := ""
	if cat := c.Query("category"); cat != "" {
		posts = s.site.Posts.ByCategory(cat)
		filter = cat
	} else if tag := c.Query("tag"); tag != "" {
		posts = s.site.Posts.ByTag(tag)
		filter = "#" + tag
	}

	c.HTML(http.StatusOK, "blog.html", gin.H{
		"title":      "Blog",
		"posts":      posts,
		"categories": s.site.Posts.Categories(),
		"filter":     filter,
	})
}

func (s *server) blogPost(c *gin.Context) {
	post, err := s.site.Posts.BySlug(c.Param("slug"))
	if err != nil {
		s.notFound(c, "Blog Post Not Found")
		return
	}

	c.HTML(http.StatusOK, "post.html", gin.H{
		"title":   post.Title,
		"post":    post,
		"related": s.site.Posts.Related(post, relatedPosts),
	})
}

func (s *server) info(c *gin.Context) {
	c.HTML(http.StatusOK, "info.html", gin.H{
		"title":      "Info",
		"about":      AboutMe,
		"experience": Experience,
	})
}

func (s *server) playground(c *gin.Context) {
	var featured, rest []content.Experiment
	for _, e := range s.site.Experiments {
		if e.Featured {
			featured = append(featured, e)
		} else {
			rest = append(rest, e)
		}
	}
	c.HTML(http.StatusOK, "playground.html", gin.H{
		"title":    "Playground",
		"featured": featured,
		"rest":     rest,
	})
}
