package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/designfolio/designfolio/internal/catalog"
	"github.com/designfolio/designfolio/internal/gallery"
	"github.com/designfolio/designfolio/internal/likes"
	"github.com/designfolio/designfolio/internal/session"
)

// Gallery moves, also used as metric labels.
const (
	moveOpen  = "open"
	moveClose = "close"
	moveNext  = "next"
	movePrev  = "prev"
	moveJump  = "jump"
)

// likeView is what like.html renders.
type likeView struct {
	Slug        string
	Record      likes.Record
	Celebrating bool
	RemainingMs int64
}

func (s *server) setupProjectRoutes(r *gin.RouterGroup) {
	r.GET("/filter/:category", s.filter)

	r.GET("/projects/:slug", s.project)
	r.GET("/projects/:slug/like", s.likeStatus)
	r.POST("/projects/:slug/like", s.like)

	g := r.Group("/projects/:slug/gallery")
	g.POST("/open/:index", s.galleryMove(moveOpen))
	g.POST("/close", s.galleryMove(moveClose))
	g.POST("/next", s.galleryMove(moveNext))
	g.POST("/prev", s.galleryMove(movePrev))
	g.POST("/jump/:index", s.galleryMove(moveJump))

	r.GET("/portfolio/:id", s.legacyProject)
}

// filter switches the visitor's category and returns the project grid.
func (s *server) filter(c *gin.Context) {
	cat, err := catalog.ParseCategory(c.Param("category"))
	if err != nil {
		fragmentError(c, http.StatusBadRequest, "Unknown category.")
		return
	}

	sess := s.ensureSession(c)
	sess.Lock()
	sess.Filter = cat
	sess.Unlock()

	c.HTML(http.StatusOK, "project-grid.html", s.gridView(cat))
}

func (s *server) gridView(active catalog.Category) gin.H {
	return gin.H{
		"categories": catalog.Categories,
		"active":     active,
		"projects":   catalog.Select(s.site.Projects, active),
	}
}

// project renders a project page. Unknown slugs show the first project.
func (s *server) project(c *gin.Context) {
	slug := c.Param("slug")
	item, exact, err := s.site.Projects.BySlug(slug)
	if err != nil {
		s.notFound(c, "Project Not Found")
		return
	}
	if !exact {
		s.logger.Debug("unknown project slug, showing first project",
			zap.String("slug", slug), zap.String("fallback", item.Slug()))
	}

	adj, err := catalog.Adjacents(s.site.Projects, item.ID)
	if err != nil {
		c.Error(err)
		s.notFound(c, "Project Not Found")
		return
	}

	record := s.likes.Get(visitorID(c), item.ID)
	state := gallery.State{ItemID: item.ID, ImageCount: len(item.Images)}
	like := s.likeView(nil, item, record)
	if sess := existingSession(c); sess != nil {
		sess.Lock()
		if sess.Gallery.State().ItemID != item.ID {
			sess.Celebration.Stop()
		}
		sess.Gallery.Bind(item.ID, len(item.Images))
		state = sess.Gallery.State()
		like = s.likeView(sess, item, record)
		sess.Unlock()
	}

	c.HTML(http.StatusOK, "project.html", gin.H{
		"title":    item.Name,
		"item":     item,
		"adjacent": adj,
		"gallery":  state,
		"like":     like,
	})
}

// galleryMove applies one lightbox transition and returns the lightbox.
func (s *server) galleryMove(move string) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := s.site.Projects.Lookup(c.Param("slug"))
		if err != nil {
			fragmentError(c, http.StatusNotFound, "Project not found.")
			return
		}

		sess := s.ensureSession(c)
		sess.Lock()
		defer sess.Unlock()

		g := sess.Gallery
		g.Bind(item.ID, len(item.Images))

		switch move {
		case moveOpen, moveJump:
			i, convErr := strconv.Atoi(c.Param("index"))
			if convErr != nil {
				fragmentError(c, http.StatusBadRequest, "Image index must be a number.")
				return
			}
			if move == moveOpen {
				err = g.Open(i)
			} else {
				err = g.Jump(i)
			}
		case moveNext:
			err = g.Next()
		case movePrev:
			err = g.Prev()
		case moveClose:
			g.Close()
		}

		switch {
		case errors.Is(err, gallery.ErrIndexOutOfRange):
			fragmentError(c, http.StatusBadRequest, "That image does not exist.")
			return
		case errors.Is(err, gallery.ErrNotOpen):
			fragmentError(c, http.StatusConflict, "The gallery is closed.")
			return
		case err != nil:
			c.Error(err)
			fragmentError(c, http.StatusInternalServerError, "Something went wrong.")
			return
		}

		s.metrics.GalleryMove(move)
		c.HTML(http.StatusOK, "lightbox.html", gin.H{
			"item":    item,
			"gallery": g.State(),
		})
	}
}

func (s *server) like(c *gin.Context) {
	item, err := s.site.Projects.Lookup(c.Param("slug"))
	if err != nil {
		fragmentError(c, http.StatusNotFound, "Project not found.")
		return
	}

	sess := s.ensureSession(c)
	sess.Lock()
	defer sess.Unlock()

	out := s.likes.Like(visitorID(c), item.ID)
	if out.Celebrate {
		sess.CelebrationItem = item.ID
		sess.Celebration.Trigger()
	}
	c.HTML(http.StatusOK, "like.html", s.likeView(sess, item, out.Record))
}

// likeStatus re-renders the like button; the celebrating variant polls it to
// dismiss the flourish.
func (s *server) likeStatus(c *gin.Context) {
	item, err := s.site.Projects.Lookup(c.Param("slug"))
	if err != nil {
		fragmentError(c, http.StatusNotFound, "Project not found.")
		return
	}

	record := s.likes.Get(visitorID(c), item.ID)
	sess := existingSession(c)
	if sess != nil {
		sess.Lock()
		defer sess.Unlock()
	}
	c.HTML(http.StatusOK, "like.html", s.likeView(sess, item, record))
}

// likeView must be called with sess locked. A nil sess never celebrates.
func (s *server) likeView(sess *session.Session, item catalog.Item, rec likes.Record) likeView {
	v := likeView{Slug: item.Slug(), Record: rec}
	if sess != nil && sess.CelebrationItem == item.ID && sess.Celebration.Active() {
		v.Celebrating = true
		v.RemainingMs = sess.Celebration.Remaining().Milliseconds()
	}
	return v
}

// legacyProject redirects /portfolio/<n> and /portfolio/<n>-<slug> to the
// canonical project page.
func (s *server) legacyProject(c *gin.Context) {
	raw, _, _ := strings.Cut(c.Param("id"), "-")
	id, err := strconv.Atoi(raw)
	if err != nil {
		s.notFound(c, "Project Not Found")
		return
	}
	item, err := s.site.Projects.ByID(id)
	if err != nil {
		s.notFound(c, "Project Not Found")
		return
	}
	c.Redirect(http.StatusMovedPermanently, "/projects/"+item.Slug())
}
