// admin.go - privacy-conscious visitor tracking and the operator dashboard
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/designfolio/designfolio/internal/config"
	"github.com/designfolio/designfolio/internal/likes"
	"github.com/designfolio/designfolio/internal/storage"
)

const (
	adminCookie       = "admin_token"
	topProjectsLimit  = 10
	recentVisitorsMax = 200
)

// ProjectLikes is one row of the dashboard's like table.
type ProjectLikes struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Likes int    `json:"likes"`
}

type AdminStats struct {
	*storage.VisitorStats
	TotalLikes      int            `json:"total_likes"`
	TopProjects     []ProjectLikes `json:"top_projects"`
	Sessions        int            `json:"sessions"`
	StorageDegraded bool           `json:"storage_degraded"`
}

// adminAuth holds the per-process login token and the IP hashing salt. Both
// are regenerated on every start, so restarting logs the operator out.
type adminAuth struct {
	token    string
	salt     string
	username string
	password string
}

func newAdminAuth(cfg *config.Config, logger *zap.Logger) *adminAuth {
	a := &adminAuth{
		token:    generateAdminToken(),
		salt:     generateAdminToken(),
		username: cfg.Admin.Username,
		password: cfg.Admin.Password,
	}

	logger.Info("admin access available at /admin/login")
	if cfg.Admin.DefaultCredentials && cfg.Mode == config.ModeDebug {
		logger.Warn("using default admin credentials, set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	logger.Info("visitor tracking enabled with hashed IP addresses")
	return a
}

func generateAdminToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("generating admin token: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// hashIP is stable per IP for the life of the process.
func (a *adminAuth) hashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(ip + a.salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// visitorTrackingMiddleware records page views with a hashed IP. Static
// files, admin pages, HTMX fragments and DNT requests are skipped.
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			c.GetHeader("HX-Request") == "true" ||
			c.GetHeader("DNT") == "1" ||
			c.Writer.Status() >= http.StatusBadRequest ||
			untracked(path) {
			return
		}

		err := s.store.RecordVisit(s.admin.hashIP(c.ClientIP()), c.GetHeader("User-Agent"), path, s.now())
		if err != nil {
			s.logger.Warn("recording visitor", zap.Error(err))
		}
	}
}

func untracked(path string) bool {
	for _, prefix := range []string{"/static/", "/images/", "/admin/", "/favicon", "/privacy"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// runPrivacyCleanup drops visitor rows older than the retention window now
// and then every interval.
func (s *server) runPrivacyCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		s.cleanupOldVisitorData()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *server) cleanupOldVisitorData() int64 {
	n, err := s.store.CleanupVisitors(s.now(), s.cfg.VisitorRetention)
	if err != nil {
		s.logger.Error("cleaning up old visitor data", zap.Error(err))
		return 0
	}
	if n > 0 {
		s.logger.Info("privacy cleanup removed old visitor records",
			zap.Int64("removed", n), zap.Duration("retention", s.cfg.VisitorRetention))
	}
	return n
}

func (s *server) getAdminStats() (*AdminStats, error) {
	visitors, err := s.store.VisitorStats(s.now())
	if err != nil {
		return nil, err
	}
	totals, err := likes.Totals(s.store)
	if err != nil {
		return nil, err
	}

	stats := &AdminStats{
		VisitorStats:    visitors,
		TopProjects:     make([]ProjectLikes, 0, topProjectsLimit),
		Sessions:        s.sessions.Len(),
		StorageDegraded: s.likes.Degraded(),
	}
	var ranked []ProjectLikes
	for _, it := range s.site.Projects.Items() {
		n := totals[it.ID]
		stats.TotalLikes += n
		if n > 0 {
			ranked = append(ranked, ProjectLikes{ID: it.ID, Name: it.Name, Slug: it.Slug(), Likes: n})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Likes > ranked[j].Likes })
	if len(ranked) > topProjectsLimit {
		ranked = ranked[:topProjectsLimit]
	}
	stats.TopProjects = append(stats.TopProjects, ranked...)
	return stats, nil
}

func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": s.cfg.VisitorRetention,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if s.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", s.cfg.Mode == config.ModeRelease, true)
			s.logger.Info("admin login", zap.String("from", s.admin.hashIP(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		s.logger.Warn("failed admin login", zap.String("from", s.admin.hashIP(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.cfg.Mode == config.ModeRelease, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.admin.middleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.getAdminStats()
		if err != nil {
			s.logger.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"title": "Dashboard",
			"stats": stats,
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.getAdminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisitors(recentVisitorsMax)
		if err != nil {
			s.logger.Error("loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"title":    "Visitors",
			"visitors": visitors,
		})
	})

	admin.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		removed := s.cleanupOldVisitorData()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.getAdminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.logger.Info("admin stats exported", zap.String("by", s.admin.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
