package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/designfolio/designfolio/internal/config"
	"github.com/designfolio/designfolio/internal/content"
	"github.com/designfolio/designfolio/internal/likes"
	"github.com/designfolio/designfolio/internal/logging"
	"github.com/designfolio/designfolio/internal/mailer"
	"github.com/designfolio/designfolio/internal/metrics"
	"github.com/designfolio/designfolio/internal/session"
	"github.com/designfolio/designfolio/internal/storage"
	"github.com/designfolio/designfolio/internal/typewriter"
)

//go:embed templates/*.html static
var assets embed.FS

const (
	sessionCookie = "designfolio_session"
	visitorCookie = "designfolio_visitor"
	sessionKey    = "session"
	visitorKey    = "visitor"

	// visitorMaxAge is the longest cookie lifetime browsers honour. The
	// cookie is re-sent on every response, so an active visitor keeps it.
	visitorMaxAge = 400 * 24 * time.Hour

	sweepInterval   = time.Minute
	cleanupInterval = 24 * time.Hour
)

type server struct {
	cfg      *config.Config
	site     *content.Site
	store    *storage.Store
	likes    *likes.Register
	sessions *session.Manager
	metrics  *metrics.Collector
	mail     mailer.Sender
	admin    *adminAuth
	frames   []typewriter.Frame
	logger   *zap.Logger
	now      func() time.Time
}

func newServer(cfg *config.Config, site *content.Site, store *storage.Store, logger *zap.Logger) *server {
	collector := metrics.NewCollector()
	s := &server{
		cfg:      cfg,
		site:     site,
		store:    store,
		sessions: session.NewManager(cfg.SessionTTL, cfg.CelebrationDuration, logger),
		metrics:  collector,
		admin:    newAdminAuth(cfg, logger),
		frames:   typewriter.Sequence(HeroTitles, typewriter.DefaultTiming),
		logger:   logger,
		now:      time.Now,
	}
	s.likes = likes.NewRegister(store,
		likes.WithLogger(logger),
		likes.WithFallback(likes.NewMemoryStore()),
		likes.WithObserver(collector))
	s.mail = mailer.NewBreaker(
		mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Pass,
			To:       cfg.SMTP.To,
		}),
		mailer.DefaultBreakerConfig(),
		logger)
	collector.TrackSessions(s.sessions.Len)
	return s
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(s.logger), s.metrics.Middleware())

	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(assets, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", "./images")

	r.GET("/metrics", s.metrics.Handler())
	r.GET("/healthz", s.healthz)

	site := r.Group("/")
	site.Use(s.sessionMiddleware(), s.visitorTrackingMiddleware())
	s.setupPageRoutes(site)
	s.setupProjectRoutes(site)
	s.setupContactRoutes(site)

	api := r.Group("/api")
	s.setupAPIRoutes(api)

	s.setupAdminRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		s.notFound(c, "Page Not Found")
	})
	return r
}

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

// run serves HTTP and the background janitors until ctx is done or one of
// them fails.
func (s *server) run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return s.sessions.Run(ctx, sweepInterval)
	})
	g.Go(func() error {
		return s.runPrivacyCleanup(ctx, cleanupInterval)
	})
	return g.Wait()
}

// sessionMiddleware refreshes the visitor cookie, which scopes likes, and
// attaches the visitor's UI session when one is live. Sessions are only
// created by ensureSession, on the first change of UI state.
func (s *server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)

		raw, _ := c.Cookie(visitorCookie)
		visitor := uuid.NewString()
		if id, err := uuid.Parse(raw); err == nil {
			visitor = id.String()
		}
		s.setCookie(c, visitorCookie, visitor, visitorMaxAge)
		c.Set(visitorKey, visitor)

		if id, err := c.Cookie(sessionCookie); err == nil {
			if sess := s.sessions.Peek(id); sess != nil {
				s.setCookie(c, sessionCookie, sess.ID, s.cfg.SessionTTL)
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

func (s *server) setCookie(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", "", s.cfg.Mode == config.ModeRelease, true)
}

// visitorID is the like scope of the current visitor.
func visitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}

// existingSession returns the visitor's live session, or nil before their
// first change of UI state.
func existingSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		return v.(*session.Session)
	}
	return nil
}

// ensureSession returns the visitor's session, creating it and issuing its
// cookie on first use. Call it before writing the response body.
func (s *server) ensureSession(c *gin.Context) *session.Session {
	if sess := existingSession(c); sess != nil {
		return sess
	}
	sess, _ := s.sessions.Get("")
	s.setCookie(c, sessionCookie, sess.ID, s.cfg.SessionTTL)
	c.Set(sessionKey, sess)
	return sess
}

func (s *server) healthz(c *gin.Context) {
	if err := s.store.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "likes_degraded": s.likes.Degraded()})
}

func (s *server) notFound(c *gin.Context, title string) {
	c.HTML(http.StatusNotFound, "not-found.html", gin.H{
		"title": title,
	})
}

// fragmentError renders an inline HTMX error in place of the target.
func fragmentError(c *gin.Context, status int, msg string) {
	c.HTML(status, "fragment-error.html", gin.H{
		"error": msg,
	})
}
