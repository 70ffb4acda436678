package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/designfolio/designfolio/internal/config"
	"github.com/designfolio/designfolio/internal/content"
	"github.com/designfolio/designfolio/internal/mailer"
	"github.com/designfolio/designfolio/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubMailer struct {
	err  error
	sent []mailer.Message
}

func (m *stubMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                "8080",
		Mode:                config.ModeTest,
		DataDir:             storage.Memory,
		SessionTTL:          time.Hour,
		CelebrationDuration: 5 * time.Second,
		VisitorRetention:    24 * time.Hour,
		SMTP:                config.SMTP{Host: "localhost", Port: 587, To: "owner@example.com"},
		Admin:               config.Admin{Username: "owner", Password: "s3cret"},
	}
}

func newTestServer(t *testing.T) (*server, *stubMailer) {
	t.Helper()

	site, err := content.Load()
	require.NoError(t, err)
	store, err := storage.Open(storage.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s := newServer(testConfig(), site, store, zap.NewNop())
	mail := &stubMailer{}
	s.mail = mail
	return s, mail
}

// browser keeps cookies between requests like a real visitor would.
type browser struct {
	handler http.Handler
	cookies map[string]*http.Cookie
	headers map[string]string
}

func newBrowser(h http.Handler) *browser {
	return &browser{handler: h, cookies: make(map[string]*http.Cookie), headers: make(map[string]string)}
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil)
}

func (b *browser) post(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, target, url.Values{})
}

func TestBrowsingCreatesNoSession(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())

	var visitor string
	for _, path := range []string{"/", "/info", "/projects/cardspace", "/projects/cardspace/like"} {
		w := b.get(path)
		require.Equal(t, http.StatusOK, w.Code, path)

		// the visitor cookie is re-sent on every response so it never lapses
		var sent *http.Cookie
		for _, c := range w.Result().Cookies() {
			require.NotEqual(t, sessionCookie, c.Name, path)
			if c.Name == visitorCookie {
				sent = c
			}
		}
		require.NotNil(t, sent, path)
		assert.Equal(t, int(visitorMaxAge.Seconds()), sent.MaxAge)
		if visitor == "" {
			visitor = sent.Value
		}
		assert.Equal(t, visitor, sent.Value, path)
	}
	assert.Equal(t, 0, s.sessions.Len())
}

func TestSessionIssuedOnFirstStateChange(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())

	w := b.get("/filter/branding")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, b.cookies, sessionCookie)
	id := b.cookies[sessionCookie].Value
	assert.Equal(t, int(s.cfg.SessionTTL.Seconds()), b.cookies[sessionCookie].MaxAge)

	w = b.get("/info")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, b.cookies[sessionCookie].Value)
	assert.Equal(t, 1, s.sessions.Len())
}

func TestMalformedVisitorCookieIsReplaced(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())
	b.cookies[visitorCookie] = &http.Cookie{Name: visitorCookie, Value: "evil:likedProjects"}

	b.get("/")
	_, err := uuid.Parse(b.cookies[visitorCookie].Value)
	assert.NoError(t, err)
}

func TestPagesRender(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())

	tests := []struct {
		path string
		want string
	}{
		{"/", "CardSpace"},
		{"/portfolio", "Desktop Applications"},
		{"/info", "Basalt Technologies"},
		{"/playground", "Playground"},
		{"/blog", "From Concept to Launch"},
		{"/privacy", "Do Not Track"},
		{"/contact-form", `name="fullName"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := b.get(tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestUnknownRoutesAre404(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())

	w := b.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page Not Found")
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())

	w := b.get("/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","likes_degraded":false}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())

	b.get("/projects/cardspace")
	b.post("/projects/cardspace/like")

	w := b.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `designfolio_likes_total{project="1"} 1`)
	assert.Contains(t, body, "designfolio_sessions 1")
}
