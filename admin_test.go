package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func login(t *testing.T, b *browser) {
	t.Helper()
	w := b.do(http.MethodPost, "/admin/login", url.Values{"username": {"owner"}, "password": {"s3cret"}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	require.Contains(t, b.cookies, adminCookie)
}

func TestAdminRequiresLogin(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())

	for _, path := range []string{"/admin/dashboard", "/admin/visitors", "/admin/api/stats", "/admin/export/stats"} {
		w := b.get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"), path)
	}

	w := b.do(http.MethodPost, "/admin/login", url.Values{"username": {"owner"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.NotContains(t, b.cookies, adminCookie)
}

func TestAdminLoginLogout(t *testing.T) {
	s, _ := newTestServer(t)
	b := newBrowser(s.routes())
	login(t, b)

	w := b.get("/admin/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Most liked projects")

	w = b.get("/admin/logout")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.NotContains(t, b.cookies, adminCookie)

	w = b.get("/admin/dashboard")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAdminStatsAggregateLikesAcrossVisitors(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.routes()

	for i := 0; i < 3; i++ {
		v := newBrowser(h)
		v.post("/projects/focusflow/like")
		if i == 0 {
			v.post("/projects/cardspace/like")
		}
	}

	admin := newBrowser(h)
	login(t, admin)
	w := admin.get("/admin/api/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalLikes  int            `json:"total_likes"`
		TopProjects []ProjectLikes `json:"top_projects"`
		Sessions    int            `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 4, stats.TotalLikes)
	assert.Equal(t, 3, stats.Sessions)
	require.Len(t, stats.TopProjects, 2)
	assert.Equal(t, ProjectLikes{ID: 3, Name: "FocusFlow", Slug: "focusflow", Likes: 3}, stats.TopProjects[0])
	assert.Equal(t, ProjectLikes{ID: 1, Name: "CardSpace", Slug: "cardspace", Likes: 1}, stats.TopProjects[1])
}

func TestVisitorTracking(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.routes()

	v := newBrowser(h)
	v.get("/")
	v.get("/projects/cardspace")
	v.get("/static/site.css")
	v.post("/projects/cardspace/like")

	v.headers["HX-Request"] = "true"
	v.get("/filter/branding")
	delete(v.headers, "HX-Request")

	quiet := newBrowser(h)
	quiet.headers["DNT"] = "1"
	quiet.get("/")

	stats, err := s.store.VisitorStats(time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalVisitors)
	assert.EqualValues(t, 1, stats.UniqueVisitors)

	admin := newBrowser(h)
	login(t, admin)
	w := admin.get("/admin/visitors")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/projects/cardspace")
	assert.Contains(t, w.Body.String(), s.admin.hashIP("192.0.2.1"))
	assert.NotContains(t, w.Body.String(), "192.0.2.1")
}

func TestAdminExportAndCleanup(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.routes()

	require.NoError(t, s.store.RecordVisit("old", "ua", "/", time.Now().Add(-48*time.Hour)))
	require.NoError(t, s.store.RecordVisit("new", "ua", "/", time.Now()))

	admin := newBrowser(h)
	login(t, admin)

	w := admin.get("/admin/export/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=admin-stats.json", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), `"total_visitors":2`)

	w = admin.post("/admin/privacy/delete-visitor-data")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Privacy cleanup complete","removed":1}`, w.Body.String())
}

func TestHashIPIsStablePerProcess(t *testing.T) {
	s, _ := newTestServer(t)
	other, _ := newTestServer(t)

	assert.Equal(t, s.admin.hashIP("203.0.113.9"), s.admin.hashIP("203.0.113.9"))
	assert.Len(t, s.admin.hashIP("203.0.113.9"), 16)
	assert.NotEqual(t, s.admin.hashIP("203.0.113.9"), other.admin.hashIP("203.0.113.9"))
}
