package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/designfolio/designfolio/internal/likes"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Memory)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrationsApplied(t *testing.T) {
	s := openTestStore(t)
	versions, err := s.AppliedMigrations()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)

	// re-running is a no-op
	require.NoError(t, s.migrate())
	versions, err = s.AppliedMigrations()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err := reopened.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestKeyValue(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("a", "2"))
	v, ok, err := s.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	require.NoError(t, s.Remove("a"))
	_, ok, err = s.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScan(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Set("u1:project_1_likes", "1"))
	require.NoError(t, s.Set("u2:project_1_likes", "1"))
	require.NoError(t, s.Set("u1:likedProjects", `{"1":true}`))

	got, err := s.Scan("*:project_*_likes")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestBacksLikeRegister(t *testing.T) {
	s := openTestStore(t)
	r := likes.NewRegister(s)

	assert.Equal(t, 1, r.Like("visitor-1", 4).Record.Count)
	assert.Equal(t, 1, r.Like("visitor-1", 4).Record.Count)
	r.Like("visitor-2", 4)
	assert.False(t, r.Degraded())

	totals, err := likes.Totals(s)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{4: 2}, totals)
}

func TestVisitorStats(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordVisit("aaa", "ua", "/", now.Add(-time.Hour)))
	require.NoError(t, s.RecordVisit("aaa", "ua", "/blog", now.Add(-2*time.Hour)))
	require.NoError(t, s.RecordVisit("bbb", "ua", "/", now.Add(-3*24*time.Hour)))
	require.NoError(t, s.RecordVisit("ccc", "ua", "/", now.Add(-30*24*time.Hour)))

	stats, err := s.VisitorStats(now)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalVisitors)
	assert.EqualValues(t, 3, stats.UniqueVisitors)
	assert.EqualValues(t, 2, stats.VisitorsToday)
	assert.EqualValues(t, 3, stats.VisitorsThisWeek)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathCount{Path: "/", Views: 3}, stats.TopPaths[0])
	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, "/", stats.RecentVisitors[0].Path)
	assert.Equal(t, now.Add(-time.Hour), stats.RecentVisitors[0].Timestamp)
}

func TestCleanupVisitors(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordVisit("old", "ua", "/", now.AddDate(-2, 0, 0)))
	require.NoError(t, s.RecordVisit("new", "ua", "/", now.Add(-time.Minute)))

	n, err := s.CleanupVisitors(now, 365*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	recent, err := s.RecentVisitors(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "new", recent[0].HashedIP)
}
