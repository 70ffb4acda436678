package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/designfolio/designfolio/internal/catalog"
)

func TestGetCreatesAndReuses(t *testing.T) {
	m := NewManager(time.Hour, time.Second, nil)

	s, created := m.Get("")
	require.True(t, created)
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.MobileApplications, s.Filter)
	assert.False(t, s.Gallery.State().Open)

	again, created := m.Get(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)
}

func TestGetRejectsMalformedID(t *testing.T) {
	m := NewManager(time.Hour, time.Second, nil)
	s, created := m.Get("not-a-uuid")
	assert.True(t, created)
	assert.NotEqual(t, "not-a-uuid", s.ID)
}

func TestExpiredSessionIsReplaced(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager(time.Minute, time.Second, nil)
	m.now = func() time.Time { return now }

	s, _ := m.Get("")
	s.Filter = catalog.Branding

	now = now.Add(2 * time.Minute)
	fresh, created := m.Get(s.ID)
	assert.True(t, created)
	assert.NotEqual(t, s.ID, fresh.ID)
	assert.Equal(t, catalog.MobileApplications, fresh.Filter)
}

func TestPeekNeverCreates(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager(time.Minute, time.Second, nil)
	m.now = func() time.Time { return now }

	assert.Nil(t, m.Peek(""))
	assert.Nil(t, m.Peek(uuid.NewString()))
	assert.Equal(t, 0, m.Len())

	s, _ := m.Get("")
	now = now.Add(50 * time.Second)
	assert.Same(t, s, m.Peek(s.ID))

	// the peek above kept it alive
	now = now.Add(50 * time.Second)
	assert.Same(t, s, m.Peek(s.ID))

	now = now.Add(time.Minute)
	assert.Nil(t, m.Peek(s.ID))
}

func TestSweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager(time.Minute, time.Second, nil)
	m.now = func() time.Time { return now }

	old, _ := m.Get("")
	now = now.Add(30 * time.Second)
	m.Get("")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
	_, created := m.Get(old.ID)
	assert.True(t, created)
}

func TestRunStopsOnCancel(t *testing.T) {
	m := NewManager(time.Minute, time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
