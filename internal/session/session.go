// Package session keeps the per-visitor UI state on the server: the active
// category filter, the gallery controller and the like flourish. A Session is
// keyed by a random id carried in a cookie and expires after a period of
// inactivity.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/designfolio/designfolio/internal/catalog"
	"github.com/designfolio/designfolio/internal/flourish"
	"github.com/designfolio/designfolio/internal/gallery"
)

// Session is one visitor's state. Callers hold Lock while reading or mutating
// it, which serialises that visitor's requests.
type Session struct {
	sync.Mutex

	ID          string
	Filter      catalog.Category
	Gallery     *gallery.Controller
	Celebration *flourish.Timer

	// CelebrationItem is the item whose like started Celebration.
	CelebrationItem int

	lastSeen time.Time
}

type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	ttl         time.Duration
	celebration time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewManager(ttl, celebration time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		celebration: celebration,
		now:         time.Now,
		logger:      logger,
	}
}

// Get returns the live session for id, creating a fresh one with a new id
// when id is unknown or expired. The boolean is true when a session was
// created.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.live(id); s != nil {
		return s, false
	}
	s := &Session{
		ID:          uuid.NewString(),
		Filter:      catalog.Categories[0],
		Gallery:     gallery.New(0, 0),
		Celebration: flourish.New(m.celebration),
		lastSeen:    m.now(),
	}
	m.sessions[s.ID] = s
	return s, true
}

// Peek returns the live session for id, or nil. It never creates one.
func (m *Manager) Peek(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(id)
}

// live must be called with m.mu held. A hit counts as activity.
func (m *Manager) live(id string) *Session {
	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	now := m.now()
	if now.Sub(s.lastSeen) >= m.ttl {
		return nil
	}
	s.lastSeen = now
	return s
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) >= m.ttl {
			s.Celebration.Stop()
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("expired sessions swept", zap.Int("removed", n), zap.Int("remaining", m.Len()))
			}
		}
	}
}
