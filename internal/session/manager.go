package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/liliang-cn/pdfchat/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

// Manager tracks live sessions in an in-memory TTL cache. Expiry stands in
// for logout-by-abandonment; there is no persistence across restarts.
type Manager struct {
	cache *gocache.Cache
}

// NewManager creates a session manager with the given idle TTL and sweep interval
func NewManager(ttl, cleanup time.Duration) *Manager {
	return &Manager{cache: gocache.New(ttl, cleanup)}
}

// Create starts a new session on the main view
func (m *Manager) Create() *Session {
	s := newSession(uuid.New().String())
	m.cache.Set(s.ID, s, gocache.DefaultExpiration)
	return s
}

// Get returns a live session and refreshes its TTL
func (m *Manager) Get(id string) (*Session, error) {
	v, ok := m.cache.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	s := v.(*Session)
	m.cache.Set(id, s, gocache.DefaultExpiration)
	return s, nil
}
