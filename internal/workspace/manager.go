package workspace

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/react-studio/engine/pkg/logger"
)

// Manager owns the per-session stores. Sessions expire after a TTL of
// inactivity or when capacity is exceeded; eviction tears the store down and
// closes its subscriptions.
type Manager struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Store]
}

// NewManager creates a session registry bounded by maxSessions entries and the
// given idle TTL.
func NewManager(maxSessions int, ttl time.Duration) *Manager {
	onEvict := func(sessionID string, s *Store) {
		logger.L().Info("workspace session evicted", zap.String("session", sessionID))
		s.Close()
	}
	return &Manager{
		sessions: expirable.NewLRU[string, *Store](maxSessions, onEvict, ttl),
	}
}

// Get returns the store for a session, creating it on first use.
func (m *Manager) Get(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions.Get(sessionID); ok {
		return s
	}
	s := NewStore(sessionID)
	m.sessions.Add(sessionID, s)
	return s
}

// Peek returns the store for a session without creating one.
func (m *Manager) Peek(sessionID string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions.Get(sessionID)
}

// Drop evicts a session explicitly (logout, navigation away).
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions.Remove(sessionID)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions.Len()
}
