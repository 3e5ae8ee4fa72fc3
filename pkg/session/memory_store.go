package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// sweepEvery is how many writes pass between scans for expired sessions.
const sweepEvery = 64

// MemoryStore keeps sessions in process. Used when Redis is not configured
// and in tests; sessions do not survive a restart. Expired entries are
// dropped on read and by a sweep every sweepEvery writes.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	writes   int
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session), now: time.Now}
}

func (m *MemoryStore) Create(_ context.Context, s Session) error {
	if s.ID == "" {
		return fmt.Errorf("session: missing session id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writes%sweepEvery == 0 {
		m.sweepLocked()
	}
	m.sessions[s.ID] = s.clone()
	return nil
}

func (m *MemoryStore) sweepLocked() {
	now := m.now()
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			delete(m.sessions, id)
		}
	}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if !s.ExpiresAt.After(m.now()) {
		delete(m.sessions, sessionID)
		return nil, nil
	}
	return s.clone(), nil
}

func (m *MemoryStore) Update(ctx context.Context, s Session) error {
	return m.Create(ctx, s)
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
