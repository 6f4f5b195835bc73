package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. A zero TTL keeps them until deleted.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create implements Store.
func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[s.ID]; ok && !m.expired(e) {
		return ErrExists
	}
	m.sessions[s.ID] = m.entry(s)
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || m.expired(e) {
		return nil, ErrNotFound
	}
	return e.session.Clone(), nil
}

// Update implements Store. Updating refreshes the TTL.
func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[s.ID]
	if !ok || m.expired(e) {
		delete(m.sessions, s.ID)
		return ErrNotFound
	}
	m.sessions[s.ID] = m.entry(s)
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	delete(m.sessions, id)
	if !ok || m.expired(e) {
		return ErrNotFound
	}
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor calls Sweep every interval until ctx is done.
func (m *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Len returns the number of stored sessions, expired ones included until swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) entry(s *Session) memoryEntry {
	e := memoryEntry{session: s.Clone()}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	return e
}

func (m *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}
