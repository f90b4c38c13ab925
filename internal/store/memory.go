package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) CreateSession(_ context.Context, s *Session) error {
	now := m.now()
	s.Token = uuid.New()
	s.CreatedAt = now
	s.ExpiresAt = now.Add(m.ttl)

	cp := *s
	m.mu.Lock()
	m.sessions[s.Token] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, token uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok || s.Expired(m.now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) SaveRun(_ context.Context, token uuid.UUID, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || s.Expired(m.now()) {
		return ErrSessionNotFound
	}
	s.Run = run
	return nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, token uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, token)
	return nil
}

func (m *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	st := &Stats{}
	for _, s := range m.sessions {
		if s.Expired(now) {
			continue
		}
		st.ActiveSessions++
		if s.Run != nil {
			st.WithResults++
		}
	}
	return st, nil
}

func (m *MemoryStore) Close() error { return nil }
