package memory

import (
	"context"
	"sync"
	"time"

	"github.com/s2cr/repair-desk/internal/core/domain"
)

type sessionEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// SessionStore implements ports.SessionStore. Expired entries are evicted
// when they are next read.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]sessionEntry
	now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]sessionEntry), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, key string, sess domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = sessionEntry{session: sess, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Load(_ context.Context, key string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	sess := e.session
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len reports the number of stored entries, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
