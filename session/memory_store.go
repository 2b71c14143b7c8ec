package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (ms *MemoryStore) Save(ctx context.Context, s *Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[s.ID] = clone(*s)
	return nil
}

func (ms *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	s, ok := ms.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clone(s)
	return &c, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(ms.sessions, id)
	return nil
}

func (ms *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	var n int64
	for id, s := range ms.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(ms.sessions, id)
			n++
		}
	}
	return n, nil
}

func clone(s Session) Session {
	s.SearchHistory = append([]string{}, s.SearchHistory...)
	return s
}
