package holds

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps holds in a mutex-guarded map. It is the default backend:
// holds are ephemeral, and losing them on restart only forces the partner to
// re-hold.
type MemoryStore struct {
	mu    sync.RWMutex
	holds map[string]*Hold
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{holds: make(map[string]*Hold)}
}

func (s *MemoryStore) Put(_ context.Context, hold *Hold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *hold
	s.holds[hold.ID] = &copied
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Hold, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hold, ok := s.holds[id]
	if !ok {
		return nil, ErrHoldNotFound
	}
	copied := *hold
	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.holds, id)
	return nil
}

func (s *MemoryStore) PurgeExpired(_ context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for id, hold := range s.holds {
		if hold.Expired(now) {
			delete(s.holds, id)
			purged++
		}
	}
	return purged
}

// Len reports the number of stored holds, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.holds)
}
