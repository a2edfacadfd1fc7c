package code

import (
	"context"
	"fmt"
	"sync"
	"time"

	"signet/internal/oauth/models"
	"signet/pkg/platform/sentinel"
)

// MemoryStore keeps authorization codes in process memory for tests and
// single-node development. Consume holds the lock across the lookup and the
// delete, giving the same one-winner guarantee as the Redis GETDEL path
// within a single process.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]memoryEntry
}

type memoryEntry struct {
	grant     models.GrantContext
	expiresAt time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{codes: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Store(_ context.Context, code string, grant *models.GrantContext, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = memoryEntry{grant: *grant, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, code string) (*models.GrantContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[code]
	if !ok {
		return nil, fmt.Errorf("authorization code not found: %w", sentinel.ErrNotFound)
	}
	delete(s.codes, code)
	if time.Now().After(entry.expiresAt) {
		return nil, fmt.Errorf("authorization code not found: %w", sentinel.ErrNotFound)
	}
	grant := entry.grant
	return &grant, nil
}
