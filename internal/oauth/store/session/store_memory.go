package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"signet/internal/oauth/models"
	"signet/pkg/platform/sentinel"
)

// MemoryStore keeps sessions in process memory for tests and single-node
// development.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	record    models.SessionRecord
	expiresAt time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, record *models.SessionRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = memoryEntry{record: *record, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Validate(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sessionID]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
	}
	return entry.record.UserID, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
