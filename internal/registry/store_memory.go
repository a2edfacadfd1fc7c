package registry

import (
	"context"
	"fmt"
	"sync"

	"signet/pkg/platform/sentinel"
)

// MemoryClientStore keeps client registrations in process memory for tests
// and single-node development.
type MemoryClientStore struct {
	mu      sync.RWMutex
	clients map[string]Client // keyed by client_id
}

func NewMemoryClientStore() *MemoryClientStore {
	return &MemoryClientStore{clients: make(map[string]Client)}
}

func (s *MemoryClientStore) Create(_ context.Context, client *Client) error {
	if err := client.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.clients[client.ClientID]; exists {
		return fmt.Errorf("client_id %q: %w", client.ClientID, sentinel.ErrAlreadyUsed)
	}
	s.clients[client.ClientID] = *client
	return nil
}

func (s *MemoryClientStore) GetByClientID(_ context.Context, clientID string) (*Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %q: %w", clientID, sentinel.ErrNotFound)
	}
	return &c, nil
}

// MemoryUserStore keeps resource owners in process memory.
type MemoryUserStore struct {
	mu    sync.RWMutex
	byID  map[string]User
	names map[string]string // username -> id
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byID: make(map[string]User), names: make(map[string]string)}
}

func (s *MemoryUserStore) Create(_ context.Context, user *User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.names[user.Username]; exists {
		return fmt.Errorf("username %q: %w", user.Username, sentinel.ErrAlreadyUsed)
	}
	s.byID[user.ID] = *user
	s.names[user.Username] = user.ID
	return nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, sentinel.ErrNotFound)
	}
	return &u, nil
}

func (s *MemoryUserStore) GetByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.names[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, sentinel.ErrNotFound)
	}
	u := s.byID[id]
	return &u, nil
}
