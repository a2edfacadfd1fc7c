//go:build integration

package registry_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"signet/internal/registry"
	"signet/pkg/platform/sentinel"
	"signet/pkg/testutil/containers"
)

type PostgresRegistrySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	clients  *registry.PostgresClientStore
	users    *registry.PostgresUserStore
}

func TestPostgresRegistrySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRegistrySuite))
}

func (s *PostgresRegistrySuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(registry.EnsureSchema(context.Background(), s.postgres.Pool))
	s.clients = registry.NewPostgresClientStore(s.postgres.Pool)
	s.users = registry.NewPostgresUserStore(s.postgres.Pool)
}

func (s *PostgresRegistrySuite) SetupTest() {
	s.postgres.Exec(s.T(), "TRUNCATE clients, users")
}

func (s *PostgresRegistrySuite) newClient(clientID string) *registry.Client {
	now := time.Now()
	return &registry.Client{
		ID:                     uuid.NewString(),
		Name:                   "Test Client",
		ClientID:               clientID,
		ClientSecret:           "s3cret",
		RedirectURIs:           []string{"https://app.example/cb"},
		PostLogoutRedirectURIs: []string{"https://app.example/goodbye"},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

func (s *PostgresRegistrySuite) TestClientRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.clients.Create(ctx, s.newClient("c1")))

	got, err := s.clients.GetByClientID(ctx, "c1")
	s.Require().NoError(err)
	s.Equal("c1", got.ClientID)
	s.Equal("s3cret", got.ClientSecret)
	s.Equal([]string{"https://app.example/cb"}, got.RedirectURIs)
}

func (s *PostgresRegistrySuite) TestClientGetUnknown() {
	_, err := s.clients.GetByClientID(context.Background(), "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentClientIDCollision verifies that concurrent creation with the
// same client_id results in exactly one success.
func (s *PostgresRegistrySuite) TestConcurrentClientIDCollision() {
	ctx := context.Background()

	const goroutines = 50
	var wg sync.WaitGroup
	var wins, collisions atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.clients.Create(ctx, s.newClient("contested"))
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				collisions.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load(), "exactly one create should win")
	s.Equal(int32(goroutines-1), collisions.Load())
}

func (s *PostgresRegistrySuite) TestUserRoundTrip() {
	ctx := context.Background()
	user := &registry.User{
		ID:           uuid.NewString(),
		Username:     "alice",
		Email:        "alice@example.com",
		Name:         "Alice Example",
		PasswordHash: "$2a$10$fakehash",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	s.Require().NoError(s.users.Create(ctx, user))

	byName, err := s.users.GetByUsername(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user.ID, byName.ID)
	s.True(byName.IsActive)

	byID, err := s.users.GetByID(ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)
}

func (s *PostgresRegistrySuite) TestUserDuplicateUsername() {
	ctx := context.Background()
	first := &registry.User{ID: uuid.NewString(), Username: "alice", Email: "a@example.com", CreatedAt: time.Now()}
	s.Require().NoError(s.users.Create(ctx, first))

	dup := &registry.User{ID: uuid.NewString(), Username: "alice", Email: "b@example.com", CreatedAt: time.Now()}
	s.ErrorIs(s.users.Create(ctx, dup), sentinel.ErrAlreadyUsed)
}
