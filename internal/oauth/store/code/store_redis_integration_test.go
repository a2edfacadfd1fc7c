//go:build integration

package code_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"signet/internal/oauth/models"
	"signet/internal/oauth/store/code"
	"signet/pkg/platform/sentinel"
	"signet/pkg/testutil/containers"
)

type RedisCodeStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *code.RedisStore
}

func TestRedisCodeStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCodeStoreSuite))
}

func (s *RedisCodeStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = code.NewRedis(s.redis.Client)
}

func (s *RedisCodeStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCodeStoreSuite) grant() *models.GrantContext {
	return &models.GrantContext{
		UserID:      "u1",
		ClientID:    "c1",
		RedirectURI: "https://app.example/cb",
		ExpiresIn:   600,
	}
}

// TestConcurrentConsumeSingleWinner exercises the GETDEL atomicity guarantee
// against a real server: many concurrent consumers, exactly one success.
func (s *RedisCodeStoreSuite) TestConcurrentConsumeSingleWinner() {
	ctx := context.Background()
	s.Require().NoError(s.store.Store(ctx, "contested", s.grant(), 10*time.Minute))

	const goroutines = 50
	var wg sync.WaitGroup
	var wins, misses, otherErrors atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Consume(ctx, "contested")
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, sentinel.ErrNotFound):
				misses.Add(1)
			default:
				otherErrors.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load(), "exactly one consume should succeed")
	s.Equal(int32(goroutines-1), misses.Load())
	s.Equal(int32(0), otherErrors.Load())
}

func (s *RedisCodeStoreSuite) TestTTLExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.store.Store(ctx, "short-lived", s.grant(), time.Second))

	time.Sleep(1500 * time.Millisecond)

	_, err := s.store.Consume(ctx, "short-lived")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
