// Package code implements the authorization Code Store: a TTL-bound,
// single-owner key space with strict consume-once semantics.
package code

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"signet/internal/oauth/models"
	"signet/pkg/platform/sentinel"
)

const keyPrefix = "authcode:"

// RedisStore backs the Code Store with Redis. Single use is enforced by
// GETDEL: the fetch and the delete are one server-side operation, so two
// concurrent consumes of the same code can never both succeed, regardless of
// how many coordinator processes are running.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Store writes the serialized grant context under the code with the given TTL.
func (s *RedisStore) Store(ctx context.Context, code string, grant *models.GrantContext, ttl time.Duration) error {
	payload, err := json.Marshal(grant)
	if err != nil {
		return fmt.Errorf("marshal grant context: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+code, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store authorization code: %w", err)
	}
	return nil
}

// Consume atomically fetches and deletes the grant context. A code that never
// existed, expired, or was already consumed returns sentinel.ErrNotFound.
func (s *RedisStore) Consume(ctx context.Context, code string) (*models.GrantContext, error) {
	raw, err := s.client.GetDel(ctx, keyPrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("authorization code not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("consume authorization code: %w", err)
	}

	var grant models.GrantContext
	if err := json.Unmarshal([]byte(raw), &grant); err != nil {
		return nil, fmt.Errorf("unmarshal grant context: %w", err)
	}
	return &grant, nil
}
