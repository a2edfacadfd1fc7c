// Package session implements the Session Store: browser sessions written at
// login, validated at authorize time, and removed at logout.
package session

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

const keyPrefix = "sess:"

// RedisStore backs the Session Store with Redis. Expiry is delegated to the
// key TTL, so a session that outlives its window simply stops resolving.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Set writes the serialized session record under the session ID with the
// given TTL.
func (s *RedisStore) Set(ctx context.Context, sessionID string, record *models.SessionRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Validate resolves the session ID to the user it belongs to. A session that
// never existed, expired, or was deleted returns sentinel.ErrNotFound.
func (s *RedisStore) Validate(ctx context.Context, sessionID string) (string, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("validate session: %w", err)
	}

	var record models.SessionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return "", fmt.Errorf("unmarshal session record: %w", err)
	}
	return record.UserID, nil
}

// Delete removes the session. Deleting a session that does not exist is not
// an error; logout is idempotent.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
