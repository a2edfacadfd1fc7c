package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signet/internal/oauth/models"
	"signet/pkg/platform/sentinel"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client), mr
}

func TestRedisStore_SetAndValidate(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	require.NoError(t, store.Set(ctx, "sid-1", &models.SessionRecord{UserID: "u1"}, 15*time.Minute))

	userID, err := store.Validate(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	// Validate does not consume; the session stays resolvable.
	userID, err = store.Validate(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestRedisStore_ValidateExpiredSession(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Set(ctx, "sid-1", &models.SessionRecord{UserID: "u1"}, 15*time.Minute))
	mr.FastForward(15*time.Minute + time.Second)

	_, err := store.Validate(ctx, "sid-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRedisStore_ValidateUnknownSession(t *testing.T) {
	store, _ := newRedisStore(t)
	_, err := store.Validate(context.Background(), "never-stored")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	require.NoError(t, store.Set(ctx, "sid-1", &models.SessionRecord{UserID: "u1"}, 15*time.Minute))
	require.NoError(t, store.Delete(ctx, "sid-1"))

	_, err := store.Validate(ctx, "sid-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "sid-1"), "delete is idempotent")
}

func TestRedisStore_KeysAreNamespaced(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Set(ctx, "sid-1", &models.SessionRecord{UserID: "u1"}, 15*time.Minute))
	assert.True(t, mr.Exists("sess:sid-1"))
}
