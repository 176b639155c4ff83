package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchyard/pkg/adapters/redis"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunProjectStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.ProjectRecord{ID: "short-lived"}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "short-lived")

	mr.FastForward(2 * time.Second)
	_, err = store.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	// The index is pruned against wall-clock time.
	time.Sleep(1200 * time.Millisecond)
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.ProjectRecord{ID: "my-project"}))

	assert.True(t, mr.Exists("custom:app:my-project"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")
}

func TestRedisCache(t *testing.T) {
	mr, client := newClient(t)
	cache := redis.NewCache(client, "switchyard:cache:")
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "manifest")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "manifest", []byte(`{"versions":[]}`), time.Minute))
	data, ok, err := cache.Get(ctx, "manifest")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"versions":[]}`, string(data))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "manifest")
	require.NoError(t, err)
	assert.False(t, ok)
}
