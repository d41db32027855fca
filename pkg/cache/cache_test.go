package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/cache"
)

type listing struct {
	Names []string `json:"names"`
}

func TestMemoryRoundTripAndVersioning(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()

	key := cache.Key("products", store.Version(ctx, "products"), "page=1")
	require.NoError(t, store.Set(ctx, key, listing{Names: []string{"tea"}}, time.Minute))

	var got listing
	require.True(t, store.Get(ctx, key, &got))
	assert.Equal(t, []string{"tea"}, got.Names)

	require.NoError(t, store.Bump(ctx, "products"))
	fresh := cache.Key("products", store.Version(ctx, "products"), "page=1")
	assert.NotEqual(t, key, fresh)
	assert.False(t, store.Get(ctx, fresh, &got))

	require.NoError(t, store.Del(ctx, key))
	assert.False(t, store.Get(ctx, key, &got))
}

func TestConnectWithoutRedisIsNoop(t *testing.T) {
	cfg, err := config.FromMap(nil)
	require.NoError(t, err)

	store, err := cache.Connect(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, cache.Noop{}, store)

	var dest listing
	require.NoError(t, store.Set(context.Background(), "k", listing{}, time.Minute))
	assert.False(t, store.Get(context.Background(), "k", &dest))
}

func TestConnectSelectsDriver(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{"CACHE_DRIVER": "memory", "REDIS_ADDR": "127.0.0.1:1"})
	require.NoError(t, err)
	store, err := cache.Connect(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &cache.Memory{}, store)

	var dest listing
	require.NoError(t, store.Set(context.Background(), "k", listing{Names: []string{"tea"}}, time.Minute))
	assert.True(t, store.Get(context.Background(), "k", &dest))

	cfg, err = config.FromMap(map[string]string{"CACHE_DRIVER": "none", "REDIS_ADDR": "127.0.0.1:1"})
	require.NoError(t, err)
	store, err = cache.Connect(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, cache.Noop{}, store)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "categories:v3:all", cache.Key("categories", 3, "all"))
}
