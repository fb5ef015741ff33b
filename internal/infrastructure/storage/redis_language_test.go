package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *RedisLanguageStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisLanguageStore(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}

func TestRedisLanguageStore_GetSet(t *testing.T) {
	mr, store := setupMiniredis(t)
	ctx := context.Background()

	lang, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, lang)

	require.NoError(t, store.Set(ctx, 42, "en"))
	lang, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	got, err := mr.Get(defaultLanguagePrefix + "42")
	require.NoError(t, err)
	assert.Equal(t, "en", got)
	assert.Zero(t, mr.TTL(defaultLanguagePrefix+"42"))
}

func TestRedisLanguageStore_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisLanguageStoreFromClient(client, "test:")
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(context.Background(), -100, "es"))
	assert.True(t, mr.Exists("test:-100"))
}

func TestRedisLanguageStore_ServerDown(t *testing.T) {
	mr, store := setupMiniredis(t)
	mr.Close()

	_, err := store.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), 1, "en"))
}

func TestNewRedisLanguageStore_RequiresAddr(t *testing.T) {
	_, err := NewRedisLanguageStore(context.Background(), RedisConfig{})
	assert.Error(t, err)
}
