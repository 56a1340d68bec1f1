package redis

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*KVStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	store := NewKVStoreWithClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = store.Close() })
	return store, srv
}

func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, srv := openTestStore(t)

	_, found, err := store.Get(ctx, "events")
	require.NoError(t, err, "redis.Nil is not an error")
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "events", `["1"]`))
	require.NoError(t, store.Set(ctx, "events", `["1","2"]`), "set overwrites")

	v, found, err := store.Get(ctx, "events")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["1","2"]`, v)
	assert.Zero(t, srv.TTL("events"), "values never expire")

	require.NoError(t, store.Delete(ctx, "events"))
	require.NoError(t, store.Delete(ctx, "events"), "deleting a missing key is fine")
	_, found, err = store.Get(ctx, "events")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKVStore_KeysScansEveryBatch(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	var want []string
	for i := range 2*scanBatch + 7 {
		k := fmt.Sprintf("tasks:e1:%03d", i)
		want = append(want, k)
		require.NoError(t, store.Set(ctx, k, "{}"))
	}
	require.NoError(t, store.Set(ctx, "tasks:e2:1", "{}"))
	require.NoError(t, store.Set(ctx, "notes:e1", "[]"))

	keys, err := store.Keys(ctx, "tasks:e1:")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, want, keys)

	keys, err = store.Keys(ctx, "resources:")
	require.NoError(t, err)
	assert.NotNil(t, keys)
	assert.Empty(t, keys)
}

func TestKVStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	store, srv := openTestStore(t)
	srv.Close()

	_, _, err := store.Get(ctx, "events")
	assert.Error(t, err)
	_, err = store.Keys(ctx, "events")
	assert.Error(t, err)
}

func TestNewKVStore_PingFails(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewKVStore(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, "tasks:1:", escapeGlob("tasks:1:"))
	assert.Equal(t, `a\*b\?c\[d\]`, escapeGlob("a*b?c[d]"))
	assert.Equal(t, `x\\y`, escapeGlob(`x\y`))
}
