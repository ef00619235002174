package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) (*miniredis.Miniredis, *RedisKV) {
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return mr, NewRedisKV(c)
}

func TestRedisKV_GetMiss(t *testing.T) {
	_, kv := newTestKV(t)
	_, err := kv.Get(context.Background(), "dashboard:admin")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisKV_SetGetTTL(t *testing.T) {
	mr, kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "dashboard:admin", `{"pending_payments":3}`, time.Minute))
	val, err := kv.Get(ctx, "dashboard:admin")
	require.NoError(t, err)
	assert.Equal(t, `{"pending_payments":3}`, val)

	mr.FastForward(2 * time.Minute)
	_, err = kv.Get(ctx, "dashboard:admin")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisKV_ScanAndDel(t *testing.T) {
	_, kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "dashboard:admin", "a", 0))
	require.NoError(t, kv.Set(ctx, "dashboard:investor:u-1", "b", 0))
	require.NoError(t, kv.Set(ctx, "other", "c", 0))

	keys, err := kv.ScanKeys(ctx, "dashboard:*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dashboard:admin", "dashboard:investor:u-1"}, keys)

	require.NoError(t, kv.Del(ctx, keys...))
	keys, err = kv.ScanKeys(ctx, "dashboard:*")
	require.NoError(t, err)
	assert.Empty(t, keys)
	require.NoError(t, kv.Del(ctx))
}

func TestJSONHelpers(t *testing.T) {
	_, kv := newTestKV(t)
	ctx := context.Background()

	type snapshot struct {
		Pending int `json:"pending"`
	}
	require.NoError(t, SetJSON(ctx, kv, "k", snapshot{Pending: 7}, time.Minute))

	var out snapshot
	require.NoError(t, GetJSON(ctx, kv, "k", &out))
	assert.Equal(t, 7, out.Pending)

	require.NoError(t, kv.Set(ctx, "bad", "{", time.Minute))
	assert.Error(t, GetJSON(ctx, kv, "bad", &out))
}
