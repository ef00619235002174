package redis

import (
	"context"
	"testing"
	"time"

	"agrofund/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisClient(&config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, Ping(context.Background(), c, time.Second))

	addr := mr.Addr()
	mr.Close()
	err := Ping(context.Background(), c, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis "+addr+" unreachable")
}
