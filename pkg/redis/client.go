package redis

import (
	"context"
	"fmt"
	"time"

	"agrofund/pkg/config"

	"github.com/go-redis/redis/v8"
)

// Client is the go-redis client type.
type Client = redis.Client

// Redis only holds the dashboard cache; a slow server means uncached reads.
const (
	dialTimeout = 2 * time.Second
	ioTimeout   = 500 * time.Millisecond
)

// NewRedisClient creates a client; it does not dial until first use.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
		MaxRetries:   1,
	})
}

// Ping checks connectivity within timeout.
func Ping(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s unreachable: %w", client.Options().Addr, err)
	}
	return nil
}
