package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TypeSingle  = "redis"
	TypeCluster = "redisCluster"
	pingTimeout = 1500 * time.Millisecond
)

// ErrUnknownType is returned for an unsupported Config.Type.
var ErrUnknownType = errors.New("wrong redis type")

// NewRedis creates a client for cfg and pings it. The client is returned even
// when the ping fails so callers may decide to run degraded.
func NewRedis(cfg Config) (redis.UniversalClient, error) {
	switch cfg.Type {
	case TypeSingle, "":
		return ping(newRedis(cfg))
	case TypeCluster:
		return ping(newRedisCluster(cfg))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}
}

func newRedis(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            cfg.Address,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		ConnMaxIdleTime: 170 * time.Second,
		DialTimeout:     time.Second,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
	})
}

func newRedisCluster(cfg Config) *redis.ClusterClient {
	return redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:           cfg.Addresses,
		Password:        cfg.Password,
		PoolSize:        cfg.PoolSize,
		ConnMaxLifetime: 15 * time.Minute,
		DialTimeout:     time.Second,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
	})
}

func ping(client redis.UniversalClient) (redis.UniversalClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return client, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
