package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/ichiba/pkg/config"
)

// pingTimeout bounds the startup connectivity check
const pingTimeout = 5 * time.Second

// Client wraps the Redis connection. Redis自体は任意機能:
// 無効時はパススルーで動き、呼び出し側の nil チェックは不要。
// ⭐ SSOT: Redis接続はここでのみ管理
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New connects to Redis when enabled in config, otherwise returns a
// disabled pass-through client.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Enabled reports whether a live Redis connection is behind this client
func (c *Client) Enabled() bool {
	return c.enabled
}

// Redis exposes the underlying client for cache and rate-limit helpers
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
