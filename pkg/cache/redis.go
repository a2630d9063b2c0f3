package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/mentora-api/pkg/config"
)

const keyPrefix = "mentora"

// NewRedis returns a configured Redis client, verified with a ping bounded by timeout.
func NewRedis(ctx context.Context, cfg config.RedisConfig, timeout time.Duration) (*redis.Client, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     Addr(cfg),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", Addr(cfg), err)
	}

	return client, nil
}

// Addr renders host:port for cfg.
func Addr(cfg config.RedisConfig) string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// Key builds a namespaced cache key, e.g. Key("courses", "user", "42") => "mentora:courses:user:42".
func Key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}
