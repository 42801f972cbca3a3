package redis

import (
	"context"
	"time"

	"apply4me/internal/config"

	goredis "github.com/redis/go-redis/v9"
)

// NewClient creates a Redis client from configuration and verifies the
// connection. Redis is optional in this service; callers skip construction
// entirely when no address is configured.
func NewClient(cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
