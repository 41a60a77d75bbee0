package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gymcheck/checkin-api/internal/infrastructure/config"
)

// fallbackTimeout applies when cfg.Timeout is unset, e.g. in tests that
// build a RedisConfig by hand.
const fallbackTimeout = 5 * time.Second

// clientOptions maps the REDIS_* settings onto go-redis options. Every
// network phase shares the same timeout.
func clientOptions(cfg config.RedisConfig) *redis.Options {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = fallbackTimeout
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolTimeout:  timeout,
	}
}

// Connect opens the client used by the daily check-in guard and the login
// throttle. The server must answer a PING before Connect returns.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := clientOptions(cfg)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
