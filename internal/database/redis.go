package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisOptions bundles the cache connection settings.
type RedisOptions struct {
	URL      string
	PoolSize int
	Logger   zerolog.Logger
}

// ConnectRedis configures a Redis client and verifies the connection.
func ConnectRedis(opts RedisOptions) (*redis.Client, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}

	parsed, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	if opts.PoolSize > 0 {
		parsed.PoolSize = opts.PoolSize
	}

	client := redis.NewClient(parsed)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	opts.Logger.Info().Int("pool_size", parsed.PoolSize).Msg("connected to redis")

	return client, nil
}
