package database

import (
	"context"
	"fmt"
	"os"

	"dogwalking/logger"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the Redis client used for per-booking transition locks.
func InitRedis(ctx context.Context) (*redis.Client, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Success("Successfully connected to Redis")
	return client, nil
}
