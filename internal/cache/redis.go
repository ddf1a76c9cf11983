package cache

import (
	"context"
	"time"

	"cinema-ticketing/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis using the loaded config. Returns nil when
// the server is unreachable; callers degrade to uncached reads.
func NewRedisClient(config utils.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}

	return client
}
