package backups

import "github.com/redis/go-redis/v9"

// NewRedis creates a Redis-backed backup repository with the real clock
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client:       client,
		TimeProvider: &RealTimeProvider{},
	})
}
