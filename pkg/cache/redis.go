package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edunex/portal-academico-api/pkg/config"
)

// NewRedis returns a configured Redis client.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// Store adapts the Redis client to the plain-value operations the services
// depend on.
type Store struct {
	client *redis.Client
}

// NewStore wraps an existing Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Set stores a value with a TTL.
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Get reads a raw string value. Missing keys return redis.Nil.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

// Del removes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// SetNX stores the value only when the key is absent and reports whether
// the write happened.
func (s *Store) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}
