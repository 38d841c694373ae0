// internal/store/redis.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the local state with a Redis instance. Meant for kiosk-style
// deployments where several client processes on one machine share the same
// "browser": they all see the same identity and active-lobby pointer.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// ConnectRedis initializes a redis-backed store and verifies connectivity.
// keyPrefix namespaces the client's keys (e.g. "groupie:").
func ConnectRedis(addr string, db int, keyPrefix string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("store: failed to connect to Redis at %s: %w", addr, err)
	}
	return &Redis{rdb: rdb, prefix: keyPrefix}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", ErrNoKey
	}
	if err != nil {
		return "", fmt.Errorf("store: redis GET %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("store: redis SET %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("store: redis DEL %s: %w", key, err)
	}
	return nil
}
