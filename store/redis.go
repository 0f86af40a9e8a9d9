package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores the blob in a Redis string. A positive TTL expires the
// session after that much inactivity; every Set refreshes it.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(opt *redis.Options, ttl time.Duration) *Redis {
	return &Redis{Client: redis.NewClient(opt), TTL: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.Client.Set(ctx, key, value, r.TTL).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.Client.Del(ctx, key).Err()
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
