package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const featuredKey = "articles:featured"

// Featured caches the encoded featured-articles payload. A miss is reported
// through the bool result, not an error.
type Featured interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, payload []byte) error
	Invalidate(ctx context.Context) error
}

type RedisFeatured struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          0,
		DialTimeout: 2 * time.Second,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return rdb, nil
}

func NewRedisFeatured(rdb *redis.Client, ttl time.Duration) *RedisFeatured {
	return &RedisFeatured{rdb: rdb, ttl: ttl}
}

func (c *RedisFeatured) Get(ctx context.Context) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, featuredKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisFeatured) Set(ctx context.Context, payload []byte) error {
	return c.rdb.Set(ctx, featuredKey, payload, c.ttl).Err()
}

func (c *RedisFeatured) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, featuredKey).Err()
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context) ([]byte, bool, error) { return nil, false, nil }

func (Nop) Set(context.Context, []byte) error { return nil }

func (Nop) Invalidate(context.Context) error { return nil }
