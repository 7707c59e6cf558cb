package teacher

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ydaci/lillehelperplatform/internal/account"

	"github.com/redis/go-redis/v9"
)

const directoryKey = "teachers:directory"

// Cache stores a copy of the whole teacher directory.
type Cache interface {
	Get(ctx context.Context) ([]account.Teacher, bool, error)
	Set(ctx context.Context, teachers []account.Teacher) error
	Invalidate(ctx context.Context) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) ([]account.Teacher, bool, error) {
	value, err := c.client.Get(ctx, directoryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var teachers []account.Teacher
	if err := json.Unmarshal(value, &teachers); err != nil {
		return nil, false, err
	}
	return teachers, true, nil
}

func (c *RedisCache) Set(ctx context.Context, teachers []account.Teacher) error {
	data, err := json.Marshal(teachers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, directoryKey, data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, directoryKey).Err()
}
