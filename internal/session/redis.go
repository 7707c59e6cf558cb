package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ydaci/lillehelperplatform/internal/account"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the user under session:<name>, for clients that share a
// session across machines.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, name string) *RedisStore {
	return &RedisStore{client: client, key: "session:" + name}
}

func (s *RedisStore) Load(ctx context.Context) (*account.User, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var user account.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *RedisStore) Save(ctx context.Context, user account.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
