package magiclink

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps pending tokens in redis. GETDEL gives the
// single-use guarantee without locks.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "magiclink:",
	}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) Put(ctx context.Context, token, accountID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(token), accountID, ttl).Err()
}

func (r *RedisStore) Consume(ctx context.Context, token string) (string, error) {
	val, err := r.client.GetDel(ctx, r.key(token)).Result()
	if err == redis.Nil {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
