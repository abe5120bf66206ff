package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV реализует KV поверх Redis. Атомарность Put обеспечивает
// транзакционный pipeline (MULTI/EXEC).
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("redis.Get: %w", err)
	}

	return b, nil
}

func (r *RedisKV) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	out := make(map[string][]byte)

	iter := r.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		b, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("redis.Get %s: %w", key, err)
		}

		out[key] = b
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis.Scan: %w", err)
	}

	return out, nil
}

func (r *RedisKV) Put(ctx context.Context, pairs map[string][]byte) error {
	pipe := r.client.TxPipeline()

	for key, b := range pairs {
		pipe.Set(ctx, key, b, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis.TxPipeline.Exec: %w", err)
	}

	return nil
}
