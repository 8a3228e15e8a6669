package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domain "gymclass/internal/domain/schedule"
	interfaces "gymclass/internal/interfaces/infrastructure"

	"github.com/go-redis/redis/v8"
)

var _ interfaces.IdempotencyStore = (*RedisIdempotencyStore)(nil)

// RedisIdempotencyStore keeps the first response for each Idempotency-Key so
// retried booking requests replay it.
type RedisIdempotencyStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client redis.UniversalClient) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		prefix: "idempotency_key:",
		ttl:    24 * time.Hour,
	}
}

func (r *RedisIdempotencyStore) Create(ctx context.Context, record *domain.IdempotencyRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency record: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+record.Key, string(data), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency record in Redis: %w", err)
	}

	return nil
}

func (r *RedisIdempotencyStore) GetByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, interfaces.ErrIdempotencyKeyNotFound
		}
		return nil, fmt.Errorf("failed to get idempotency record from Redis: %w", err)
	}

	var record domain.IdempotencyRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency record: %w", err)
	}

	return &record, nil
}

func (r *RedisIdempotencyStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete idempotency record from Redis: %w", err)
	}
	return nil
}
