package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gymclass/internal/config"
	interfaces "gymclass/internal/interfaces/infrastructure"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var _ interfaces.CacheService = (*RedisCache)(nil)

// RedisCache mirrors derived occupancy snapshots for listing endpoints. The
// booking ledger never reads it; all values are best-effort copies written
// after commit.
type RedisCache struct {
	client redis.UniversalClient
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{
		client: rdb,
	}
}

func NewRedisCacheWithConfig(cfg *config.CacheConfig) *RedisCache {
	return NewRedisCache(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), cfg.Password, cfg.DB)
}

// GetClient exposes the underlying client for components sharing the same
// Redis instance, such as the idempotency store.
func (r *RedisCache) GetClient() redis.UniversalClient {
	return r.client
}

func occupancyKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session:occupancy:%s", sessionID.String())
}

func (r *RedisCache) SetOccupancy(ctx context.Context, sessionID uuid.UUID, occ interfaces.SessionOccupancy, ttl time.Duration) error {
	data, err := json.Marshal(occ)
	if err != nil {
		return fmt.Errorf("failed to marshal occupancy: %w", err)
	}

	if err := r.client.Set(ctx, occupancyKey(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set occupancy in cache: %w", err)
	}

	return nil
}

func (r *RedisCache) GetOccupancy(ctx context.Context, sessionID uuid.UUID) (*interfaces.SessionOccupancy, error) {
	val, err := r.client.Get(ctx, occupancyKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("session occupancy not cached")
		}
		return nil, fmt.Errorf("failed to get occupancy from cache: %w", err)
	}

	var occ interfaces.SessionOccupancy
	if err := json.Unmarshal([]byte(val), &occ); err != nil {
		return nil, fmt.Errorf("invalid occupancy value in cache: %w", err)
	}

	return &occ, nil
}

func (r *RedisCache) DeleteOccupancy(ctx context.Context, sessionID uuid.UUID) error {
	if err := r.client.Del(ctx, occupancyKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete occupancy from cache: %w", err)
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
