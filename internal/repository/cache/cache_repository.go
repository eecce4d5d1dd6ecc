package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/milan-history-map/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const narrationKeyPrefix = "narration:"

type narrationCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewNarrationCache - кеш готовых нарраций; ttl <= 0 означает хранение без срока
func NewNarrationCache(redis *Redis, ttl time.Duration) repository.NarrationCache {
	return &narrationCache{
		client: redis.Client(),
		logger: redis.logger,
		ttl:    ttl,
	}
}

func narrationKey(poiID string) string {
	return narrationKeyPrefix + poiID
}

func (r *narrationCache) GetNarration(ctx context.Context, poiID string) (string, bool, error) {
	val, err := r.get(ctx, narrationKey(poiID))
	if err != nil || val == nil {
		return "", false, err
	}
	return string(val), true, nil
}

func (r *narrationCache) SetNarration(ctx context.Context, poiID, text string) error {
	return r.set(ctx, narrationKey(poiID), []byte(text), r.ttl)
}

func (r *narrationCache) DeleteNarration(ctx context.Context, poiID string) error {
	return r.delete(ctx, narrationKey(poiID))
}

func (r *narrationCache) get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *narrationCache) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *narrationCache) delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}
