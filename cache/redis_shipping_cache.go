package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"toy-store/models"
)

const shippingKeyPrefix = "shipping_options:"

// RedisShippingCache shares shipping options between instances. Redis expiry
// takes the place of pruning.
type RedisShippingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
	sfg    singleflight.Group
}

func NewRedisShippingCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisShippingCache {
	if ttl <= 0 {
		ttl = DefaultShippingTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisShippingCache{client: client, ttl: ttl, logger: logger}
}

func shippingCacheKey(key ShippingKey) string {
	return shippingKeyPrefix + key.String()
}

func (r *RedisShippingCache) GetOrFetch(ctx context.Context, key ShippingKey, fetch ShippingFetchFunc) ([]models.ShippingOption, error) {
	options, err := r.get(ctx, key)
	if err == nil {
		return options, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("shipping cache get failed", zap.String("cart_id", key.CartID), zap.Error(err))
	}

	v, err, _ := r.sfg.Do(key.String(), func() (interface{}, error) {
		fresh, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if errSet := r.set(ctx, key, fresh); errSet != nil {
			r.logger.Warn("shipping cache set failed", zap.String("cart_id", key.CartID), zap.Error(errSet))
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ShippingOption), nil
}

func (r *RedisShippingCache) get(ctx context.Context, key ShippingKey) ([]models.ShippingOption, error) {
	data, err := r.client.Get(ctx, shippingCacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var options []models.ShippingOption
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, fmt.Errorf("unmarshal shipping options failed: %w", err)
	}
	return options, nil
}

func (r *RedisShippingCache) set(ctx context.Context, key ShippingKey, options []models.ShippingOption) error {
	data, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("marshal shipping options failed: %w", err)
	}
	if err := r.client.Set(ctx, shippingCacheKey(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisShippingCache) Purge(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, shippingKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete failed: %w", err)
		}
	}
	return iter.Err()
}
