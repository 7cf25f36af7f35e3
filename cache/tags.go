package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tagKeyPrefix  = "tag:"
	pathKeyPrefix = "path:"
)

const (
	TagCarts    = "carts"
	TagProducts = "products"
	TagShipping = "shipping"
)

func CartTag(cartID string) string {
	return "cart:" + cartID
}

// TagCache stores rendered responses under a path key and indexes them by
// tag so revalidation can drop them in bulk. A nil client disables caching.
type TagCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTagCache(client *redis.Client, ttl time.Duration) *TagCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TagCache{client: client, ttl: ttl}
}

func (c *TagCache) Enabled() bool {
	return c != nil && c.client != nil
}

func PathKey(path string) string {
	return pathKeyPrefix + path
}

func tagKey(tag string) string {
	return tagKeyPrefix + tag
}

func (c *TagCache) Get(ctx context.Context, path string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrCacheMiss
	}
	data, err := c.client.Get(ctx, PathKey(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (c *TagCache) Set(ctx context.Context, path string, value []byte, tags ...string) error {
	if !c.Enabled() {
		return nil
	}
	key := PathKey(path)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, c.ttl)
		for _, tag := range tags {
			pipe.SAdd(ctx, tagKey(tag), key)
			pipe.Expire(ctx, tagKey(tag), c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateTag deletes every entry indexed under tag and returns how many
// keys were dropped.
func (c *TagCache) InvalidateTag(ctx context.Context, tag string) (int, error) {
	if !c.Enabled() {
		return 0, nil
	}
	members, err := c.client.SMembers(ctx, tagKey(tag)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis smembers failed: %w", err)
	}
	keys := append(members, tagKey(tag))
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("redis delete failed: %w", err)
	}
	return len(members), nil
}

func (c *TagCache) InvalidatePath(ctx context.Context, path string) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.client.Del(ctx, PathKey(path)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
