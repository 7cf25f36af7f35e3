package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"toy-store/models"
)

const DefaultShippingTTL = 15 * time.Second

var ErrCacheMiss = errors.New("cache miss")

// ShippingKey is the cart signature. A new UpdatedAt means a new key, so a
// cart mutation never reads options computed before it.
type ShippingKey struct {
	CartID    string
	RegionID  string
	UpdatedAt time.Time
}

func (k ShippingKey) String() string {
	return fmt.Sprintf("%s:%s:%d", k.CartID, k.RegionID, k.UpdatedAt.UnixNano())
}

type ShippingFetchFunc func(ctx context.Context) ([]models.ShippingOption, error)

type ShippingOptionsCache interface {
	GetOrFetch(ctx context.Context, key ShippingKey, fetch ShippingFetchFunc) ([]models.ShippingOption, error)
	Purge(ctx context.Context) error
}

type shippingEntry struct {
	options   []models.ShippingOption
	expiresAt time.Time
}

// MemoryShippingCache is the process-local implementation. Entries are only
// ever written whole under their key.
type MemoryShippingCache struct {
	mu      sync.Mutex
	entries map[string]map[string]shippingEntry
	ttl     time.Duration
	now     func() time.Time
	sfg     singleflight.Group
}

func NewMemoryShippingCache(ttl time.Duration) *MemoryShippingCache {
	if ttl <= 0 {
		ttl = DefaultShippingTTL
	}
	return &MemoryShippingCache{
		entries: make(map[string]map[string]shippingEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryShippingCache) GetOrFetch(ctx context.Context, key ShippingKey, fetch ShippingFetchFunc) ([]models.ShippingOption, error) {
	k := key.String()

	c.mu.Lock()
	c.pruneLocked(key.CartID)
	if e, ok := c.entries[key.CartID][k]; ok {
		c.mu.Unlock()
		return e.options, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sfg.Do(k, func() (interface{}, error) {
		options, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, options)
		return options, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ShippingOption), nil
}

func (c *MemoryShippingCache) store(key ShippingKey, options []models.ShippingOption) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byKey, ok := c.entries[key.CartID]
	if !ok {
		byKey = make(map[string]shippingEntry)
		c.entries[key.CartID] = byKey
	}
	byKey[key.String()] = shippingEntry{
		options:   options,
		expiresAt: c.now().Add(c.ttl),
	}
}

// pruneLocked drops expired entries of one cart only.
func (c *MemoryShippingCache) pruneLocked(cartID string) {
	byKey, ok := c.entries[cartID]
	if !ok {
		return
	}
	now := c.now()
	for k, e := range byKey {
		if !now.Before(e.expiresAt) {
			delete(byKey, k)
		}
	}
	if len(byKey) == 0 {
		delete(c.entries, cartID)
	}
}

func (c *MemoryShippingCache) Purge(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]shippingEntry)
	return nil
}

// Len counts stored entries, expired ones included.
func (c *MemoryShippingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, byKey := range c.entries {
		n += len(byKey)
	}
	return n
}
