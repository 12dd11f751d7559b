package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// CacheKeyPrefix is the key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL applies when a caller passes no TTL
	DefaultCacheTTL = 5 * time.Minute
)

// CacheService stores JSON values with a TTL.
type CacheService struct {
	kv KV
}

func NewCacheService(kv KV) *CacheService {
	return &CacheService{kv: kv}
}

// Get decodes a cached value into dest. A miss is (false, nil).
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, ok, err := c.kv.Get(ctx, CacheKeyPrefix+key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value; a non-positive ttl uses DefaultCacheTTL.
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, CacheKeyPrefix+key, string(data), ttl)
}

// Delete removes a value from cache
func (c *CacheService) Delete(ctx context.Context, key string) error {
	return c.kv.Del(ctx, CacheKeyPrefix+key)
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s:%s", resource, identifier)
}

// analyticsKey is the community analytics entry for one calendar day.
func analyticsKey(today string) string {
	return CacheKey("analytics", today)
}
