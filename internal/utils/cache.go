package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem 包装缓存数据和过期时间
type cacheItem[V any] struct {
	Data      V
	ExpiresAt time.Time
}

// TTLCache is a size-bounded LRU whose entries also expire.
type TTLCache[V any] struct {
	lruCache *lru.Cache[string, cacheItem[V]]
	ttl      time.Duration
	now      func() time.Time
}

func NewTTLCache[V any](size int, ttl time.Duration) (*TTLCache[V], error) {
	l, err := lru.New[string, cacheItem[V]](size)
	if err != nil {
		return nil, err
	}
	return &TTLCache[V]{lruCache: l, ttl: ttl, now: time.Now}, nil
}

func (c *TTLCache[V]) Set(key string, data V) {
	c.lruCache.Add(key, cacheItem[V]{
		Data:      data,
		ExpiresAt: c.now().Add(c.ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 false
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	val, ok := c.lruCache.Get(key)
	if !ok {
		return zero, false
	}

	if c.now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return zero, false
	}

	return val.Data, true
}
