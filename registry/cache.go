package registry

import (
	"sync"
	"time"
)

// TagCache 是进程内的商品标签缓存，采用 LRU 策略限制容量。
// 标签注册后不可变更，因此条目不做失效处理；
// 缓存对象由调用方构造并显式注入 Registry，便于测试隔离实例。
type TagCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	maxSize int
}

type cacheEntry struct {
	tag        string
	accessTime time.Time
}

// NewTagCache 创建标签缓存；maxSize <= 0 时使用默认容量
func NewTagCache(maxSize int) *TagCache {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &TagCache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
	}
}

func (c *TagCache) Get(goodsID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[goodsID]
	if !ok {
		return "", false
	}
	entry.accessTime = time.Now()
	return entry.tag, true
}

func (c *TagCache) Put(goodsID, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[goodsID] = &cacheEntry{tag: tag, accessTime: time.Now()}
	if len(c.entries) > c.maxSize {
		c.evictLRU()
	}
}

// Len 返回当前条目数
func (c *TagCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLRU 删除最久未访问的条目（调用方需持有锁）
func (c *TagCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time
	first := true

	for key, entry := range c.entries {
		if first || entry.accessTime.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.accessTime
			first = false
		}
	}

	if !first {
		delete(c.entries, oldestKey)
	}
}
