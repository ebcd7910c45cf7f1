package store

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/rushteam/goodsrec/core"
)

// MemoryStore 是内存实现的 Store，用于测试/开发/原型。
// 支持 TTL（过期时间），但进程重启后数据丢失。
type MemoryStore struct {
	mu    sync.RWMutex
	strs  map[string]string
	lists map[string][]string
	zsets map[string]map[string]float64 // zset key -> member -> score
	ttl   map[string]time.Time
	clean *time.Ticker
}

func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		strs:  make(map[string]string),
		lists: make(map[string][]string),
		zsets: make(map[string]map[string]float64),
		ttl:   make(map[string]time.Time),
		clean: time.NewTicker(10 * time.Second),
	}
	go ms.cleanup()
	return ms
}

func (m *MemoryStore) Name() string { return "memory" }

// expired 判断 key 是否已过期（调用方需持有锁）
func (m *MemoryStore) expired(key string, now time.Time) bool {
	expire, ok := m.ttl[key]
	return ok && now.After(expire)
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.strs[key]
	if !ok || m.expired(key, time.Now()) {
		return "", core.ErrStoreNotFound
	}
	return v, nil
}

func (m *MemoryStore) SetEx(ctx context.Context, key, value string, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.strs[key] = value
	if ttlSeconds > 0 {
		m.ttl[key] = time.Now().Add(ttlDuration(ttlSeconds))
	} else {
		delete(m.ttl, key)
	}
	return nil
}

func (m *MemoryStore) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.expired(key, time.Now()) {
		m.removeLocked(key)
	}
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *MemoryStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list, ok := m.lists[key]
	if !ok || m.expired(key, time.Now()) {
		return nil, nil
	}

	n := int64(len(list))
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop += n
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return nil, nil
	}

	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out, nil
}

func (m *MemoryStore) ZAddBatch(ctx context.Context, key string, members map[string]float64) error {
	if len(members) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.expired(key, time.Now()) {
		m.removeLocked(key)
	}
	if m.zsets[key] == nil {
		m.zsets[key] = make(map[string]float64, len(members))
	}
	for member, score := range members {
		m.zsets[key][member] = score
	}
	return nil
}

func (m *MemoryStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zset, ok := m.zsets[key]
	if !ok || len(zset) == 0 || m.expired(key, time.Now()) {
		return nil, nil
	}

	// 转换为 slice，按 score 降序排序；同分按 member 字典序降序（与 Redis ZREVRANGE 一致）
	type pair struct {
		member string
		score  float64
	}
	pairs := make([]pair, 0, len(zset))
	for member, score := range zset {
		pairs = append(pairs, pair{member: member, score: score})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].member > pairs[j].member
	})

	// 处理范围
	n := int64(len(pairs))
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop += n
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return nil, nil
	}

	result := make([]string, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		result = append(result, pairs[i].member)
	}
	return result, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(key)
	return nil
}

func (m *MemoryStore) Expire(ctx context.Context, key string, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.expired(key, time.Now()) {
		m.removeLocked(key)
		return nil
	}
	if !m.existsLocked(key) {
		return nil
	}
	if ttlSeconds > 0 {
		m.ttl[key] = time.Now().Add(ttlDuration(ttlSeconds))
	} else {
		delete(m.ttl, key)
	}
	return nil
}

func (m *MemoryStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	var result []string
	match := func(key string) {
		if m.expired(key, now) {
			return
		}
		if ok, _ := path.Match(pattern, key); ok {
			result = append(result, key)
		}
	}
	for key := range m.strs {
		match(key)
	}
	for key := range m.lists {
		match(key)
	}
	for key := range m.zsets {
		match(key)
	}
	sort.Strings(result)
	return result, nil
}

func (m *MemoryStore) Close() error {
	if m.clean != nil {
		m.clean.Stop()
	}
	return nil
}

func (m *MemoryStore) existsLocked(key string) bool {
	if _, ok := m.strs[key]; ok {
		return true
	}
	if _, ok := m.lists[key]; ok {
		return true
	}
	if _, ok := m.zsets[key]; ok {
		return true
	}
	return false
}

func (m *MemoryStore) removeLocked(key string) {
	delete(m.strs, key)
	delete(m.lists, key)
	delete(m.zsets, key)
	delete(m.ttl, key)
}

func (m *MemoryStore) cleanup() {
	for range m.clean.C {
		m.mu.Lock()
		now := time.Now()
		for key, expire := range m.ttl {
			if now.After(expire) {
				m.removeLocked(key)
			}
		}
		m.mu.Unlock()
	}
}

var _ core.Store = (*MemoryStore)(nil)
