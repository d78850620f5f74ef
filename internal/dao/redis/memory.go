package redis

import (
	"context"
	"path"
	"sync"
	"time"
)

type memoryEntry struct {
	value    string
	expireAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// MemoryCache 进程内缓存实现，未配置 Redis 时使用，测试中也用它替代 Redis
// SubmitTask 同步执行任务
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*memoryEntry)}
}

// lookup 调用方需持有锁
func (m *MemoryCache) lookup(key string) *memoryEntry {
	e, ok := m.entries[key]
	if !ok {
		return nil
	}
	if e.expired(time.Now()) {
		delete(m.entries, key)
		return nil
	}
	return e
}

func expireAt(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = &memoryEntry{value: value, expireAt: expireAt(ttl)}
	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.lookup(key); e != nil {
		return e.value, nil
	}
	return "", nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// DeleteByPattern 使用 glob 匹配，与 Redis SCAN MATCH 的常见用法一致
func (m *MemoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *MemoryCache) SubmitTask(action func()) {
	action()
}

var _ AsyncCacheService = (*MemoryCache)(nil)
