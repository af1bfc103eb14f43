package store

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

var ErrMiss = errors.New("cache miss")

// KV 进程内查询缓存的最小接口；缓存是应用实例级的，不跨进程共享
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryKV 基于 LRU 的内存 KV，超过 evictAfter 的条目自动驱逐
type MemoryKV struct {
	mu      sync.Mutex
	cache   *lru.LRU[string, kvItem]
	maxTTL  time.Duration
}

type kvItem struct {
	value   string
	expires time.Time // zero = no ttl
}

// NewMemoryKV 创建内存 KV；size 为最大条目数，evictAfter 为硬驱逐时长
func NewMemoryKV(size int, evictAfter time.Duration) *MemoryKV {
	if size <= 0 {
		size = 512
	}
	return &MemoryKV{
		cache:  lru.NewLRU[string, kvItem](size, nil, evictAfter),
		maxTTL: evictAfter,
	}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.cache.Get(key)
	if !ok {
		return "", ErrMiss
	}
	if !item.expires.IsZero() && time.Now().After(item.expires) {
		m.cache.Remove(key)
		return "", ErrMiss
	}
	return item.value, nil
}

func (m *MemoryKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var exp time.Time
	if ttl > 0 && (m.maxTTL <= 0 || ttl < m.maxTTL) {
		exp = time.Now().Add(ttl)
	}
	m.cache.Add(key, kvItem{value: value, expires: exp})
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cache.Remove(key)
	return nil
}
