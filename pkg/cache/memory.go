package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shashiranjanraj/kasir/pkg/metrics"
)

type memoryItem struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process Store. CACHE_DRIVER=memory selects it for
// single-node runs; tests use it directly.
type Memory struct {
	mu       sync.Mutex
	items    map[string]memoryItem
	versions map[string]int64
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		items:    map[string]memoryItem{},
		versions: map[string]int64{},
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) bool {
	m.mu.Lock()
	item, ok := m.items[key]
	if ok && !item.expires.IsZero() && m.now().After(item.expires) {
		delete(m.items, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok || json.Unmarshal(item.data, dest) != nil {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues("memory").Inc()
	return true
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	item := memoryItem{data: data}
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *Memory) Version(_ context.Context, namespace string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[namespace]
}

func (m *Memory) Bump(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[namespace]++
	return nil
}
