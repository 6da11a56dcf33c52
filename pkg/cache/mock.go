package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Humphrey-He/tiercache/pkg/errors"
)

// MockCache is a lightweight single-map ICache implementation for tests.
// It honors TTLs and capacity but has no tiering, persistence, or
// background tasks, which keeps test behavior fully deterministic.
//
// MockCache 是用于测试的轻量级单映射ICache实现。
// 它遵守TTL和容量，但没有分层、持久化或后台任务，
// 这使测试行为完全确定。
type MockCache struct {
	name    string
	maxSize int

	mu    sync.RWMutex
	items map[string]mockItem
	stats Stats
}

// mockItem 带过期时间的模拟条目
type mockItem struct {
	value      interface{}
	expiration time.Time
}

// Interface check.
var _ ICache = (*MockCache)(nil)

// NewMockCache creates a mock cache instance.
//
// NewMockCache 创建模拟缓存实例。
//
// Parameters:
//   - name: The name of the cache instance
//   - maxSize: Maximum number of entries; inserts beyond it drop an arbitrary entry
//
// Returns:
//   - *MockCache: A new mock cache
func NewMockCache(name string, maxSize int) *MockCache {
	return &MockCache{
		name:    name,
		maxSize: maxSize,
		items:   make(map[string]mockItem),
		stats: Stats{
			Tiers: []TierStats{{Name: name, MaxSize: maxSize}},
		},
	}
}

// Get 实现ICache.Get
func (m *MockCache) Get(ctx context.Context, key string) (interface{}, bool, error) {
	if key == "" {
		return nil, false, errors.ErrKeyEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, found := m.items[key]
	if !found {
		m.stats.Misses++
		return nil, false, nil
	}
	if !item.expiration.IsZero() && time.Now().After(item.expiration) {
		delete(m.items, key)
		m.stats.Misses++
		m.stats.Expired++
		return nil, false, nil
	}

	m.stats.Hits++
	return item.value, true, nil
}

// Set 实现ICache.Set；忽略层级选项，仅遵守TTL
func (m *MockCache) Set(ctx context.Context, key string, value interface{}, opts ...SetOption) error {
	if key == "" {
		return errors.ErrKeyEmpty
	}

	var options SetOptions
	for _, opt := range opts {
		opt(&options)
	}

	var expiration time.Time
	if options.TTL > 0 {
		expiration = time.Now().Add(options.TTL)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists && m.maxSize > 0 && len(m.items) >= m.maxSize {
		for victim := range m.items {
			delete(m.items, victim)
			m.stats.Evictions++
			break
		}
	}
	m.items[key] = mockItem{value: value, expiration: expiration}
	m.stats.Sets++
	return nil
}

// Delete 实现ICache.Delete
func (m *MockCache) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.ErrKeyEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, found := m.items[key]
	delete(m.items, key)
	m.stats.Deletes++
	return found, nil
}

// Clear 实现ICache.Clear
func (m *MockCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]mockItem)
	return nil
}

// ClearTier treats the whole mock as one tier.
// ClearTier 将整个模拟视为一个层级。
func (m *MockCache) ClearTier(ctx context.Context, tier string) error {
	if tier != m.name {
		return errors.NewTierError(tier, errors.ErrTierNotFound)
	}
	return m.Clear(ctx)
}

// Stats 实现ICache.Stats
func (m *MockCache) Stats(ctx context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := m.stats
	snapshot.Tiers = []TierStats{{
		Name:    m.name,
		Items:   int64(len(m.items)),
		MaxSize: m.maxSize,
		Hits:    m.stats.Hits,
		Misses:  m.stats.Misses,
	}}
	return &snapshot, nil
}

// Size 实现ICache.Size
func (m *MockCache) Size(ctx context.Context) ([]TierSize, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return []TierSize{{Tier: m.name, Items: len(m.items), MaxSize: m.maxSize}}, nil
}

// Close 实现ICache.Close
func (m *MockCache) Close() error {
	return nil
}
