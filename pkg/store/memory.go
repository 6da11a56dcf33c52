package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// defaultListLimit bounds a List page when the caller does not specify one.
// defaultListLimit 在调用者未指定时限制List分页的大小。
const defaultListLimit = 100

// MemoryStore is an in-memory Store implementation.
// It honors per-key TTLs and cursor-based listing, making it suitable for
// tests, examples, and single-process deployments that want tiering semantics
// without an external store.
//
// MemoryStore 是内存中的Store实现。
// 它遵守每个键的TTL和基于游标的列表，适用于测试、示例以及
// 希望获得分层语义而无需外部存储的单进程部署。
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

// memoryItem is a stored blob with its expiry.
// memoryItem 是带有过期时间的存储数据块。
type memoryItem struct {
	data     []byte
	expireAt time.Time // zero means no expiry / 零值表示不过期
}

// NewMemoryStore creates an empty MemoryStore.
//
// NewMemoryStore 创建一个空的MemoryStore。
//
// Returns:
//   - *MemoryStore: A new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem)}
}

// Get retrieves the stored blob for a key.
// Expired items are removed lazily and reported as missing.
//
// Get 检索键的存储数据块。
// 过期的条目会被惰性删除并报告为缺失。
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !item.expireAt.IsZero() && !time.Now().Before(item.expireAt) {
		s.mu.Lock()
		// Re-check under the write lock; a Put may have refreshed the key.
		// 在写锁下重新检查；Put可能已刷新该键。
		if cur, ok := s.items[key]; ok && !cur.expireAt.IsZero() && !time.Now().Before(cur.expireAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}

	out := make([]byte, len(item.data))
	copy(out, item.data)
	return out, true, nil
}

// Put stores a blob under a key with a TTL.
//
// Put 在键下存储带TTL的数据块。
func (s *MemoryStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]byte, len(value))
	copy(data, value)

	var expireAt time.Time
	if ttl > 0 {
		expireAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.items[key] = memoryItem{data: data, expireAt: expireAt}
	s.mu.Unlock()
	return nil
}

// Delete removes a key. Missing keys are silently ignored.
//
// Delete 删除键。缺失的键会被静默忽略。
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// List enumerates keys in sorted order, one page at a time.
// The cursor is the last key of the previous page.
//
// List 按排序顺序分页枚举键。
// 游标是上一页的最后一个键。
func (s *MemoryStore) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	if err := ctx.Err(); err != nil {
		return ListResult{}, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	now := time.Now()
	s.mu.RLock()
	keys := make([]string, 0, len(s.items))
	for k, item := range s.items {
		if opts.Prefix != "" && !strings.HasPrefix(k, opts.Prefix) {
			continue
		}
		if !item.expireAt.IsZero() && !now.Before(item.expireAt) {
			continue
		}
		if opts.Cursor != "" && k <= opts.Cursor {
			continue
		}
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)

	var result ListResult
	if len(keys) > limit {
		result.Keys = keys[:limit]
		result.Cursor = keys[limit-1]
	} else {
		result.Keys = keys
	}
	return result, nil
}

// Len reports the number of stored keys, including not-yet-collected
// expired ones. Intended for tests.
//
// Len 报告存储的键数量，包括尚未回收的过期键。用于测试。
//
// Returns:
//   - int: The number of stored keys
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
