// Package store defines the contract the tiered cache requires from a
// persistent key/value store, along with a reference in-memory implementation.
// The store is the durable, size-unconstrained layer behind the in-memory
// tiers: slow relative to them, visible across process restarts, and always
// optional — the engine degrades to memory-only behavior when a store call fails.
//
// Package store 定义了分层缓存对持久键值存储的要求契约，以及一个参考的内存实现。
// 存储是内存层级背后的持久化、无大小限制的层：相对于内存层级较慢，
// 跨进程重启可见，并且始终是可选的——当存储调用失败时，引擎降级为仅内存行为。
package store

import (
	"context"
	"time"
)

// Store is the persistent key/value store consumed by the cache engine.
// All methods may block on I/O and must honor the supplied context.
// Implementations must be safe for concurrent use.
//
// Store 是缓存引擎使用的持久键值存储。
// 所有方法都可能在I/O上阻塞，并且必须遵守提供的上下文。
// 实现必须支持并发安全使用。
type Store interface {
	// Get retrieves the stored blob for a key.
	// Returns the blob and true if present and unexpired, or false if missing.
	// An error indicates the store could not be consulted at all.
	//
	// Get 检索键的存储数据块。
	// 如果存在且未过期，返回数据块和true；如果缺失，返回false。
	// 错误表示完全无法访问存储。
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores a blob under a key with a provider-side TTL.
	// A non-positive TTL stores the blob without expiry.
	//
	// Put 在键下存储数据块，并带有提供方侧的TTL。
	// 非正TTL表示存储数据块且不过期。
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	//
	// Delete 删除键。删除缺失的键不是错误。
	Delete(ctx context.Context, key string) error

	// List enumerates keys in pages using an opaque cursor.
	// An empty cursor in the result means enumeration is complete.
	//
	// List 使用不透明游标分页枚举键。
	// 结果中的空游标表示枚举完成。
	List(ctx context.Context, opts ListOptions) (ListResult, error)
}

// ListOptions controls a single page of key enumeration.
//
// ListOptions 控制键枚举的单个分页。
type ListOptions struct {
	// Cursor is the opaque continuation token from a previous page.
	// Empty for the first page.
	//
	// Cursor 是来自上一页的不透明继续令牌。第一页为空。
	Cursor string

	// Prefix restricts enumeration to keys with this prefix.
	//
	// Prefix 将枚举限制为具有此前缀的键。
	Prefix string

	// Limit is the maximum number of keys per page. Implementations
	// apply their own default when it is non-positive.
	//
	// Limit 是每页的最大键数。当其为非正时，实现应用自己的默认值。
	Limit int
}

// ListResult is one page of key enumeration.
//
// ListResult 是键枚举的一个分页。
type ListResult struct {
	// Keys are the keys in this page.
	// Keys 是此分页中的键。
	Keys []string

	// Cursor continues enumeration; empty means no more pages.
	// Cursor 继续枚举；为空表示没有更多分页。
	Cursor string
}
