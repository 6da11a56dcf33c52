// Package loader provides load-through helpers that populate the cache from
// a data source on miss. Concurrent misses for the same key are collapsed
// into a single backend load so the source is not stampeded.
//
// Package loader 提供回源加载辅助工具，在未命中时从数据源填充缓存。
// 对同一键的并发未命中会合并为一次后端加载，避免击穿数据源。
package loader

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Humphrey-He/tiercache/pkg/cache"
	terrors "github.com/Humphrey-He/tiercache/pkg/errors"
)

// Loader is the interface that wraps the basic Load method.
//
// Load retrieves data for the given key from a data source.
// It returns the loaded value, a TTL for the cache entry, and any error
// encountered. A zero TTL means the destination tier's default applies.
//
// Loader 是包装基本 Load 方法的接口。
//
// Load 从数据源检索给定键的数据。
// 它返回加载的值、缓存条目的TTL以及遇到的任何错误。
// TTL 为零时使用目标层的默认值。
type Loader[T any] interface {
	Load(ctx context.Context, key string) (value T, ttl time.Duration, err error)
}

// LoaderFunc is a function type that implements the Loader interface.
//
// LoaderFunc 是实现 Loader 接口的函数类型。
type LoaderFunc[T any] func(ctx context.Context, key string) (T, time.Duration, error)

// Load calls the function itself.
//
// Load 调用函数本身。
func (f LoaderFunc[T]) Load(ctx context.Context, key string) (T, time.Duration, error) {
	return f(ctx, key)
}

// NewFunctionLoader creates a Loader from a function that retrieves data.
// Entries loaded through it use the destination tier's default TTL.
//
// NewFunctionLoader 从检索数据的函数创建一个 Loader。
// 通过它加载的条目使用目标层的默认TTL。
func NewFunctionLoader[T any](fn func(ctx context.Context, key string) (T, error)) Loader[T] {
	return LoaderFunc[T](func(ctx context.Context, key string) (T, time.Duration, error) {
		value, err := fn(ctx, key)
		return value, 0, err
	})
}

// LoadThrough combines a cache with a Loader. Get serves hits from the
// cache and fills misses from the loader, deduplicating concurrent loads
// per key.
//
// LoadThrough 将缓存与 Loader 组合。Get 从缓存提供命中，
// 未命中时通过加载器填充，并对同一键的并发加载去重。
type LoadThrough[T any] struct {
	cache  cache.ICache
	loader Loader[T]
	group  singleflight.Group
}

// NewLoadThrough creates a LoadThrough over the given cache and loader.
//
// NewLoadThrough 基于给定的缓存和加载器创建 LoadThrough。
func NewLoadThrough[T any](c cache.ICache, l Loader[T]) *LoadThrough[T] {
	return &LoadThrough[T]{cache: c, loader: l}
}

// Get returns the value for key, loading it from the backend on a miss.
// A successful load is written back to the cache before returning. Loader
// errors are returned as-is; the cache is left untouched in that case.
//
// Parameters:
//   - ctx: Context for cache and backend operations
//   - key: The key to retrieve
//
// Returns:
//   - T: The cached or freshly loaded value
//   - error: An error from the cache, the loader, or a type mismatch
//
// Get 返回键对应的值，未命中时从后端加载。
// 加载成功后先写回缓存再返回。加载器错误原样返回，此时缓存不变。
//
// 参数:
//   - ctx: 缓存和后端操作的上下文
//   - key: 要检索的键
//
// 返回:
//   - T: 缓存的或新加载的值
//   - error: 来自缓存、加载器或类型不匹配的错误
func (lt *LoadThrough[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	val, found, err := lt.cache.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if found {
		typed, ok := val.(T)
		if !ok {
			return zero, errTypeMismatch(key)
		}
		return typed, nil
	}

	// Collapse concurrent loads for the same key into one backend call.
	// 将同一键的并发加载合并为一次后端调用。
	result, err, _ := lt.group.Do(key, func() (interface{}, error) {
		value, ttl, err := lt.loader.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		var opts []cache.SetOption
		if ttl > 0 {
			opts = append(opts, cache.WithSetTTL(ttl))
		}
		if err := lt.cache.Set(ctx, key, value, opts...); err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, errTypeMismatch(key)
	}
	return typed, nil
}

// errTypeMismatch 缓存中的值类型与请求的类型不符。
func errTypeMismatch(key string) error {
	return fmt.Errorf("loader: unexpected value type for key %q: %w", key, terrors.ErrDeserializationFailed)
}
