// Package redis provides a Redis-backed implementation of the persistent
// store contract. Redis maps onto the contract directly: GET/SET with
// expiration for reads and TTL-aware writes, DEL for removal, and SCAN for
// cursor-based enumeration.
//
// Package redis 提供持久存储契约的Redis后端实现。
// Redis直接映射到契约：GET/SET带过期用于读取和TTL感知写入，
// DEL用于删除，SCAN用于基于游标的枚举。
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Humphrey-He/tiercache/pkg/store"
)

// Config holds connection settings for the Redis store.
//
// Config 保存Redis存储的连接设置。
type Config struct {
	// Addr is the host:port of the Redis server.
	// Addr 是Redis服务器的host:port。
	Addr string `json:"addr" yaml:"addr"`

	// Password is the optional server password.
	// Password 是可选的服务器密码。
	Password string `json:"password" yaml:"password"`

	// DB is the logical database number.
	// DB 是逻辑数据库编号。
	DB int `json:"db" yaml:"db"`

	// KeyPrefix is prepended to every cache key, namespacing the cache
	// within a shared Redis instance.
	//
	// KeyPrefix 附加到每个缓存键之前，在共享的Redis实例中为缓存提供命名空间。
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

// RedisStore implements store.Store on top of a go-redis client.
//
// RedisStore 在go-redis客户端之上实现store.Store。
type RedisStore struct {
	client *redis.Client
	prefix string
}

// Compile-time interface check.
var _ store.Store = (*RedisStore)(nil)

// New creates a RedisStore from connection settings.
//
// New 从连接设置创建RedisStore。
//
// Parameters:
//   - cfg: Connection settings for the Redis server
//
// Returns:
//   - *RedisStore: A new Redis-backed store
func New(cfg Config) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{client: client, prefix: cfg.KeyPrefix}
}

// NewFromClient wraps an existing go-redis client.
// Useful when the application already manages a shared client.
//
// NewFromClient 包装现有的go-redis客户端。
// 当应用程序已经管理共享客户端时很有用。
//
// Parameters:
//   - client: The go-redis client to use
//   - keyPrefix: Namespace prefix for cache keys
//
// Returns:
//   - *RedisStore: A new Redis-backed store
func NewFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, prefix: keyPrefix}
}

// Get retrieves the stored blob for a key.
// A missing key (redis.Nil) is reported as absent, not as an error.
//
// Get 检索键的存储数据块。
// 缺失的键（redis.Nil）报告为不存在，而不是错误。
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, true, nil
}

// Put stores a blob under a key. Redis applies the TTL server-side.
//
// Put 在键下存储数据块。Redis在服务器端应用TTL。
func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error in Redis.
//
// Delete 删除键。在Redis中删除缺失的键不是错误。
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// List enumerates keys using SCAN. The returned cursor is the SCAN cursor
// rendered as a string; keys are returned without the configured prefix.
//
// SCAN's COUNT is a hint, so a page may hold fewer or more keys than Limit;
// callers iterate until the cursor comes back empty.
//
// List 使用SCAN枚举键。返回的游标是呈现为字符串的SCAN游标；
// 返回的键不带配置的前缀。
//
// SCAN的COUNT是一个提示，所以一个分页可能包含比Limit更少或更多的键；
// 调用者迭代直到游标返回为空。
func (s *RedisStore) List(ctx context.Context, opts store.ListOptions) (store.ListResult, error) {
	var cursor uint64
	if opts.Cursor != "" {
		parsed, err := strconv.ParseUint(opts.Cursor, 10, 64)
		if err != nil {
			return store.ListResult{}, fmt.Errorf("redis scan cursor %q: %w", opts.Cursor, err)
		}
		cursor = parsed
	}

	limit := int64(opts.Limit)
	if limit <= 0 {
		limit = 100
	}

	match := s.prefix + opts.Prefix + "*"
	keys, next, err := s.client.Scan(ctx, cursor, match, limit).Result()
	if err != nil {
		return store.ListResult{}, fmt.Errorf("redis scan: %w", err)
	}

	result := store.ListResult{Keys: make([]string, 0, len(keys))}
	for _, k := range keys {
		result.Keys = append(result.Keys, k[len(s.prefix):])
	}
	if next != 0 {
		result.Cursor = strconv.FormatUint(next, 10)
	}
	return result, nil
}

// Ping verifies connectivity to the Redis server.
//
// Ping 验证与Redis服务器的连接。
//
// Parameters:
//   - ctx: Context for the operation
//
// Returns:
//   - error: An error if the server is unreachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client's resources.
//
// Close 释放底层客户端的资源。
//
// Returns:
//   - error: An error if closing the client fails
func (s *RedisStore) Close() error {
	return s.client.Close()
}
