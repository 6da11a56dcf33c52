// Package errors provides standardized error types for the tiered cache.
// It defines common error types, error wrapping, and helper functions
// for error checking and handling in the cache implementation.
//
// Package errors 提供分层缓存的标准化错误类型。
// 它定义了常见错误类型、错误包装和用于缓存实现中错误检查和处理的辅助函数。
package errors

import (
	"errors"
	"fmt"
)

// Standard errors that can be returned by the cache.
// These provide consistent error types across the cache implementation.
//
// 缓存可能返回的标准错误。
// 这些提供了缓存实现中一致的错误类型。
var (
	// ErrNotFound is returned when a key is not found in any tier.
	// 当在任何层级中都找不到键时返回ErrNotFound。
	ErrNotFound = errors.New("tiercache: key not found")

	// ErrKeyEmpty is returned when an empty key is provided.
	// 当提供空键时返回ErrKeyEmpty。
	ErrKeyEmpty = errors.New("tiercache: key is empty")

	// ErrTierNotFound is returned when an operation names an unregistered tier.
	// 当操作指定了未注册的层级时返回ErrTierNotFound。
	ErrTierNotFound = errors.New("tiercache: tier not found")

	// ErrDuplicateTier is returned when two tiers share the same name at construction.
	// 当构造时两个层级共享相同名称时返回ErrDuplicateTier。
	ErrDuplicateTier = errors.New("tiercache: duplicate tier name")

	// ErrNoTiers is returned when a cache is constructed with an empty tier list.
	// 当使用空层级列表构造缓存时返回ErrNoTiers。
	ErrNoTiers = errors.New("tiercache: no tiers configured")

	// ErrInvalidTierSize is returned when a tier is configured with a non-positive capacity.
	// 当层级配置了非正容量时返回ErrInvalidTierSize。
	ErrInvalidTierSize = errors.New("tiercache: tier max size must be positive")

	// ErrInvalidTTL is returned when an invalid TTL is provided.
	// 当提供无效的TTL时返回ErrInvalidTTL。
	ErrInvalidTTL = errors.New("tiercache: invalid TTL")

	// ErrSerializationFailed is returned when value serialization fails.
	// 当值序列化失败时返回ErrSerializationFailed。
	ErrSerializationFailed = errors.New("tiercache: serialization failed")

	// ErrDeserializationFailed is returned when value deserialization fails.
	// 当值反序列化失败时返回ErrDeserializationFailed。
	ErrDeserializationFailed = errors.New("tiercache: deserialization failed")

	// ErrClosed is returned when an operation is performed on a closed cache.
	// 当对已关闭的缓存执行操作时返回ErrClosed。
	ErrClosed = errors.New("tiercache: cache is closed")

	// ErrStoreUnavailable is returned by store adapters that cannot reach their backend.
	// The engine never propagates it to callers; it is logged and treated as a miss.
	//
	// 当存储适配器无法访问其后端时返回ErrStoreUnavailable。
	// 引擎从不将其传播给调用者；它会被记录并视为未命中。
	ErrStoreUnavailable = errors.New("tiercache: persistent store unavailable")
)

// KeyError represents an error related to a specific key.
// It wraps an underlying error with the key that caused the error.
//
// KeyError 表示与特定键相关的错误。
// 它用导致错误的键包装底层错误。
type KeyError struct {
	Key string // The key that caused the error / 导致错误的键
	Err error  // The underlying error / 底层错误
}

// Error returns the error message.
// It implements the error interface.
//
// Error 返回错误消息。
// 它实现了error接口。
//
// Returns:
//   - string: The formatted error message including the key
func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Key)
}

// Unwrap returns the underlying error.
// This allows errors.Is and errors.As to work with wrapped errors.
//
// Unwrap 返回底层错误。
// 这允许errors.Is和errors.As与包装的错误一起工作。
//
// Returns:
//   - error: The underlying error
func (e *KeyError) Unwrap() error {
	return e.Err
}

// NewKeyError creates a new KeyError.
// It associates a key with an error.
//
// NewKeyError 创建一个新的KeyError。
// 它将键与错误关联起来。
//
// Parameters:
//   - key: The key related to the error
//   - err: The underlying error
//
// Returns:
//   - *KeyError: A new KeyError instance
func NewKeyError(key string, err error) *KeyError {
	return &KeyError{Key: key, Err: err}
}

// TierError represents an error related to a specific tier.
// It wraps an underlying error with the tier name that caused the error.
//
// TierError 表示与特定层级相关的错误。
// 它用导致错误的层级名称包装底层错误。
type TierError struct {
	Tier string // The tier that caused the error / 导致错误的层级
	Err  error  // The underlying error / 底层错误
}

// Error returns the error message.
//
// Error 返回错误消息。
//
// Returns:
//   - string: The formatted error message including the tier name
func (e *TierError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Tier)
}

// Unwrap returns the underlying error.
//
// Unwrap 返回底层错误。
//
// Returns:
//   - error: The underlying error
func (e *TierError) Unwrap() error {
	return e.Err
}

// NewTierError creates a new TierError.
//
// NewTierError 创建一个新的TierError。
//
// Parameters:
//   - tier: The tier name related to the error
//   - err: The underlying error
//
// Returns:
//   - *TierError: A new TierError instance
func NewTierError(tier string, err error) *TierError {
	return &TierError{Tier: tier, Err: err}
}

// IsNotFound checks if an error indicates a missing key.
//
// IsNotFound 检查错误是否表示缺少键。
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: True if the error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTierNotFound checks if an error indicates an unknown tier name.
//
// IsTierNotFound 检查错误是否表示未知的层级名称。
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: True if the error is or wraps ErrTierNotFound
func IsTierNotFound(err error) bool {
	return errors.Is(err, ErrTierNotFound)
}
