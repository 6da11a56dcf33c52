// Package codec provides interfaces and implementations for data serialization
// and deserialization used at the persistent store boundary. Values held in the
// in-memory tiers are never serialized; only write-through mirroring and fallback
// loading pass through a codec.
//
// Package codec 提供在持久存储边界使用的数据序列化和反序列化接口及实现。
// 内存层级中保存的值从不序列化；只有写穿镜像和回退加载会经过编解码器。
package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Codec defines the interface for encoding and decoding persisted values.
// Implementations of this interface can be used to customize how values
// are serialized before reaching the persistent store.
//
// Codec 定义了编码和解码持久化值的接口。
// 此接口的实现可用于自定义值在到达持久存储之前如何序列化。
type Codec interface {
	// Marshal serializes a value into bytes.
	// The value can be of any type that the codec supports.
	//
	// Marshal 将值序列化为字节。
	// 值可以是编解码器支持的任何类型。
	//
	// Parameters:
	//   - value: The value to serialize
	//
	// Returns:
	//   - []byte: The serialized bytes
	//   - error: An error if serialization fails
	Marshal(value interface{}) ([]byte, error)

	// Unmarshal deserializes bytes into a value.
	// The value parameter should be a pointer to the target type.
	//
	// Unmarshal 将字节反序列化为值。
	// value参数应该是目标类型的指针。
	//
	// Parameters:
	//   - data: The bytes to deserialize
	//   - value: A pointer to the target value
	//
	// Returns:
	//   - error: An error if deserialization fails
	Unmarshal(data []byte, value interface{}) error

	// Name returns the name of this codec.
	// This is useful for identification and debugging.
	//
	// Name 返回此编解码器的名称。
	// 这对于标识和调试很有用。
	//
	// Returns:
	//   - string: The codec name
	Name() string
}

// JSONCodec implements Codec using JSON serialization.
// It provides efficient and human-readable encoding of values.
//
// JSONCodec 使用JSON序列化实现Codec。
// 它提供高效且人类可读的值编码。
type JSONCodec struct{}

// Marshal serializes a value into JSON bytes.
//
// Marshal 将值序列化为JSON字节。
//
// Parameters:
//   - value: The value to serialize to JSON
//
// Returns:
//   - []byte: The JSON bytes
//   - error: An error if JSON serialization fails
func (c *JSONCodec) Marshal(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}

// Unmarshal deserializes JSON bytes into a value.
// The value parameter must be a pointer to the target type.
//
// Unmarshal 将JSON字节反序列化为值。
// value参数必须是目标类型的指针。
//
// Parameters:
//   - data: The JSON bytes to deserialize
//   - value: A pointer to the target value
//
// Returns:
//   - error: An error if JSON deserialization fails
func (c *JSONCodec) Unmarshal(data []byte, value interface{}) error {
	return json.Unmarshal(data, value)
}

// Name returns the name of this codec.
//
// Name 返回此编解码器的名称。
//
// Returns:
//   - string: Always returns "json"
func (c *JSONCodec) Name() string {
	return "json"
}

// NewJSONCodec creates a new JSONCodec.
//
// NewJSONCodec 创建一个新的JSONCodec。
//
// Returns:
//   - *JSONCodec: A new JSON codec instance
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// GobCodec implements Codec using Go's gob encoding.
// Gob preserves Go types more faithfully than JSON, at the cost of
// interoperability with non-Go readers of the persistent store.
//
// GobCodec 使用Go的gob编码实现Codec。
// Gob比JSON更忠实地保留Go类型，但代价是持久存储的非Go读取器无法互操作。
type GobCodec struct{}

// Marshal serializes a value into gob bytes.
//
// Marshal 将值序列化为gob字节。
//
// Parameters:
//   - value: The value to serialize
//
// Returns:
//   - []byte: The gob bytes
//   - error: An error if gob serialization fails
func (c *GobCodec) Marshal(value interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes gob bytes into a value.
// The value parameter must be a pointer to the target type.
//
// Unmarshal 将gob字节反序列化为值。
// value参数必须是目标类型的指针。
//
// Parameters:
//   - data: The gob bytes to deserialize
//   - value: A pointer to the target value
//
// Returns:
//   - error: An error if gob deserialization fails
func (c *GobCodec) Unmarshal(data []byte, value interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(value); err != nil {
		return fmt.Errorf("gob decode: %w", err)
	}
	return nil
}

// Name returns the name of this codec.
//
// Name 返回此编解码器的名称。
//
// Returns:
//   - string: Always returns "gob"
func (c *GobCodec) Name() string {
	return "gob"
}

// NewGobCodec creates a new GobCodec.
//
// NewGobCodec 创建一个新的GobCodec。
//
// Returns:
//   - *GobCodec: A new gob codec instance
func NewGobCodec() *GobCodec {
	return &GobCodec{}
}

// DefaultCodec returns the codec used when none is configured.
// JSON is the default because the persistent store may be shared with
// readers written in other languages.
//
// DefaultCodec 返回未配置时使用的编解码器。
// JSON是默认值，因为持久存储可能与用其他语言编写的读取器共享。
//
// Returns:
//   - Codec: The default codec instance
func DefaultCodec() Codec {
	return &JSONCodec{}
}
