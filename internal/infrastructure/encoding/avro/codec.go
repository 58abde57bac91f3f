package avro

import (
	"fmt"
	"sync"

	"github.com/linkedin/goavro/v2"
)

// Codec wraps a goavro codec for thread-safe encode/decode.
type Codec struct {
	codec *goavro.Codec
	mu    sync.Mutex
}

// NewCodec creates a codec from an Avro schema string.
func NewCodec(schema string) (*Codec, error) {
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create avro codec: %w", err)
	}
	return &Codec{codec: codec}, nil
}

// Encode converts a Go native map to Avro binary format.
func (c *Codec) Encode(native interface{}) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	binary, err := c.codec.BinaryFromNative(nil, native)
	if err != nil {
		return nil, fmt.Errorf("failed to encode to avro binary: %w", err)
	}
	return binary, nil
}

// Decode converts Avro binary data back to a native map.
func (c *Codec) Decode(data []byte) (map[string]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	native, _, err := c.codec.NativeFromBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode avro binary: %w", err)
	}
	record, ok := native.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("avro payload is not a record")
	}
	return record, nil
}
