// Copyright 2021-2024 The Connect Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package jsonbridge

// A StateCodec converts host values to and from JSON text for state
// snapshots. It works like TextCodec with a larger 8 KiB buffer floor, and it
// carries a compression flag.
//
// The compression flag is a reserved extension point: the only registered
// compressor is the identity, so enabling it changes no bytes.
//
// A StateCodec isn't safe for concurrent use.
type StateCodec[V any] struct {
	host       Host[V]
	buffer     *codecBuffer
	compress   bool
	compressor Compressor
}

// NewStateCodec returns a StateCodec for host with an 8 KiB buffer.
func NewStateCodec[V any](host Host[V], enableCompression bool, options ...Option) *StateCodec[V] {
	config := newCodecConfig(options)
	compressor, _ := compressors.Get(compressionIdentity)
	return &StateCodec[V]{
		host:       host,
		buffer:     newCodecBuffer(stateBufferFloor, config.Logger),
		compress:   enableCompression,
		compressor: compressor,
	}
}

// CompressionEnabled reports the flag passed to NewStateCodec.
func (c *StateCodec[V]) CompressionEnabled() bool {
	return c.compress
}

// SerializeState writes v as compact JSON.
func (c *StateCodec[V]) SerializeState(v V) (string, error) {
	data, err := serializeInto(c.host, c.buffer, v)
	if err != nil {
		return "", err
	}
	if c.compress {
		return string(c.Compress(data)), nil
	}
	return string(data), nil
}

// DeserializeState parses text and bridges the result into a host value.
func (c *StateCodec[V]) DeserializeState(text string) (V, error) {
	if c.compress {
		var err error
		if text, err = c.Decompress(text); err != nil {
			var zero V
			return zero, wrapIfUncoded(CodeParse, err)
		}
	}
	return deserialize(c.host, text)
}

// BatchSerializeStates serializes each state in order. The first failure
// aborts the batch and no results are returned.
func (c *StateCodec[V]) BatchSerializeStates(states []V) ([]string, error) {
	results := make([]string, 0, len(states))
	for _, state := range states {
		text, err := c.SerializeState(state)
		if err != nil {
			return nil, err
		}
		results = append(results, text)
	}
	return results, nil
}

// StatesEqual reports whether two serialized states are identical byte for
// byte. It's a cheap dirty check, not JSON equality: the same members in a
// different order compare unequal.
func (c *StateCodec[V]) StatesEqual(a, b string) bool {
	return a == b
}

// StateSize returns the length in bytes of SerializeState's output for v.
func (c *StateCodec[V]) StateSize(v V) (int, error) {
	data, err := serializeInto(c.host, c.buffer, v)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// Compress passes serialized state through the codec's compressor, which is
// currently the identity.
func (c *StateCodec[V]) Compress(data []byte) []byte {
	return c.compressor.Compress(data)
}

// Decompress reverses Compress.
func (c *StateCodec[V]) Decompress(text string) (string, error) {
	return c.compressor.Decompress(text)
}

// ClearBuffer empties the buffer and shrinks it back to 8 KiB if it has grown.
func (c *StateCodec[V]) ClearBuffer() {
	c.buffer.reset()
}

// BufferCapacity returns the current capacity of the buffer in bytes.
func (c *StateCodec[V]) BufferCapacity() int {
	return c.buffer.capacity()
}
