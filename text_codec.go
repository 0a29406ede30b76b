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

import (
	"unicode/utf8"

	"github.com/go-json-experiment/json/jsontext"
)

// A TextCodec converts host values to and from JSON text for messages. It
// owns a buffer that every serialize-class call clears and reuses, so a
// long-lived TextCodec amortizes allocation across calls.
//
// A TextCodec isn't safe for concurrent use.
type TextCodec[V any] struct {
	host          Host[V]
	buffer        *codecBuffer
	prettyOptions []jsontext.Options
}

// NewTextCodec returns a TextCodec for host with a 4 KiB buffer.
func NewTextCodec[V any](host Host[V], options ...Option) *TextCodec[V] {
	config := newCodecConfig(options)
	return &TextCodec[V]{
		host:          host,
		buffer:        newCodecBuffer(messageBufferFloor, config.Logger),
		prettyOptions: prettyOptions(config.Indent),
	}
}

// Serialize writes v as compact JSON. The host's Reflect method produces the
// tree; errors have CodeReflection, CodeWrite or CodeEncoding.
func (c *TextCodec[V]) Serialize(v V) (string, error) {
	data, err := serializeInto(c.host, c.buffer, v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SerializeCompact is Serialize. Compact output is the default.
func (c *TextCodec[V]) SerializeCompact(v V) (string, error) {
	return c.Serialize(v)
}

// SerializePretty writes v as indented JSON. It leaves the codec's buffer
// untouched.
func (c *TextCodec[V]) SerializePretty(v V) (string, error) {
	tree, err := c.host.Reflect(v)
	if err != nil {
		return "", NewError(CodeReflection, err)
	}
	buf := getBuffer()
	defer putBuffer(buf)
	encoder := getEncoder()
	defer putEncoder(encoder)
	if err := writeValue(encoder, buf, tree, c.prettyOptions...); err != nil {
		return "", NewError(CodeWrite, err)
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", errorf(CodeEncoding, "pretty output isn't valid UTF-8")
	}
	return buf.String(), nil
}

// Deserialize parses text and bridges the result into a host value.
func (c *TextCodec[V]) Deserialize(text string) (V, error) {
	return deserialize(c.host, text)
}

// BatchDeserialize deserializes each element of texts in order. Every element
// must be a host string. The first failure aborts the batch and no results
// are returned.
func (c *TextCodec[V]) BatchDeserialize(texts []V) ([]V, error) {
	results := make([]V, 0, len(texts))
	for i, element := range texts {
		text, ok := c.host.Text(element)
		if !ok {
			return nil, errorf(CodeBatchElementType, "batch element %d isn't a string", i)
		}
		result, err := deserialize(c.host, text)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// IsValidJSON reports whether text is exactly one well-formed JSON value.
func (c *TextCodec[V]) IsValidJSON(text string) bool {
	return validate(text)
}

// EstimateSize returns the length in bytes of Serialize's output for v,
// without copying the output out of the buffer.
func (c *TextCodec[V]) EstimateSize(v V) (int, error) {
	data, err := serializeInto(c.host, c.buffer, v)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// ClearBuffer empties the buffer and shrinks it back to 4 KiB if it has grown.
// It's the only call that gives memory back.
func (c *TextCodec[V]) ClearBuffer() {
	c.buffer.reset()
}

// BufferCapacity returns the current capacity of the buffer in bytes.
func (c *TextCodec[V]) BufferCapacity() int {
	return c.buffer.capacity()
}

// serializeInto reflects v and writes it into buffer. The result aliases the
// buffer.
func serializeInto[V any](host Host[V], buffer *codecBuffer, v V) ([]byte, error) {
	tree, err := host.Reflect(v)
	if err != nil {
		return nil, NewError(CodeReflection, err)
	}
	data, err := buffer.write(tree, compactOptions...)
	if err != nil {
		return nil, NewError(CodeWrite, err)
	}
	if !utf8.Valid(data) {
		return nil, errorf(CodeEncoding, "output isn't valid UTF-8")
	}
	return data, nil
}

func deserialize[V any](host Host[V], text string) (V, error) {
	tree, err := ParseValue(text)
	if err != nil {
		var zero V
		return zero, err
	}
	return Bridge(host, tree)
}
