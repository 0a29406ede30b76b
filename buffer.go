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
	"bytes"
	"io"
	"log/slog"
	"sync"

	"github.com/go-json-experiment/json/jsontext"
)

const (
	messageBufferFloor = 4096
	stateBufferFloor   = 8192
)

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	const max = 1024 * 1024 // if >1 MiB, don't hold onto it
	if buf.Cap() > max {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

var encoderPool = sync.Pool{
	New: func() any {
		return jsontext.NewEncoder(io.Discard)
	},
}

func getEncoder() *jsontext.Encoder {
	return encoderPool.Get().(*jsontext.Encoder)
}

func putEncoder(encoder *jsontext.Encoder) {
	encoder.Reset(io.Discard) // don't keep references
	encoderPool.Put(encoder)
}

// codecBuffer is the growable byte buffer owned by a single codec. Its length
// is cleared before every write, but its capacity only shrinks on reset,
// which restores the floor capacity.
type codecBuffer struct {
	bytes     *bytes.Buffer
	encoder   *jsontext.Encoder
	floor     int
	highWater int
	logger    *slog.Logger
}

func newCodecBuffer(floor int, logger *slog.Logger) *codecBuffer {
	return &codecBuffer{
		bytes:     bytes.NewBuffer(make([]byte, 0, floor)),
		encoder:   jsontext.NewEncoder(io.Discard),
		floor:     floor,
		highWater: floor,
		logger:    logger,
	}
}

// write clears the buffer and encodes v into it. The returned slice aliases
// the buffer and is only valid until the next call.
func (b *codecBuffer) write(v Value, options ...jsontext.Options) ([]byte, error) {
	b.bytes.Reset()
	err := writeValue(b.encoder, b.bytes, v, options...)
	if capacity := b.bytes.Cap(); capacity > b.highWater {
		b.logger.Debug("codec buffer grew",
			slog.Int("capacity", capacity),
			slog.Int("previous", b.highWater),
		)
		b.highWater = capacity
	}
	if err != nil {
		return nil, err
	}
	return b.bytes.Bytes(), nil
}

// reset empties the buffer and gives back any capacity above the floor.
func (b *codecBuffer) reset() {
	b.encoder.Reset(io.Discard)
	if b.bytes.Cap() <= b.floor {
		b.bytes.Reset()
		return
	}
	b.logger.Debug("codec buffer shrunk",
		slog.Int("capacity", b.bytes.Cap()),
		slog.Int("floor", b.floor),
	)
	b.bytes = bytes.NewBuffer(make([]byte, 0, b.floor))
	b.highWater = b.floor
}

func (b *codecBuffer) capacity() int {
	return b.bytes.Cap()
}
