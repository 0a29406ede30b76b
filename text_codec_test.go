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
	"log/slog"
	"strings"
	"testing"
	"testing/quick"

	"connectrpc.com/jsonbridge/internal/assert"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestTextCodecRoundTrips(t *testing.T) {
	t.Parallel()
	codec := NewTextCodec[any](Dynamic{})
	roundTrip := func(text string, number int32, flag bool, nested map[string]string) bool {
		inner := make(map[string]any, len(nested))
		for key, value := range nested {
			inner[key] = value
		}
		want := map[string]any{
			"text":   text,
			"number": float64(number),
			"flag":   flag,
			"nested": map[string]any{"inner": inner, "list": []any{text, nil}},
		}
		data, err := codec.Serialize(want)
		if err != nil {
			t.Fatal(err)
		}
		got, err := codec.Deserialize(data)
		if err != nil {
			t.Fatal(err)
		}
		return assert.Equal(t, got, any(want))
	}
	if err := quick.Check(roundTrip, nil /* config */); err != nil {
		t.Error(err)
	}
}

func TestTextCodecNestedObjects(t *testing.T) {
	t.Parallel()
	const text = `{"l1":{"l2":{"l3":{"value":"deep"}},"sibling":1}}`
	t.Run("dynamic", func(t *testing.T) {
		t.Parallel()
		codec := NewTextCodec[any](Dynamic{})
		got, err := codec.Deserialize(text)
		assert.Nil(t, err)
		l1, ok := got.(map[string]any)["l1"].(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, len(l1), 2)
		l2, ok := l1["l2"].(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, l2["l3"], any(map[string]any{"value": "deep"}))
		serialized, err := codec.Serialize(got)
		assert.Nil(t, err)
		assert.Equal(t, serialized, text)
	})
	t.Run("proto", func(t *testing.T) {
		t.Parallel()
		codec := NewTextCodec[*structpb.Value](Proto{})
		got, err := codec.Deserialize(text)
		assert.Nil(t, err)
		l3 := got.GetStructValue().GetFields()["l1"].GetStructValue().GetFields()["l2"].
			GetStructValue().GetFields()["l3"].GetStructValue()
		assert.Equal(t, l3.GetFields()["value"].GetStringValue(), "deep")
		serialized, err := codec.Serialize(got)
		assert.Nil(t, err)
		assert.Equal(t, serialized, text)
	})
}

func TestTextCodecNumbers(t *testing.T) {
	t.Parallel()
	t.Run("exact integer", func(t *testing.T) {
		t.Parallel()
		codec := NewTextCodec[any](Dynamic{ExactIntegers: true})
		data, err := codec.Serialize(int64(9007199254740993))
		assert.Nil(t, err)
		assert.Equal(t, data, "9007199254740993")
		got, err := codec.Deserialize(data)
		assert.Nil(t, err)
		assert.Equal(t, got, any(int64(9007199254740993)))
	})
	t.Run("fraction", func(t *testing.T) {
		t.Parallel()
		codec := NewTextCodec[any](Dynamic{})
		data, err := codec.Serialize(1.5)
		assert.Nil(t, err)
		assert.Equal(t, data, "1.5")
		got, err := codec.Deserialize(data)
		assert.Nil(t, err)
		assert.Equal(t, got, any(1.5))
	})
	t.Run("out of range", func(t *testing.T) {
		t.Parallel()
		codec := NewTextCodec[any](Dynamic{})
		_, err := codec.Deserialize(`{"n":1e400}`)
		code, ok := CodeOf(err)
		assert.True(t, ok)
		assert.Equal(t, code, CodeInvalidNumber)
	})
}

func TestTextCodecSerializeErrors(t *testing.T) {
	t.Parallel()
	codec := NewTextCodec[any](Dynamic{})
	_, err := codec.Serialize(map[string]any{"f": func() {}})
	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, code, CodeReflection)

	_, err = codec.SerializePretty(make(chan int))
	code, ok = CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, code, CodeReflection)

	_, err = codec.Serialize("bad \xff utf-8")
	code, ok = CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, code, CodeWrite)

	_, err = codec.EstimateSize(func() {})
	assert.NotNil(t, err)
}

func TestTextCodecDeserializeErrors(t *testing.T) {
	t.Parallel()
	codec := NewTextCodec[any](Dynamic{})
	got, err := codec.Deserialize("{invalid")
	assert.Nil(t, got)
	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, code, CodeParse)
	assert.Match(t, err.Error(), `^parse at offset 1: `)
}

func TestTextCodecCompactAndPretty(t *testing.T) {
	t.Parallel()
	value := map[string]any{"b": []any{1.0, 2.0}, "a": map[string]any{}}
	codec := NewTextCodec[any](Dynamic{})
	compact, err := codec.SerializeCompact(value)
	assert.Nil(t, err)
	assert.Equal(t, compact, `{"a":{},"b":[1,2]}`)

	capacity := codec.BufferCapacity()
	pretty, err := codec.SerializePretty(value)
	assert.Nil(t, err)
	assert.Equal(t, pretty, "{\n  \"a\": {},\n  \"b\": [\n    1,\n    2\n  ]\n}")
	assert.Equal(t, codec.BufferCapacity(), capacity)

	tabbed := NewTextCodec[any](Dynamic{}, WithIndent("\t"))
	pretty, err = tabbed.SerializePretty([]any{"x"})
	assert.Nil(t, err)
	assert.Equal(t, pretty, "[\n\t\"x\"\n]")
}

func TestTextCodecBatchDeserialize(t *testing.T) {
	t.Parallel()
	codec := NewTextCodec[any](Dynamic{})
	t.Run("in order", func(t *testing.T) {
		t.Parallel()
		got, err := codec.BatchDeserialize([]any{`{"n":1}`, `[2]`, `"three"`, `null`})
		assert.Nil(t, err)
		assert.Equal(t, got, []any{
			map[string]any{"n": 1.0},
			[]any{2.0},
			"three",
			nil,
		})
	})
	t.Run("malformed element", func(t *testing.T) {
		t.Parallel()
		got, err := codec.BatchDeserialize([]any{`{"n":1}`, `{"n":`, `[]`})
		assert.Nil(t, got)
		code, ok := CodeOf(err)
		assert.True(t, ok)
		assert.Equal(t, code, CodeParse)
	})
	t.Run("non-string element", func(t *testing.T) {
		t.Parallel()
		got, err := codec.BatchDeserialize([]any{`{}`, 42.0})
		assert.Nil(t, got)
		code, ok := CodeOf(err)
		assert.True(t, ok)
		assert.Equal(t, code, CodeBatchElementType)
	})
	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		got, err := codec.BatchDeserialize(nil)
		assert.Nil(t, err)
		assert.Len(t, got, 0)
	})
	t.Run("proto", func(t *testing.T) {
		t.Parallel()
		protoCodec := NewTextCodec[*structpb.Value](Proto{})
		got, err := protoCodec.BatchDeserialize([]*structpb.Value{
			structpb.NewStringValue(`{"a":{"b":1}}`),
			structpb.NewStringValue(`true`),
		})
		assert.Nil(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, got[0].GetStructValue().GetFields()["a"].GetStructValue().GetFields()["b"].GetNumberValue(), 1.0)
		assert.True(t, got[1].GetBoolValue())
		_, err = protoCodec.BatchDeserialize([]*structpb.Value{structpb.NewNumberValue(1)})
		code, _ := CodeOf(err)
		assert.Equal(t, code, CodeBatchElementType)
	})
}

func TestTextCodecIsValidJSON(t *testing.T) {
	t.Parallel()
	codec := NewTextCodec[any](Dynamic{})
	assert.True(t, codec.IsValidJSON("{}"))
	assert.True(t, codec.IsValidJSON(`[1,"a",{"b":null}]`))
	assert.False(t, codec.IsValidJSON("{invalid"))
	assert.False(t, codec.IsValidJSON(""))
}

func TestTextCodecEstimateSize(t *testing.T) {
	t.Parallel()
	codec := NewTextCodec[any](Dynamic{})
	values := []any{
		nil,
		"héllo",
		map[string]any{"list": []any{1.0, "two", map[string]any{"three": 3.0}}},
	}
	for _, value := range values {
		size, err := codec.EstimateSize(value)
		assert.Nil(t, err)
		data, err := codec.Serialize(value)
		assert.Nil(t, err)
		assert.Equal(t, size, len(data))
	}
}

func TestTextCodecBuffer(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	codec := NewTextCodec[any](Dynamic{}, WithLogger(logger))
	assert.Equal(t, codec.BufferCapacity(), messageBufferFloor)

	large := strings.Repeat("x", 3*messageBufferFloor)
	_, err := codec.Serialize(large)
	assert.Nil(t, err)
	grown := codec.BufferCapacity()
	assert.True(t, grown > messageBufferFloor)
	assert.True(t, strings.Contains(logs.String(), "codec buffer grew"))

	_, err = codec.Serialize("small")
	assert.Nil(t, err)
	assert.True(t, codec.BufferCapacity() >= grown, assert.Sprintf("capacity must not shrink between calls"))

	codec.ClearBuffer()
	assert.Equal(t, codec.BufferCapacity(), messageBufferFloor)
	assert.True(t, strings.Contains(logs.String(), "codec buffer shrunk"))

	codec.ClearBuffer()
	assert.Equal(t, codec.BufferCapacity(), messageBufferFloor)
	data, err := codec.Serialize(map[string]any{"after": "reset"})
	assert.Nil(t, err)
	assert.Equal(t, data, `{"after":"reset"}`)
}
