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
	"unicode/utf8"

	"github.com/go-json-experiment/json/jsontext"
)

// QuickSerialize writes v as compact JSON without a codec. Each call
// allocates its own buffer; use a TextCodec for repeated calls.
func QuickSerialize[V any](host Host[V], v V) (string, error) {
	return serializeOnce(host, v)
}

// QuickDeserialize parses text and bridges it into a host value without a
// codec.
func QuickDeserialize[V any](host Host[V], text string) (V, error) {
	return deserialize(host, text)
}

// QuickSerializeState is QuickSerialize for state snapshots. It never
// compresses.
func QuickSerializeState[V any](host Host[V], v V) (string, error) {
	return serializeOnce(host, v)
}

// QuickDeserializeState is QuickDeserialize for state snapshots.
func QuickDeserializeState[V any](host Host[V], text string) (V, error) {
	return deserialize(host, text)
}

func serializeOnce[V any](host Host[V], v V) (string, error) {
	tree, err := host.Reflect(v)
	if err != nil {
		return "", NewError(CodeReflection, err)
	}
	var buf bytes.Buffer
	if err := writeValue(jsontext.NewEncoder(&buf), &buf, tree, compactOptions...); err != nil {
		return "", NewError(CodeWrite, err)
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", errorf(CodeEncoding, "output isn't valid UTF-8")
	}
	return buf.String(), nil
}
