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
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// A Host builds and inspects the dynamic values of some runtime. The
// methods form the full capability set the bridge needs: constructing each
// JSON kind, appending to arrays, setting properties on keyed mappings,
// extracting strings, and the host's own automatic conversion of its values
// into a Value.
//
// Numbers are handed over as doubles, since that is the native number type
// of the dynamic runtimes this package targets. Hosts that can hold exact
// integers may also implement IntegerHost.
type Host[V any] interface {
	Null() V
	Bool(bool) V
	Number(float64) V
	String(string) V

	// NewArray returns an empty array. The capacity is a hint.
	NewArray(capacity int) V
	// Append adds item to the end of array and returns the array, which may
	// be a different value than the one passed in.
	Append(array, item V) (V, error)

	// NewObject returns an empty keyed mapping. The capacity is a hint.
	NewObject(capacity int) V
	// Set stores value under key.
	Set(object V, key string, value V) error

	// Text returns the contents of v if v is a string.
	Text(v V) (string, bool)

	// Reflect converts v into a Value. Serialization relies on it, so it must
	// not lose nested structure.
	Reflect(v V) (Value, error)
}

// An IntegerHost can represent 64-bit integers exactly. The bridge prefers
// Integer over Number for JSON numbers that are exact integers.
type IntegerHost[V any] interface {
	Integer(int64) V
}

// Dynamic is the Host for Go's own dynamic values, the shapes produced by
// encoding/json when unmarshaling into an any: nil, bool, float64, string,
// []any and map[string]any.
//
// If ExactIntegers is set, JSON numbers that are exact 64-bit integers become
// int64 rather than float64.
type Dynamic struct {
	ExactIntegers bool
}

var (
	_ Host[any]        = Dynamic{}
	_ IntegerHost[any] = Dynamic{}
)

func (Dynamic) Null() any            { return nil }
func (Dynamic) Bool(b bool) any      { return b }
func (Dynamic) Number(f float64) any { return f }
func (Dynamic) String(s string) any  { return s }

func (d Dynamic) Integer(n int64) any {
	if d.ExactIntegers {
		return n
	}
	return float64(n)
}

func (Dynamic) NewArray(capacity int) any {
	return make([]any, 0, capacity)
}

func (Dynamic) Append(array, item any) (any, error) {
	items, ok := array.([]any)
	if !ok {
		return nil, fmt.Errorf("can't append to %T", array)
	}
	return append(items, item), nil
}

func (Dynamic) NewObject(capacity int) any {
	return make(map[string]any, capacity)
}

func (Dynamic) Set(object any, key string, value any) error {
	fields, ok := object.(map[string]any)
	if !ok {
		return fmt.Errorf("can't set property %q on %T", key, object)
	}
	if fields == nil {
		return fmt.Errorf("can't set property %q on nil map", key)
	}
	fields[key] = value
	return nil
}

func (Dynamic) Text(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Reflect converts v into a Value. The dynamic shapes above, sized integers
// and string-keyed maps are converted directly, with map keys in sorted order
// so equal maps serialize to equal bytes. Anything else, such as structs, is
// reflected by go-json and parsed back into a tree.
func (Dynamic) Reflect(v any) (Value, error) {
	return reflectDynamic(v)
}

func reflectDynamic(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(v), nil
	case float64:
		return reflectFloat(v)
	case float32:
		return reflectFloat(float64(v))
	case int:
		return IntValue(int64(v)), nil
	case int8:
		return IntValue(int64(v)), nil
	case int16:
		return IntValue(int64(v)), nil
	case int32:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case uint:
		return numberValue(strconv.FormatUint(uint64(v), 10)), nil
	case uint8:
		return IntValue(int64(v)), nil
	case uint16:
		return IntValue(int64(v)), nil
	case uint32:
		return IntValue(int64(v)), nil
	case uint64:
		return numberValue(strconv.FormatUint(v, 10)), nil
	case string:
		return StringValue(v), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			value, err := reflectDynamic(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = value
		}
		return ArrayValue(items...), nil
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		members := make([]Member, len(names))
		for i, name := range names {
			value, err := reflectDynamic(v[name])
			if err != nil {
				return Value{}, fmt.Errorf("property %q: %w", name, err)
			}
			members[i] = Member{Name: name, Value: value}
		}
		return Value{kind: KindObject, members: members}, nil
	}
	return reflectEncoded(v)
}

func reflectFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("unsupported number %v", f)
	}
	return FloatValue(f), nil
}

func reflectEncoded(v any) (Value, error) {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return NullValue(), nil
	}
	data, err := gojson.Marshal(v)
	if err != nil {
		return Value{}, err
	}
	value, err := ParseValue(string(data))
	if err != nil {
		return Value{}, fmt.Errorf("reflect %T: %w", v, err)
	}
	return value, nil
}
