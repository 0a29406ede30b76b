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
	"math"
	"strconv"
)

// Bridge builds the host value for v by hand, one capability call at a time.
//
// Objects are rebuilt key by key with Host.Set, never through a generic
// converter, so nested objects can't come back as empty mappings.
//
// Numbers that are exact 64-bit integers are read as integers first and only
// become doubles at the host boundary. Numbers that fit neither an int64 nor
// a finite double fail with CodeInvalidNumber. Append and Set failures abort
// the whole conversion with CodeHostConstruction.
func Bridge[V any](host Host[V], v Value) (V, error) {
	integers, _ := any(host).(IntegerHost[V])
	return bridgeValue(host, integers, v)
}

func bridgeValue[V any](host Host[V], integers IntegerHost[V], v Value) (V, error) {
	var zero V
	switch v.kind {
	case KindNull:
		return host.Null(), nil
	case KindBool:
		return host.Bool(v.boolean), nil
	case KindNumber:
		return bridgeNumber(host, integers, v.text)
	case KindString:
		return host.String(v.text), nil
	case KindArray:
		array := host.NewArray(len(v.items))
		for i, item := range v.items {
			hostItem, err := bridgeValue(host, integers, item)
			if err != nil {
				return zero, err
			}
			array, err = host.Append(array, hostItem)
			if err != nil {
				return zero, errorf(CodeHostConstruction, "append item %d: %w", i, err)
			}
		}
		return array, nil
	case KindObject:
		object := host.NewObject(len(v.members))
		for _, member := range v.members {
			hostValue, err := bridgeValue(host, integers, member.Value)
			if err != nil {
				return zero, err
			}
			if err := host.Set(object, member.Name, hostValue); err != nil {
				return zero, errorf(CodeHostConstruction, "set property %q: %w", member.Name, err)
			}
		}
		return object, nil
	}
	return zero, errorf(CodeHostConstruction, "unknown value kind %v", v.kind)
}

func bridgeNumber[V any](host Host[V], integers IntegerHost[V], literal string) (V, error) {
	if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
		if integers != nil {
			return integers.Integer(n), nil
		}
		return host.Number(float64(n)), nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		var zero V
		return zero, errorf(CodeInvalidNumber, "number %s is neither an int64 nor a finite double", literal)
	}
	return host.Number(f), nil
}
