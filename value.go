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

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "kind_" + strconv.Itoa(int(k))
}

// A Value is a generic JSON tree, as produced by ParseValue or by a Host's
// Reflect method. The zero Value is JSON null.
//
// Numbers keep the literal text they were parsed from, so a Value can be
// read both as an exact int64 and as a float64. Object members keep their
// insertion order and have unique names.
//
// Values are immutable once built.
type Value struct {
	kind    Kind
	boolean bool
	text    string // string contents or number literal
	items   []Value
	members []Member
}

// A Member is a single name/value pair of a JSON object.
type Member struct {
	Name  string
	Value Value
}

// NullValue returns JSON null.
func NullValue() Value {
	return Value{}
}

// BoolValue returns a JSON boolean.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// IntValue returns a JSON number holding exactly n.
func IntValue(n int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(n, 10)}
}

// FloatValue returns a JSON number holding f, formatted the way ECMAScript
// formats numbers. NaN and infinities produce a Value that can't be written
// or bridged.
func FloatValue(f float64) Value {
	return Value{kind: KindNumber, text: formatFloat(f)}
}

// StringValue returns a JSON string.
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// ArrayValue returns a JSON array holding items in order.
func ArrayValue(items ...Value) Value {
	return Value{kind: KindArray, items: items}
}

// ObjectValue returns a JSON object holding members in order. If a name
// repeats, the later value replaces the earlier one in the earlier position.
func ObjectValue(members ...Member) Value {
	return Value{kind: KindObject, members: dedupeMembers(members)}
}

func numberValue(literal string) Value {
	return Value{kind: KindNumber, text: literal}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// Bool returns the boolean held by v, or false for other kinds.
func (v Value) Bool() bool {
	return v.boolean
}

// Text returns the contents of a JSON string, or the literal text of a JSON
// number. Other kinds return "".
func (v Value) Text() string {
	return v.text
}

// Int64 returns the number held by v if it is exactly representable as a
// 64-bit integer.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := strconv.ParseInt(v.text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float64 returns the number held by v as a finite double.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Len returns the number of array items or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Items returns the items of an array. The returned slice must not be
// modified.
func (v Value) Items() []Value {
	return v.items
}

// Members returns the members of an object in insertion order. The returned
// slice must not be modified.
func (v Value) Members() []Member {
	return v.members
}

// Lookup returns the value of the named object member.
func (v Value) Lookup(name string) (Value, bool) {
	for _, member := range v.members {
		if member.Name == name {
			return member.Value, true
		}
	}
	return Value{}, false
}

// String returns v as compact JSON. Values that can't be written produce a
// description of the failure instead.
func (v Value) String() string {
	data, err := appendValue(nil, v, compactOptions...)
	if err != nil {
		return "!" + err.Error()
	}
	return string(data)
}

func dedupeMembers(members []Member) []Member {
	if len(members) < 2 {
		return members
	}
	if len(members) <= smallObjectMembers && !hasDuplicateNames(members) {
		return members
	}
	seen := make(map[string]int, len(members))
	deduped := members[:0:0]
	for _, member := range members {
		if i, ok := seen[member.Name]; ok {
			deduped[i].Value = member.Value
			continue
		}
		seen[member.Name] = len(deduped)
		deduped = append(deduped, member)
	}
	return deduped
}

// smallObjectMembers is the size below which a pairwise scan for repeated
// names beats building a map.
const smallObjectMembers = 16

func hasDuplicateNames(members []Member) bool {
	for i := 1; i < len(members); i++ {
		for j := 0; j < i; j++ {
			if members[i].Name == members[j].Name {
				return true
			}
		}
	}
	return false
}

// formatFloat uses the ES6 number-to-string conversion, like encoding/json.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(make([]byte, 0, 24), f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b)
}
