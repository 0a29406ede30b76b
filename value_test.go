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
	"strings"
	"testing"

	"connectrpc.com/jsonbridge/internal/assert"
)

func TestValueConstructors(t *testing.T) {
	t.Parallel()
	assert.Equal(t, NullValue().Kind(), KindNull)
	assert.Equal(t, Value{}.Kind(), KindNull)
	assert.True(t, BoolValue(true).Bool())
	assert.Equal(t, StringValue("hi").Text(), "hi")
	assert.Equal(t, IntValue(-42).Text(), "-42")
	assert.Equal(t, ArrayValue(NullValue(), BoolValue(false)).Len(), 2)
	assert.Equal(t, ObjectValue().Len(), 0)
	assert.Equal(t, StringValue("x").Len(), 0)
}

func TestValueNumbers(t *testing.T) {
	t.Parallel()
	t.Run("integer", func(t *testing.T) {
		t.Parallel()
		v := IntValue(9007199254740993)
		n, ok := v.Int64()
		assert.True(t, ok)
		assert.Equal(t, n, int64(9007199254740993))
		f, ok := v.Float64()
		assert.True(t, ok)
		assert.Equal(t, f, float64(9007199254740992))
	})
	t.Run("fraction", func(t *testing.T) {
		t.Parallel()
		v := FloatValue(1.5)
		_, ok := v.Int64()
		assert.False(t, ok)
		f, ok := v.Float64()
		assert.True(t, ok)
		assert.Equal(t, f, 1.5)
		assert.Equal(t, v.Text(), "1.5")
	})
	t.Run("formatting", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, FloatValue(100).Text(), "100")
		assert.Equal(t, FloatValue(1e21).Text(), "1e+21")
		assert.Equal(t, FloatValue(1e-7).Text(), "1e-7")
		assert.Equal(t, FloatValue(0.000001).Text(), "0.000001")
	})
	t.Run("non-finite", func(t *testing.T) {
		t.Parallel()
		_, ok := FloatValue(math.NaN()).Float64()
		assert.False(t, ok)
		_, ok = FloatValue(math.Inf(1)).Float64()
		assert.False(t, ok)
	})
	t.Run("out of range", func(t *testing.T) {
		t.Parallel()
		v := numberValue("1e400")
		_, ok := v.Int64()
		assert.False(t, ok)
		_, ok = v.Float64()
		assert.False(t, ok)
	})
	t.Run("wrong kind", func(t *testing.T) {
		t.Parallel()
		_, ok := StringValue("1").Int64()
		assert.False(t, ok)
		_, ok = StringValue("1").Float64()
		assert.False(t, ok)
	})
}

func TestObjectMembers(t *testing.T) {
	t.Parallel()
	t.Run("order", func(t *testing.T) {
		t.Parallel()
		v := ObjectValue(
			Member{Name: "z", Value: IntValue(1)},
			Member{Name: "a", Value: IntValue(2)},
		)
		names := make([]string, 0, v.Len())
		for _, member := range v.Members() {
			names = append(names, member.Name)
		}
		assert.Equal(t, names, []string{"z", "a"})
		value, ok := v.Lookup("a")
		assert.True(t, ok)
		assert.Equal(t, value.Text(), "2")
		_, ok = v.Lookup("missing")
		assert.False(t, ok)
	})
	t.Run("repeated names", func(t *testing.T) {
		t.Parallel()
		v := ObjectValue(
			Member{Name: "a", Value: IntValue(1)},
			Member{Name: "b", Value: IntValue(2)},
			Member{Name: "a", Value: IntValue(3)},
		)
		assert.Equal(t, v.String(), `{"a":3,"b":2}`)
	})
	t.Run("repeated names in large object", func(t *testing.T) {
		t.Parallel()
		members := make([]Member, 0, smallObjectMembers+2)
		for i := 0; i <= smallObjectMembers; i++ {
			members = append(members, Member{Name: string(rune('a' + i)), Value: IntValue(int64(i))})
		}
		members = append(members, Member{Name: "a", Value: StringValue("last")})
		v := ObjectValue(members...)
		assert.Equal(t, v.Len(), smallObjectMembers+1)
		assert.Equal(t, v.Members()[0].Value.Text(), "last")
	})
}

func TestValueString(t *testing.T) {
	t.Parallel()
	v := ObjectValue(
		Member{Name: "list", Value: ArrayValue(IntValue(1), FloatValue(2.5), NullValue())},
		Member{Name: "text", Value: StringValue("say \"hi\"\n")},
		Member{Name: "ok", Value: BoolValue(true)},
		Member{Name: "empty", Value: ObjectValue()},
	)
	assert.Equal(t, v.String(), `{"list":[1,2.5,null],"text":"say \"hi\"\n","ok":true,"empty":{}}`)
	assert.Match(t, FloatValue(math.NaN()).String(), `^!`)
}

func TestKindString(t *testing.T) {
	t.Parallel()
	for kind := KindNull; kind <= KindObject; kind++ {
		assert.False(
			t,
			strings.HasPrefix(kind.String(), "kind_"),
			assert.Sprintf("update Kind.String() for %d", kind),
		)
	}
	assert.Equal(t, Kind(42).String(), "kind_42")
}
