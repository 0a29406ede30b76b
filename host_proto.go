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

	"google.golang.org/protobuf/types/known/structpb"
)

// Proto is the Host for protobuf's dynamic JSON value, *structpb.Value.
// Numbers are doubles, as in google.protobuf.Value.
type Proto struct{}

var _ Host[*structpb.Value] = Proto{}

func (Proto) Null() *structpb.Value            { return structpb.NewNullValue() }
func (Proto) Bool(b bool) *structpb.Value      { return structpb.NewBoolValue(b) }
func (Proto) Number(f float64) *structpb.Value { return structpb.NewNumberValue(f) }
func (Proto) String(s string) *structpb.Value  { return structpb.NewStringValue(s) }

func (Proto) NewArray(capacity int) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{
		Values: make([]*structpb.Value, 0, capacity),
	})
}

func (Proto) Append(array, item *structpb.Value) (*structpb.Value, error) {
	list := array.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("can't append to %s", protoKind(array))
	}
	list.Values = append(list.Values, item)
	return array, nil
}

func (Proto) NewObject(capacity int) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{
		Fields: make(map[string]*structpb.Value, capacity),
	})
}

func (Proto) Set(object *structpb.Value, key string, value *structpb.Value) error {
	fields := object.GetStructValue()
	if fields == nil {
		return fmt.Errorf("can't set property %q on %s", key, protoKind(object))
	}
	if fields.Fields == nil {
		fields.Fields = make(map[string]*structpb.Value)
	}
	fields.Fields[key] = value
	return nil
}

func (Proto) Text(v *structpb.Value) (string, bool) {
	if _, ok := v.GetKind().(*structpb.Value_StringValue); ok {
		return v.GetStringValue(), true
	}
	return "", false
}

// Reflect converts v through AsInterface and the Dynamic host, so struct
// fields serialize in sorted order. Non-finite numbers fail; AsInterface
// would otherwise turn them into strings.
func (Proto) Reflect(v *structpb.Value) (Value, error) {
	if err := checkProtoNumbers(v); err != nil {
		return Value{}, err
	}
	return reflectDynamic(v.AsInterface())
}

func checkProtoNumbers(v *structpb.Value) error {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		_, err := reflectFloat(kind.NumberValue)
		return err
	case *structpb.Value_ListValue:
		for _, item := range kind.ListValue.GetValues() {
			if err := checkProtoNumbers(item); err != nil {
				return err
			}
		}
	case *structpb.Value_StructValue:
		for _, field := range kind.StructValue.GetFields() {
			if err := checkProtoNumbers(field); err != nil {
				return err
			}
		}
	}
	return nil
}

func protoKind(v *structpb.Value) string {
	switch v.GetKind().(type) {
	case nil:
		return "unset value"
	case *structpb.Value_NullValue:
		return "null"
	case *structpb.Value_BoolValue:
		return "bool"
	case *structpb.Value_NumberValue:
		return "number"
	case *structpb.Value_StringValue:
		return "string"
	case *structpb.Value_ListValue:
		return "list"
	case *structpb.Value_StructValue:
		return "struct"
	}
	return fmt.Sprintf("%T", v.GetKind())
}
