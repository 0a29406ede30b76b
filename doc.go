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


// Package jsonbridge converts between JSON text and the dynamic values of a
// host runtime, for message buses and state snapshots that move structured
// data across a runtime boundary at high frequency.
//
// The host is described by the Host interface: a small set of capabilities
// for constructing nulls, booleans, numbers, strings, arrays and keyed
// mappings, plus the host's own automatic conversion of its values into a
// generic JSON tree (Value). Two hosts are included: Dynamic, for Go's
// map[string]any style values, and Proto, for *structpb.Value.
//
// The two directions are deliberately asymmetric. Serializing trusts the
// host's automatic conversion into a Value, since writing is lossless. Parsing
// never does: Bridge rebuilds host values from the parsed tree by hand,
// property by property, so nested objects can't silently collapse into empty
// mappings.
//
// TextCodec and StateCodec own a growable buffer that is cleared, never
// shrunk, before each write; ClearBuffer restores the floor capacity. The
// Quick functions are one-shot equivalents without buffer reuse.
package jsonbridge
