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
	"strconv"
	"strings"
)

// A Code classifies the errors returned by this package. There are no
// user-defined codes, so only the codes enumerated below are valid.
type Code uint32

const (
	// CodeParse indicates that the input wasn't a single well-formed JSON
	// value. Errors with this code carry the byte offset reported by the
	// parser.
	CodeParse Code = 1

	// CodeInvalidNumber indicates a JSON number that fits neither an exact
	// 64-bit integer nor a finite double.
	CodeInvalidNumber Code = 2

	// CodeHostConstruction indicates that the host refused to build a value,
	// for example because a property couldn't be set.
	CodeHostConstruction Code = 3

	// CodeReflection indicates that the host couldn't convert one of its
	// values into a Value on the serialize path.
	CodeReflection Code = 4

	// CodeBatchElementType indicates that an element of a batch wasn't a
	// host string.
	CodeBatchElementType Code = 5

	// CodeEncoding indicates that the writer produced bytes that aren't
	// valid UTF-8.
	CodeEncoding Code = 6

	// CodeWrite indicates that the JSON writer failed.
	CodeWrite Code = 7

	minCode = CodeParse
	maxCode = CodeWrite
)

func (c Code) String() string {
	switch c {
	case CodeParse:
		return "parse"
	case CodeInvalidNumber:
		return "invalid_number"
	case CodeHostConstruction:
		return "host_construction"
	case CodeReflection:
		return "reflection"
	case CodeBatchElementType:
		return "batch_element_type"
	case CodeEncoding:
		return "encoding"
	case CodeWrite:
		return "write"
	}
	return fmt.Sprintf("code_%d", c)
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	if c < minCode || c > maxCode {
		return nil, fmt.Errorf("invalid code %d", c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the names
// produced by MarshalText and the numeric form of each code.
func (c *Code) UnmarshalText(data []byte) error {
	dataStr := strings.TrimPrefix(string(data), "code_")
	for code := minCode; code <= maxCode; code++ {
		if code.String() == dataStr {
			*c = code
			return nil
		}
	}
	n, err := strconv.ParseUint(dataStr, 10 /* base */, 32 /* bitsize */)
	if err != nil {
		return fmt.Errorf("invalid code %q", string(data))
	}
	code := Code(n)
	if code < minCode || code > maxCode {
		return fmt.Errorf("invalid code %q", string(data))
	}
	*c = code
	return nil
}
