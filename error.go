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
	"errors"
	"fmt"
)

// An Error captures a Code, an underlying Go error and, for CodeParse
// errors, the byte offset at which the parser gave up.
//
// Every fallible operation in this package returns errors that can be cast
// to an *Error using the standard library's errors.As. Malformed input is
// always reported this way; nothing in this package panics on bad input.
type Error struct {
	code   Code
	err    error
	offset int64
}

// NewError annotates any Go error with a code.
func NewError(c Code, underlying error) *Error {
	return &Error{code: c, err: underlying, offset: -1}
}

func newParseError(offset int64, underlying error) *Error {
	return &Error{code: CodeParse, err: underlying, offset: offset}
}

func (e *Error) Error() string {
	message := e.Message()
	if message == "" {
		return e.code.String()
	}
	if e.offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.code, e.offset, message)
	}
	return e.code.String() + ": " + message
}

// Message returns the underlying error message. It may be empty if the
// original error was created with a nil cause.
func (e *Error) Message() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

// Unwrap allows errors.Is and errors.As access to the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the error's code.
func (e *Error) Code() Code {
	return e.code
}

// Offset returns the byte offset of a parse error. The second result is
// false for errors that don't refer to a position in the input.
func (e *Error) Offset() (int64, bool) {
	if e.offset < 0 {
		return 0, false
	}
	return e.offset, true
}

// CodeOf returns the error's code if it is or wraps an *Error. The second
// result is false for nil and for errors from other packages.
func CodeOf(err error) (Code, bool) {
	if bridgeErr, ok := asError(err); ok {
		return bridgeErr.Code(), true
	}
	return 0, false
}

// errorf calls fmt.Errorf with the supplied template and arguments, then wraps
// the resulting error.
func errorf(c Code, template string, args ...any) *Error {
	return NewError(c, fmt.Errorf(template, args...))
}

// asError uses errors.As to unwrap any error and look for an *Error.
func asError(err error) (*Error, bool) {
	var bridgeErr *Error
	ok := errors.As(err, &bridgeErr)
	return bridgeErr, ok
}

// wrapIfUncoded leaves coded errors unchanged and applies the given code to
// everything else.
func wrapIfUncoded(c Code, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := asError(err); ok {
		return err
	}
	return NewError(c, err)
}
