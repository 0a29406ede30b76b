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
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-json-experiment/json/jsontext"
)

// Repeated object names are legal JSON; the tree keeps the last value, so
// neither side of the codec needs jsontext's duplicate-name tracking.
var (
	decoderOptions = []jsontext.Options{
		jsontext.AllowDuplicateNames(true),
	}
	compactOptions = []jsontext.Options{
		jsontext.AllowDuplicateNames(true),
	}
)

const defaultIndent = "  "

func prettyOptions(indent string) []jsontext.Options {
	return []jsontext.Options{
		jsontext.AllowDuplicateNames(true),
		jsontext.Multiline(true),
		jsontext.SpaceAfterColon(true),
		jsontext.WithIndent(indent),
	}
}

type parser struct {
	reader  strings.Reader
	decoder *jsontext.Decoder
}

var parserPool = sync.Pool{
	New: func() any {
		p := &parser{}
		p.decoder = jsontext.NewDecoder(&p.reader, decoderOptions...)
		return p
	},
}

func getParser(text string) *parser {
	p := parserPool.Get().(*parser)
	p.reader.Reset(text)
	p.decoder.Reset(&p.reader, decoderOptions...)
	return p
}

func putParser(p *parser, size int) {
	const max = 1024 * 1024 // the decoder's window grows to the input size
	if size > max {
		return
	}
	p.reader.Reset("")
	parserPool.Put(p)
}

// ParseValue parses text, which must hold exactly one JSON value, into a
// Value. Errors have CodeParse and carry the byte offset of the problem.
func ParseValue(text string) (Value, error) {
	p := getParser(text)
	defer putParser(p, len(text))
	return p.parseDocument()
}

// validate reports whether text holds exactly one JSON value without
// building a tree.
func validate(text string) bool {
	p := getParser(text)
	defer putParser(p, len(text))
	if err := p.decoder.SkipValue(); err != nil {
		return false
	}
	_, err := p.decoder.ReadToken()
	return errors.Is(err, io.EOF)
}

func (p *parser) parseDocument() (Value, error) {
	value, err := p.parseValue()
	if err != nil {
		return Value{}, p.wrapError(err)
	}
	offset := p.decoder.InputOffset()
	_, err = p.decoder.ReadToken()
	switch {
	case errors.Is(err, io.EOF):
		return value, nil
	case err == nil:
		return Value{}, newParseError(offset, errors.New("invalid data after top-level value"))
	default:
		return Value{}, p.wrapError(err)
	}
}

func (p *parser) parseValue() (Value, error) {
	token, err := p.decoder.ReadToken()
	if err != nil {
		return Value{}, err
	}
	switch token.Kind() {
	case 'n':
		return Value{}, nil
	case 'f', 't':
		return BoolValue(token.Bool()), nil
	case '"':
		return StringValue(token.String()), nil
	case '0':
		return numberValue(token.String()), nil
	case '[':
		var items []Value
		for p.decoder.PeekKind() != ']' {
			item, err := p.parseValue()
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		if _, err := p.decoder.ReadToken(); err != nil {
			return Value{}, err
		}
		return Value{kind: KindArray, items: items}, nil
	case '{':
		var members []Member
		for p.decoder.PeekKind() != '}' {
			name, err := p.decoder.ReadToken()
			if err != nil {
				return Value{}, err
			}
			member := Member{Name: name.String()}
			member.Value, err = p.parseValue()
			if err != nil {
				return Value{}, err
			}
			members = append(members, member)
		}
		if _, err := p.decoder.ReadToken(); err != nil {
			return Value{}, err
		}
		return Value{kind: KindObject, members: dedupeMembers(members)}, nil
	}
	return Value{}, fmt.Errorf("unexpected %v token", token.Kind())
}

func (p *parser) wrapError(err error) *Error {
	var syntaxErr *jsontext.SyntacticError
	if errors.As(err, &syntaxErr) {
		cause := syntaxErr.Err
		if cause == nil {
			cause = err
		}
		return newParseError(syntaxErr.ByteOffset, cause)
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return newParseError(p.decoder.InputOffset(), err)
}

// writeValue encodes v onto the end of buf as a single JSON value, without
// the newline jsontext appends after each top-level value.
func writeValue(encoder *jsontext.Encoder, buf *bytes.Buffer, v Value, options ...jsontext.Options) error {
	encoder.Reset(buf, options...)
	if err := encodeValue(encoder, v); err != nil {
		return err
	}
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
	return nil
}

func encodeValue(encoder *jsontext.Encoder, v Value) error {
	switch v.kind {
	case KindNull:
		return encoder.WriteToken(jsontext.Null)
	case KindBool:
		return encoder.WriteToken(jsontext.Bool(v.boolean))
	case KindNumber:
		// Invalid literals, such as NaN, fail validation here.
		return encoder.WriteValue(jsontext.Value(v.text))
	case KindString:
		return encoder.WriteToken(jsontext.String(v.text))
	case KindArray:
		if err := encoder.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, item := range v.items {
			if err := encodeValue(encoder, item); err != nil {
				return err
			}
		}
		return encoder.WriteToken(jsontext.EndArray)
	case KindObject:
		if err := encoder.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, member := range v.members {
			if err := encoder.WriteToken(jsontext.String(member.Name)); err != nil {
				return err
			}
			if err := encodeValue(encoder, member.Value); err != nil {
				return err
			}
		}
		return encoder.WriteToken(jsontext.EndObject)
	}
	return fmt.Errorf("unknown value kind %v", v.kind)
}

// appendValue writes v to the end of dst with a pooled encoder.
func appendValue(dst []byte, v Value, options ...jsontext.Options) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	encoder := getEncoder()
	defer putEncoder(encoder)
	if err := writeValue(encoder, buf, v, options...); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
