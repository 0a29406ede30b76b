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
	"log/slog"
)

// An Option configures a TextCodec or StateCodec.
type Option interface {
	applyToCodec(*codecConfig)
}

type codecConfig struct {
	Logger *slog.Logger
	Indent string
}

func newCodecConfig(options []Option) *codecConfig {
	config := &codecConfig{
		Logger: slog.New(slog.DiscardHandler),
		Indent: defaultIndent,
	}
	for _, opt := range options {
		opt.applyToCodec(config)
	}
	return config
}

type loggerOption struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for buffer bookkeeping records. Codecs only
// log at debug level, and never once per call. By default, codecs discard
// their logs.
func WithLogger(logger *slog.Logger) Option {
	return &loggerOption{logger: logger}
}

func (o *loggerOption) applyToCodec(config *codecConfig) {
	if o.logger != nil {
		config.Logger = o.logger
	}
}

type indentOption struct {
	indent string
}

// WithIndent sets the per-level indentation of pretty output. It must
// consist only of spaces and tabs. The default is two spaces.
func WithIndent(indent string) Option {
	return &indentOption{indent: indent}
}

func (o *indentOption) applyToCodec(config *codecConfig) {
	config.Indent = o.indent
}
