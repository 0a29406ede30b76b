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

const compressionIdentity = "identity"

// A Compressor transforms serialized state on its way out of a StateCodec and
// back on its way in. Only the identity compressor is registered: the hook is
// reserved so that callers can depend on it before any real format exists.
type Compressor interface {
	Name() string
	Compress(data []byte) []byte
	Decompress(text string) (string, error)
}

type identityCompressor struct{}

var _ Compressor = identityCompressor{}

func (identityCompressor) Name() string { return compressionIdentity }

// Compress returns a copy of data.
func (identityCompressor) Compress(data []byte) []byte {
	return append([]byte(nil), data...)
}

func (identityCompressor) Decompress(text string) (string, error) {
	return text, nil
}

// readOnlyCompressors is a read-only interface to the named compressors.
type readOnlyCompressors interface {
	Get(string) (Compressor, bool)
}

type compressorMap map[string]Compressor

func (m compressorMap) Get(name string) (Compressor, bool) {
	if name == "" {
		name = compressionIdentity
	}
	compressor, ok := m[name]
	return compressor, ok
}

var compressors readOnlyCompressors = compressorMap{
	compressionIdentity: identityCompressor{},
}
