/*
Copyright 2026 The Actias Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bundle

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/actiasdev/actias/pkg/apperr"
)

// compress renders data as an lz4 frame prefixed with a little-endian
// uint64 holding the original, uncompressed size — the "fast LZ77-family
// codec that prepends the original size" spec.md's CreateRevision
// paragraph calls for. The same format is used for at-rest file storage
// in the script service.
func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(data))); err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "write size prefix")
	}
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "lz4 compress")
	}
	if err := zw.Close(); err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "close lz4 writer")
	}
	return buf.Bytes(), nil
}

// decompress reverses compress.
func decompress(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, apperr.NewValidationError("compressed payload too short for size prefix")
	}
	size := binary.LittleEndian.Uint64(data[:8])
	zr := lz4.NewReader(bytes.NewReader(data[8:]))
	out := make([]byte, size)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "lz4 decompress")
	}
	return out, nil
}
