// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/poiesic/coursefinder/core"
)

// MarshalCourseVector serializes a CourseVector to bytes.
//
// Layout: uvarint id length, id, uvarint dimension, dimension little-endian
// float32 values, little-endian uint64 content hash, JSON metadata.
func MarshalCourseVector(v *core.CourseVector) ([]byte, error) {
	meta, err := json.Marshal(v.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	size := 2*binary.MaxVarintLen64 + len(v.ID) + 4*len(v.Vector) + 8 + len(meta)
	buf := make([]byte, 0, size)
	buf = binary.AppendUvarint(buf, uint64(len(v.ID)))
	buf = append(buf, v.ID...)
	buf = binary.AppendUvarint(buf, uint64(len(v.Vector)))
	for _, f := range v.Vector {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	buf = binary.LittleEndian.AppendUint64(buf, v.ContentHash)
	buf = append(buf, meta...)
	return buf, nil
}

// UnmarshalCourseVector deserializes a CourseVector from bytes.
func UnmarshalCourseVector(data []byte) (*core.CourseVector, error) {
	idLen, n := binary.Uvarint(data)
	if n <= 0 || uint64(len(data)-n) < idLen {
		return nil, ErrTruncatedData
	}
	data = data[n:]
	id := string(data[:idLen])
	data = data[idLen:]

	dim, n := binary.Uvarint(data)
	if n <= 0 || dim > uint64(len(data)) || uint64(len(data)-n) < dim*4+8 {
		return nil, ErrTruncatedData
	}
	data = data[n:]

	vector := make([]float32, dim)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data))
		data = data[4:]
	}
	hash := binary.LittleEndian.Uint64(data)
	data = data[8:]

	var meta map[string]string
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	return &core.CourseVector{
		ID:          id,
		Vector:      vector,
		ContentHash: hash,
		Metadata:    meta,
	}, nil
}
