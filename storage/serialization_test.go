package storage

import (
	"testing"

	"github.com/poiesic/coursefinder/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalCourseVector(t *testing.T) {
	tests := []struct {
		name   string
		vector *core.CourseVector
	}{
		{
			name: "full entry",
			vector: &core.CourseVector{
				ID:          "01:198:112",
				Vector:      []float32{0.1, -0.2, 0.3, 0.9},
				ContentHash: core.ContentHash("Course Title: DATA STRUCTURES"),
				Metadata: map[string]string{
					core.MetadataTitle: "DATA STRUCTURES",
					core.MetadataCode:  "01:198:112",
					core.MetadataText:  "Course Title: DATA STRUCTURES\nCourse Code: 01:198:112",
				},
			},
		},
		{
			name: "empty vector",
			vector: &core.CourseVector{
				ID:       "01:640:151",
				Vector:   []float32{},
				Metadata: map[string]string{},
			},
		},
		{
			name: "unicode metadata",
			vector: &core.CourseVector{
				ID:       "01:420:101",
				Vector:   []float32{1},
				Metadata: map[string]string{core.MetadataTitle: "FRANÇAIS ÉLÉMENTAIRE"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalCourseVector(tt.vector)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalCourseVector(data)
			require.NoError(t, err)
			assert.Equal(t, tt.vector, decoded)
		})
	}
}

func TestUnmarshalCourseVector_Invalid(t *testing.T) {
	valid, err := MarshalCourseVector(&core.CourseVector{
		ID:       "01:198:112",
		Vector:   []float32{0.5, 0.5},
		Metadata: map[string]string{"title": "DATA STRUCTURES"},
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty data", []byte{}, ErrTruncatedData},
		{"id longer than data", []byte{0x20, 'a'}, ErrTruncatedData},
		{"truncated vector", valid[:14], ErrTruncatedData},
		{"bad metadata", append(append([]byte{}, valid[:len(valid)-1]...), '!'), ErrSerializationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalCourseVector(tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
