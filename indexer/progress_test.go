package indexer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	t.Run("reports at interval and caps at total", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 100, 10)
		tracker.Start()

		tracker.Increment(5)
		assert.Empty(t, buf.String())

		tracker.Increment(5)
		assert.Contains(t, buf.String(), "10/100")

		tracker.Increment(500)
		assert.Contains(t, buf.String(), "100/100 (100.0%)")
		assert.Contains(t, buf.String(), "courses/s")
	})

	t.Run("finish completes the line", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 4, 100)
		tracker.Start()
		tracker.Increment(1)
		tracker.Finish()

		assert.Contains(t, buf.String(), "4/4")
		assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])
	})

	t.Run("zero total", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 0, 10)
		tracker.Start()
		tracker.Finish()
		assert.Contains(t, buf.String(), "0/0 (0.0%)")
	})

	t.Run("silent until started", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 10, 1)
		tracker.Increment(5)
		tracker.Finish()
		assert.Empty(t, buf.String())
		assert.Zero(t, tracker.Elapsed())
	})

	t.Run("nil writer", func(t *testing.T) {
		tracker := NewProgressTracker(nil, 10, 0)
		tracker.Start()
		tracker.Increment(10)
		tracker.Finish()
	})
}
