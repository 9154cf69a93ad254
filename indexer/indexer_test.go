package indexer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/coursefinder/ai/mock"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/storage"
	"github.com/poiesic/coursefinder/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type courseList []*core.Course

func (l courseList) Courses() []*core.Course { return l }

func testCourses() courseList {
	return courseList{
		{CourseString: "01:198:111", CourseNumber: "111", Title: "INTRO COMPUTER SCI", Level: "U"},
		{CourseString: "01:198:112", CourseNumber: "112", Title: "DATA STRUCTURES", Level: "U",
			PreReqNotes: "(01:198:111 )"},
		{CourseString: "01:640:151", CourseNumber: "151", Title: "CALCULUS I", Level: "U"},
		{CourseString: "01:640:152", CourseNumber: "152", Title: "CALCULUS II", Level: "U"},
		{CourseString: "01:750:203", CourseNumber: "203", Title: "GENERAL PHYSICS", Level: "U"},
	}
}

func testConfig() *Config {
	return &Config{BatchSize: 2, ReportInterval: 2, MaxRetries: 3, RetryDelay: time.Millisecond}
}

func setupIndex(t *testing.T) storage.VectorIndex {
	t.Helper()
	index, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	return index
}

func TestNewIndexer(t *testing.T) {
	index := setupIndex(t)
	embedder := mock.NewMockEmbedder()

	_, err := NewIndexer(nil, index, embedder, nil, nil)
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = NewIndexer(testCourses(), nil, embedder, nil, nil)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewIndexer(testCourses(), index, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	ix, err := NewIndexer(testCourses(), index, embedder, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), ix.config)

	t.Run("caller config is not modified", func(t *testing.T) {
		config := testConfig()
		config.BatchSize = 0
		ix, err := NewIndexer(testCourses(), index, embedder, config, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, ix.config.BatchSize)
		assert.Equal(t, 0, config.BatchSize)
	})
}

func TestIndexer_Run(t *testing.T) {
	ctx := context.Background()
	index := setupIndex(t)
	embedder := mock.NewMockEmbedder()
	courses := testCourses()

	var buf bytes.Buffer
	ix, err := NewIndexer(courses, index, embedder, testConfig(), &buf)
	require.NoError(t, err)

	stats, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Indexed: 5}, stats)
	assert.Equal(t, 3, embedder.CallCount(), "five courses in batches of two")

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	entry, err := index.Get(ctx, "01:198:112")
	require.NoError(t, err)
	document := courses[1].Document()
	assert.Equal(t, core.ContentHash(document), entry.ContentHash)
	assert.Equal(t, "DATA STRUCTURES", entry.Metadata[core.MetadataTitle])
	assert.Equal(t, "01:198:112", entry.Metadata[core.MetadataCode])
	assert.Equal(t, document, entry.Metadata[core.MetadataText])

	var magnitude float32
	for _, v := range entry.Vector {
		magnitude += v * v
	}
	assert.InDelta(t, 1.0, magnitude, 1e-4)

	assert.Contains(t, buf.String(), "5/5")
	assert.Contains(t, buf.String(), "Embedded 5 courses")
}

func TestIndexer_SkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	index := setupIndex(t)
	embedder := mock.NewMockEmbedder()
	courses := testCourses()

	ix, err := NewIndexer(courses, index, embedder, testConfig(), nil)
	require.NoError(t, err)
	_, err = ix.Run(ctx)
	require.NoError(t, err)
	embedder.Reset()

	// One course changes between runs.
	changed := append(courseList{}, courses...)
	updated := *changed[2]
	updated.Description = "Limits, derivatives and integrals."
	changed[2] = &updated

	ix, err = NewIndexer(changed, index, embedder, testConfig(), nil)
	require.NoError(t, err)
	stats, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Indexed: 1, Skipped: 4}, stats)
	assert.Equal(t, 1, embedder.CallCount())

	entry, err := index.Get(ctx, "01:640:151")
	require.NoError(t, err)
	assert.Contains(t, entry.Metadata[core.MetadataText], "Limits, derivatives and integrals.")
}

func TestIndexer_Force(t *testing.T) {
	ctx := context.Background()
	index := setupIndex(t)
	embedder := mock.NewMockEmbedder()

	config := testConfig()
	ix, err := NewIndexer(testCourses(), index, embedder, config, nil)
	require.NoError(t, err)
	_, err = ix.Run(ctx)
	require.NoError(t, err)

	config.Force = true
	ix, err = NewIndexer(testCourses(), index, embedder, config, nil)
	require.NoError(t, err)
	stats, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Indexed: 5}, stats)
}

func TestIndexer_RetriesEmbedding(t *testing.T) {
	index := setupIndex(t)
	embedder := mock.NewMockEmbedder()

	failures := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if failures < 2 {
			failures++
			return nil, errors.New("429 too many requests")
		}
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = mock.DeterministicVector(text, 8)
		}
		return vectors, nil
	}

	config := testConfig()
	config.BatchSize = 10
	ix, err := NewIndexer(testCourses(), index, embedder, config, nil)
	require.NoError(t, err)

	stats, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Indexed)
	assert.Equal(t, 3, embedder.CallCount())
}

func TestIndexer_EmbeddingFailure(t *testing.T) {
	index := setupIndex(t)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("invalid api key")
	}

	ix, err := NewIndexer(testCourses(), index, embedder, testConfig(), nil)
	require.NoError(t, err)

	stats, err := ix.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Zero(t, stats.Indexed)
}

func TestIndexer_CountMismatch(t *testing.T) {
	index := setupIndex(t)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	ix, err := NewIndexer(testCourses(), index, embedder, testConfig(), nil)
	require.NoError(t, err)

	_, err = ix.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count mismatch")
}

func TestIndexer_EmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	ix, err := NewIndexer(courseList{}, setupIndex(t), mock.NewMockEmbedder(), nil, &buf)
	require.NoError(t, err)

	stats, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats)
	assert.Contains(t, buf.String(), "No courses found")
}
