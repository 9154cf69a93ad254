package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/coursefinder/ai"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/storage"
)

// BatchProcessor embeds a batch of course documents and stores the vectors.
type BatchProcessor struct {
	index          storage.VectorIndex
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries bounds the attempts per embedding call; retryBaseDelay is the
// first backoff delay.
func NewBatchProcessor(index storage.VectorIndex, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		index:          index,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// pending is a course whose document must be (re)embedded.
type pending struct {
	course   *core.Course
	document string
	hash     uint64
}

// Process embeds the documents of a batch and upserts one vector per course.
func (bp *BatchProcessor) Process(ctx context.Context, batch []pending) error {
	if len(batch) == 0 {
		return nil
	}

	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.document
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
	}

	vectors := make([]*core.CourseVector, len(batch))
	for i, p := range batch {
		vectors[i] = &core.CourseVector{
			ID:          p.course.CourseString,
			Vector:      NormalizeVector(embeddings[i]),
			ContentHash: p.hash,
			Metadata: map[string]string{
				core.MetadataTitle: p.course.Title,
				core.MetadataCode:  p.course.CourseString,
				core.MetadataText:  p.document,
			},
		}
	}

	if err := bp.index.Upsert(ctx, vectors...); err != nil {
		return fmt.Errorf("failed to store vectors: %w", err)
	}
	return nil
}
