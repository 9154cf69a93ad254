package storage

import (
	"context"

	"github.com/poiesic/coursefinder/core"
)

// VectorIndex stores embedded course documents and answers nearest-neighbor
// queries over them. Implementations must be thread-safe and support
// concurrent access.
type VectorIndex interface {
	// Upsert inserts or replaces course vectors keyed by their ID.
	// Vectors should be normalized so that dot product equals cosine similarity.
	Upsert(ctx context.Context, vectors ...*core.CourseVector) error

	// Get retrieves a single course vector by ID.
	// Returns ErrNotFound if the vector doesn't exist.
	Get(ctx context.Context, id string) (*core.CourseVector, error)

	// Query returns at most topK entries ordered by similarity to vector,
	// highest first. Returns ErrInvalidQuery if topK is not positive.
	Query(ctx context.Context, vector []float32, topK int) ([]core.Match, error)

	// Count returns the number of stored vectors.
	Count(ctx context.Context) (int, error)

	// Delete removes vectors by ID.
	// Returns ErrNotFound if any ID doesn't exist.
	Delete(ctx context.Context, ids ...string) error

	// Close releases resources held by the index.
	Close() error
}
