package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/storage"
)

// Index implements storage.VectorIndex for BadgerDB.
// Queries scan every stored vector; the catalog is a few thousand courses.
type Index struct {
	backend     *Backend
	ownsBackend bool
}

var _ storage.VectorIndex = (*Index)(nil)

// NewIndex creates an Index over an already open backend.
// The caller remains responsible for closing the backend.
func NewIndex(backend *Backend) *Index {
	return newIndex(backend, false)
}

func newIndex(backend *Backend, owns bool) *Index {
	return &Index{
		backend:     backend,
		ownsBackend: owns,
	}
}

// OpenIndex opens (or creates) a persistent index at path.
// Closing the returned index closes the underlying database.
func OpenIndex(path string) (storage.VectorIndex, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newIndex(backend, true), nil
}

// Close closes the backend if the index opened it.
func (x *Index) Close() error {
	if !x.ownsBackend || x.backend.IsClosed() {
		return nil
	}
	return x.backend.Close()
}

// Upsert inserts or replaces course vectors.
func (x *Index) Upsert(ctx context.Context, vectors ...*core.CourseVector) error {
	return x.backend.update(func(tx *badger.Txn) error {
		for _, v := range vectors {
			if v == nil || strings.TrimSpace(v.ID) == "" {
				return fmt.Errorf("%w: course vector requires an ID", storage.ErrInvalidQuery)
			}
			value, err := storage.MarshalCourseVector(v)
			if err != nil {
				return err
			}
			if err := tx.Set(makeCourseVectorKey(v.ID), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get retrieves a single course vector by ID.
func (x *Index) Get(ctx context.Context, id string) (*core.CourseVector, error) {
	var result *core.CourseVector
	err := x.backend.view(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCourseVectorKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalCourseVector(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Query returns the topK most similar course vectors.
// Similarity is the dot product, which equals cosine similarity for
// normalized vectors.
func (x *Index) Query(ctx context.Context, vector []float32, topK int) ([]core.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", storage.ErrInvalidQuery, topK)
	}
	var matches []core.Match
	err := x.backend.view(func(tx *badger.Txn) error {
		return x.backend.eachCourseVector(tx, func(entry *core.CourseVector) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(entry.Vector) == 0 {
				return nil
			}
			matches = append(matches, core.Match{
				ID:       entry.ID,
				Score:    similarity(vector, entry.Vector),
				Metadata: entry.Metadata,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending, course string ascending on ties
	slices.SortFunc(matches, func(a, b core.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

// Count returns the number of stored course vectors.
func (x *Index) Count(ctx context.Context) (int, error) {
	count := 0
	err := x.backend.view(func(tx *badger.Txn) error {
		count = countKeys(tx, []byte(courseVectorPrefix))
		return nil
	})
	return count, err
}

// Delete removes course vectors by ID.
func (x *Index) Delete(ctx context.Context, ids ...string) error {
	return x.backend.update(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCourseVectorKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
