package indexer

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrCatalogRequired is returned when an indexer is created without a course source.
	ErrCatalogRequired = errors.New("course catalog required")

	// ErrIndexRequired is returned when an indexer is created without a vector index.
	ErrIndexRequired = errors.New("vector index required")

	// ErrEmbedderRequired is returned when an indexer is created without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")
)
