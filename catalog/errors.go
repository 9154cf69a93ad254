package catalog

import "errors"

var (
	// ErrDatasetUnavailable indicates the course dataset could not be read.
	ErrDatasetUnavailable = errors.New("course dataset unavailable")

	// ErrMalformedDataset indicates the course dataset could not be decoded
	// or contains an invalid record.
	ErrMalformedDataset = errors.New("malformed course dataset")
)
