package equivalency

import "errors"

var (
	// ErrTableUnavailable indicates the equivalency table could not be read
	// or consulted. It is distinct from a table with no matching rows.
	ErrTableUnavailable = errors.New("equivalency table unavailable")

	// ErrMalformedTable indicates the equivalency table is missing a
	// required column or contains an unreadable row.
	ErrMalformedTable = errors.New("malformed equivalency table")
)
