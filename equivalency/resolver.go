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


package equivalency

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/poiesic/coursefinder/core"
)

const (
	// DefaultMaxRows caps distance-ranked results.
	DefaultMaxRows = 5
)

// Resolver selects the community college equivalencies to show for a course.
type Resolver struct {
	source  Source
	maxRows int
	logger  *slog.Logger
}

// Option is a functional option for configuring a Resolver.
type Option func(*Resolver) error

// WithMaxRows sets how many distance-ranked rows are returned.
func WithMaxRows(n int) Option {
	return func(r *Resolver) error {
		if n <= 0 {
			return errors.New("max rows must be positive")
		}
		r.maxRows = n
		return nil
	}
}

// WithLogger sets the logger for the resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "equivalency")
		return nil
	}
}

// NewResolver creates a Resolver over source. A nil source is allowed; every
// Resolve call then reports ErrTableUnavailable.
func NewResolver(source Source, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		source:  source,
		maxRows: DefaultMaxRows,
		logger:  slog.Default().With("component", "equivalency"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Resolve returns the equivalency rows for a course code.
//
// With a non-empty distances map, each row's Distance is looked up by
// community college name, rows are ordered nearest first with unknown
// distances last, only the first row per college is kept and at most
// MaxRows rows are returned.
//
// Without distances, every distinct college is returned sorted by name with
// a nil Distance.
//
// The result is never nil. "No equivalencies" is an empty slice; an
// unreadable table is an error wrapping ErrTableUnavailable.
func (r *Resolver) Resolve(ctx context.Context, code string, distances core.CollegeDistances) ([]core.EquivalencyRow, error) {
	if r.source == nil {
		return nil, fmt.Errorf("%w: no table configured", ErrTableUnavailable)
	}

	rows, err := r.source.Lookup(ctx, core.NormalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTableUnavailable, err)
	}
	if len(rows) == 0 {
		return []core.EquivalencyRow{}, nil
	}
	rows = slices.Clone(rows)

	if len(distances) == 0 {
		for i := range rows {
			rows[i].Distance = nil
		}
		slices.SortStableFunc(rows, func(a, b core.EquivalencyRow) int {
			return cmp.Compare(a.CommunityCollege, b.CommunityCollege)
		})
		return uniqueColleges(rows, 0), nil
	}

	for i := range rows {
		rows[i].Distance = finite(distances[rows[i].CommunityCollege])
	}
	slices.SortStableFunc(rows, compareDistance)

	result := uniqueColleges(rows, r.maxRows)
	r.logger.Debug("resolved equivalencies", "code", code, "candidates", len(rows), "returned", len(result))
	return result, nil
}

// uniqueColleges keeps the first row per community college, stopping after
// limit rows when limit is positive.
func uniqueColleges(rows []core.EquivalencyRow, limit int) []core.EquivalencyRow {
	seen := make(map[string]struct{}, len(rows))
	result := make([]core.EquivalencyRow, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.CommunityCollege]; dup {
			continue
		}
		seen[row.CommunityCollege] = struct{}{}
		result = append(result, row)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result
}

// compareDistance orders known distances ascending with nil last.
func compareDistance(a, b core.EquivalencyRow) int {
	switch {
	case a.Distance == nil && b.Distance == nil:
		return 0
	case a.Distance == nil:
		return 1
	case b.Distance == nil:
		return -1
	}
	return cmp.Compare(*a.Distance, *b.Distance)
}

// finite returns a copy of d, or nil when d is nil, NaN or infinite.
func finite(d *float64) *float64 {
	if d == nil || math.IsNaN(*d) || math.IsInf(*d, 0) {
		return nil
	}
	v := *d
	return &v
}
