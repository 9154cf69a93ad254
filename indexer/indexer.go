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


package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/coursefinder/ai"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/storage"
)

// Config holds configuration for an indexing run.
type Config struct {
	// BatchSize is the number of course documents embedded per call
	BatchSize int

	// ReportInterval is how often to report progress (number of courses)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Force re-embeds courses whose stored document hash is unchanged
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// CourseSource supplies the courses to index. *catalog.Store satisfies it.
type CourseSource interface {
	Courses() []*core.Course
}

// Stats summarizes an indexing run.
type Stats struct {
	Indexed int
	Skipped int
}

// Indexer embeds every catalog course into a vector index.
type Indexer struct {
	courses   CourseSource
	index     storage.VectorIndex
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewIndexer creates an indexer. progress receives human-readable progress
// output and may be nil.
func NewIndexer(courses CourseSource, index storage.VectorIndex, embedder ai.Embedder, config *Config, progress io.Writer) (*Indexer, error) {
	if courses == nil {
		return nil, ErrCatalogRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	normalized := *config
	config = &normalized
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Indexer{
		courses:   courses,
		index:     index,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(index, embedder, config.MaxRetries, config.RetryDelay),
		logger:    slog.Default().With("component", "indexer"),
	}, nil
}

// Run indexes every course. Courses with an unchanged stored document are
// skipped unless Force is set. The first failed batch stops the run.
func (ix *Indexer) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	courses := ix.courses.Courses()
	total := len(courses)
	if total == 0 {
		fmt.Fprintf(ix.progress, "No courses found in catalog (0 courses)\n")
		return stats, nil
	}

	fmt.Fprintf(ix.progress, "Starting indexing of %d courses (batch size: %d)\n",
		total, ix.config.BatchSize)

	tracker := NewProgressTracker(ix.progress, total, ix.config.ReportInterval)
	tracker.Start()

	batch := make([]pending, 0, ix.config.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ix.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		stats.Indexed += len(batch)
		tracker.Increment(len(batch))
		batch = batch[:0]
		return nil
	}

	for _, course := range courses {
		document := course.Document()
		hash := core.ContentHash(document)

		unchanged, err := ix.unchanged(ctx, course.CourseString, hash)
		if err != nil {
			return stats, err
		}
		if unchanged {
			stats.Skipped++
			tracker.Increment(1)
			continue
		}

		batch = append(batch, pending{course: course, document: document, hash: hash})
		if len(batch) >= ix.config.BatchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(ix.progress, "Indexing complete. Embedded %d courses, skipped %d unchanged in %v\n",
		stats.Indexed, stats.Skipped, elapsed.Round(time.Millisecond))
	ix.logger.Info("index build complete", "indexed", stats.Indexed, "skipped", stats.Skipped)

	return stats, nil
}

func (ix *Indexer) unchanged(ctx context.Context, id string, hash uint64) (bool, error) {
	if ix.config.Force {
		return false, nil
	}
	existing, err := ix.index.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", id, err)
	}
	return existing.ContentHash == hash && len(existing.Vector) > 0, nil
}
