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


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/flowdex/ai"
	"github.com/poiesic/flowdex/core"
	"github.com/poiesic/flowdex/store"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of points to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
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

// Reindexer orchestrates the reembedding of all chunks in a flow's
// collection with the configured embedding model.
type Reindexer struct {
	store     store.Store
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(st store.Store, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reindexer{
		store:     st,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(st, embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run executes the reindexing operation for one flow. Every chunk stored
// in the scope's collection is reembedded from its stored text.
// Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context, scope core.Scope) error {
	info, err := r.store.CollectionInfo(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to inspect collection: %w", err)
	}

	// The collection's vector size is fixed at creation. A model that
	// produces a different dimensionality needs a fresh collection.
	modelSize, err := r.embedder.VectorSize(ctx)
	if err != nil {
		return fmt.Errorf("failed to probe embedding model: %w", err)
	}
	if modelSize != info.VectorSize {
		return fmt.Errorf("%w: collection %q holds %d-dimensional vectors but the model produces %d; delete and recreate the collection first",
			store.ErrDimensionMismatch, info.Name, info.VectorSize, modelSize)
	}

	total := int(info.PointsCount)
	if total == 0 {
		fmt.Fprintf(r.progress, "No chunks found in collection %q (0 points)\n", info.Name)
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d chunks in %q (batch size: %d)\n",
		total, info.Name, r.config.BatchSize)

	tracker := newProgressTracker(r.progress, total, r.config.ReportInterval)

	processed := 0
	err = r.store.ForEachPoint(ctx, scope, r.config.BatchSize, func(points []store.Point) error {
		if err := r.processor.Process(ctx, scope, points); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(points)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())

	return nil
}
