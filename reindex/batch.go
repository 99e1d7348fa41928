package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/flowdex/ai"
	"github.com/poiesic/flowdex/core"
	"github.com/poiesic/flowdex/store"
)

// BatchProcessor regenerates embeddings for batches of stored points.
type BatchProcessor struct {
	store          store.Store
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(st store.Store, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		store:          st,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates embeddings for a batch of points from their stored
// chunk text and writes the updated points back to the collection.
func (bp *BatchProcessor) Process(ctx context.Context, scope core.Scope, points []store.Point) error {
	if len(points) == 0 {
		return nil
	}

	for i := range points {
		var vector []float32
		err := retryWithBackoff(ctx, func() error {
			var err error
			vector, err = bp.embedder.EmbedText(ctx, points[i].Payload.PageContent)
			return err
		}, bp.maxRetries, bp.retryBaseDelay)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %s after %d attempts: %w", points[i].ID, bp.maxRetries, err)
		}
		points[i].Vector = vector
	}

	// Upserting an existing ID replaces the point in place
	if err := bp.store.UpsertPoints(ctx, scope, points); err != nil {
		return fmt.Errorf("failed to update points: %w", err)
	}

	return nil
}
