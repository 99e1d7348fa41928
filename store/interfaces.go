package store

import (
	"context"

	"github.com/poiesic/flowdex/core"
)

// Store provides vector storage scoped to per-flow collections.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// CollectionExists reports whether the scope's collection exists.
	CollectionExists(ctx context.Context, scope core.Scope) (bool, error)

	// CollectionInfo returns configuration and size of the scope's
	// collection. Returns ErrCollectionNotFound if it does not exist.
	CollectionInfo(ctx context.Context, scope core.Scope) (*CollectionInfo, error)

	// CreateCollection ensures the scope's collection exists with the
	// given vector size. It reports whether a collection was actually
	// created: creating an already-existing collection with the same
	// vector size is a successful no-op. An existing collection with a
	// different vector size returns ErrDimensionMismatch.
	CreateCollection(ctx context.Context, scope core.Scope, vectorSize int) (bool, error)

	// DeleteCollection removes the scope's collection and reports
	// whether one existed. Deleting an absent collection is a
	// successful no-op.
	DeleteCollection(ctx context.Context, scope core.Scope) (bool, error)

	// FileExists reports whether any stored point references filePath.
	FileExists(ctx context.Context, scope core.Scope, filePath string) (bool, error)

	// UpsertPoints writes points to the scope's collection in batches.
	// Either all batches are accepted or an error is returned; a failed
	// batch aborts the remaining ones.
	UpsertPoints(ctx context.Context, scope core.Scope, points []Point) error

	// DeleteByFilePath removes every point referencing filePath and
	// returns the number removed. Zero is a successful outcome.
	DeleteByFilePath(ctx context.Context, scope core.Scope, filePath string) (int, error)

	// ListFiles aggregates stored points into per-document summaries.
	// Documents whose backing file no longer exists on disk are omitted.
	ListFiles(ctx context.Context, scope core.Scope) ([]FileSummary, error)

	// ForEachPoint streams every point in the scope's collection to fn
	// in pages of at most batchSize (batchSize <= 0 uses a default).
	// Vectors are not loaded. Iteration stops on the first error from fn.
	ForEachPoint(ctx context.Context, scope core.Scope, batchSize int, fn func([]Point) error) error

	// Close releases resources held by the store client.
	Close() error
}
