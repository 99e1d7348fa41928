package ingestion

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/poiesic/flowdex/core"
	"github.com/poiesic/flowdex/store"
	"github.com/poiesic/flowdex/tracker"
)

// DeleteResult reports the two independent outcomes of a file delete:
// point removal from the vector store and physical removal from disk.
type DeleteResult struct {
	PointsDeleted int
	FileDeleted   bool
}

// DeleteFile removes every vector belonging to filePath from the
// scope's collection and best-effort deletes the file from disk.
// Returns ErrFileNotIndexed when the collection holds no points for
// the path.
func (p *Pipeline) DeleteFile(ctx context.Context, scope core.Scope, filePath string) (DeleteResult, error) {
	var res DeleteResult
	if err := core.ValidateScope(scope); err != nil {
		return res, err
	}

	exists, err := p.store.CollectionExists(ctx, scope)
	if err != nil {
		return res, err
	}
	if !exists {
		return res, fmt.Errorf("%w: %s", store.ErrCollectionNotFound, scope.CollectionName())
	}

	indexed, err := p.store.FileExists(ctx, scope, filePath)
	if err != nil {
		return res, err
	}
	if !indexed {
		return res, fmt.Errorf("%w: %s", ErrFileNotIndexed, filePath)
	}

	res.PointsDeleted, err = p.store.DeleteByFilePath(ctx, scope, filePath)
	if err != nil {
		return res, err
	}

	// physical removal is best effort, the vectors are already gone
	if rmErr := os.Remove(filePath); rmErr == nil {
		res.FileDeleted = true
	} else if !os.IsNotExist(rmErr) {
		p.logger.Warn("failed to remove file from disk", "file_path", filePath, "err", rmErr)
	}

	p.logger.Info("deleted file from collection",
		"file_path", filePath, "flow_id", scope.FlowID,
		"points_deleted", res.PointsDeleted, "file_deleted", res.FileDeleted)
	return res, nil
}

// CreateCollection ensures the scope's collection exists, sized to the
// embedding model's dimensionality. It reports whether a collection
// was created along with the vector size in use.
func (p *Pipeline) CreateCollection(ctx context.Context, scope core.Scope) (bool, int, error) {
	if err := core.ValidateScope(scope); err != nil {
		return false, 0, err
	}

	size, err := p.provider.Embedder().VectorSize(ctx)
	if err != nil {
		return false, 0, err
	}

	created, err := p.store.CreateCollection(ctx, scope, size)
	if err != nil {
		return false, size, err
	}
	return created, size, nil
}

// DeleteCollection removes the scope's collection and reports whether
// one existed.
func (p *Pipeline) DeleteCollection(ctx context.Context, scope core.Scope) (bool, error) {
	if err := core.ValidateScope(scope); err != nil {
		return false, err
	}
	return p.store.DeleteCollection(ctx, scope)
}

// ListFiles returns one summary per indexed document in the scope.
func (p *Pipeline) ListFiles(ctx context.Context, scope core.Scope) ([]store.FileSummary, error) {
	if err := core.ValidateScope(scope); err != nil {
		return nil, err
	}
	return p.store.ListFiles(ctx, scope)
}

// Status returns the tracked state of one ingestion job.
func (p *Pipeline) Status(fileID string) (tracker.Entry, bool) {
	return p.tracker.Get(fileID)
}

// StatusByFlow returns the tracked state of every job in a flow.
func (p *Pipeline) StatusByFlow(flowID string) []tracker.Entry {
	return p.tracker.ByFlow(flowID)
}

// CleanupStale expires tracker entries older than maxAge and returns
// the number removed.
func (p *Pipeline) CleanupStale(maxAge time.Duration) int {
	return p.tracker.CleanupStale(maxAge)
}
