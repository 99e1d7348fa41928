package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/flowdex/ai/mock"
	"github.com/poiesic/flowdex/chunk"
	"github.com/poiesic/flowdex/core"
	"github.com/poiesic/flowdex/extract"
	"github.com/poiesic/flowdex/store"
	"github.com/poiesic/flowdex/tracker"
)

// testStore is an in-memory store.Store double.
type testStore struct {
	mu          sync.Mutex
	collections map[string]int           // name -> vector size
	points      map[string][]store.Point // name -> points
	upsertErr   error
	scrollCalls int
}

func newTestStore(collections ...string) *testStore {
	s := &testStore{
		collections: make(map[string]int),
		points:      make(map[string][]store.Point),
	}
	for _, name := range collections {
		s.collections[name] = 384
	}
	return s
}

func (s *testStore) CollectionExists(ctx context.Context, scope core.Scope) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.collections[scope.CollectionName()]
	return ok, nil
}

func (s *testStore) CollectionInfo(ctx context.Context, scope core.Scope) (*store.CollectionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	size, ok := s.collections[scope.CollectionName()]
	if !ok {
		return nil, store.ErrCollectionNotFound
	}
	return &store.CollectionInfo{
		Name:        scope.CollectionName(),
		VectorSize:  size,
		Distance:    "Cosine",
		PointsCount: int64(len(s.points[scope.CollectionName()])),
	}, nil
}

func (s *testStore) CreateCollection(ctx context.Context, scope core.Scope, vectorSize int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := scope.CollectionName()
	if size, ok := s.collections[name]; ok {
		if size != vectorSize {
			return false, store.ErrDimensionMismatch
		}
		return false, nil
	}
	s.collections[name] = vectorSize
	return true, nil
}

func (s *testStore) DeleteCollection(ctx context.Context, scope core.Scope) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := scope.CollectionName()
	_, ok := s.collections[name]
	delete(s.collections, name)
	delete(s.points, name)
	return ok, nil
}

func (s *testStore) FileExists(ctx context.Context, scope core.Scope, filePath string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollCalls++
	for _, pt := range s.points[scope.CollectionName()] {
		if pt.Payload.Metadata.FilePath == filePath {
			return true, nil
		}
	}
	return false, nil
}

func (s *testStore) UpsertPoints(ctx context.Context, scope core.Scope, points []store.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	name := scope.CollectionName()
	s.points[name] = append(s.points[name], points...)
	return nil
}

func (s *testStore) DeleteByFilePath(ctx context.Context, scope core.Scope, filePath string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := scope.CollectionName()
	var kept []store.Point
	removed := 0
	for _, pt := range s.points[name] {
		if pt.Payload.Metadata.FilePath == filePath {
			removed++
			continue
		}
		kept = append(kept, pt)
	}
	s.points[name] = kept
	return removed, nil
}

func (s *testStore) ListFiles(ctx context.Context, scope core.Scope) ([]store.FileSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var files []store.FileSummary
	for _, pt := range s.points[scope.CollectionName()] {
		md := pt.Payload.Metadata
		if seen[md.FilePath] {
			continue
		}
		seen[md.FilePath] = true
		files = append(files, store.FileSummary{
			FilePath: md.FilePath,
			FileName: md.FileName,
			FileID:   md.FileID,
			FileType: md.FileType,
			FlowID:   md.FlowID,
		})
	}
	return files, nil
}

func (s *testStore) ForEachPoint(ctx context.Context, scope core.Scope, batchSize int, fn func([]store.Point) error) error {
	s.mu.Lock()
	points := append([]store.Point(nil), s.points[scope.CollectionName()]...)
	s.mu.Unlock()
	if len(points) == 0 {
		return nil
	}
	return fn(points)
}

func (s *testStore) Close() error { return nil }

func (s *testStore) pointCount(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points[collection])
}

func (s *testStore) seed(collection, filePath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[collection] = append(s.points[collection], store.Point{
		ID:     "seeded",
		Vector: []float32{0.1},
		Payload: store.Payload{
			PageContent: "seeded chunk",
			Metadata:    store.Metadata{FilePath: filePath, FileName: filepath.Base(filePath)},
		},
	})
}

type fixture struct {
	pipeline *Pipeline
	store    *testStore
	provider *mock.MockProvider
	tracker  *tracker.Tracker
}

func newFixture(t *testing.T, collections ...string) *fixture {
	t.Helper()

	provider := mock.NewMockProvider()
	extractor, err := extract.New(provider.Describer())
	require.NoError(t, err)

	st := newTestStore(collections...)
	track := tracker.New()

	p, err := NewPipeline(st, provider, extractor, track, WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return &fixture{pipeline: p, store: st, provider: provider, tracker: track}
}

func writeTempText(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func waitSettled(t *testing.T, f *fixture, fileID string) tracker.Entry {
	t.Helper()
	var entry tracker.Entry
	require.Eventually(t, func() bool {
		e, ok := f.tracker.Get(fileID)
		if !ok {
			entry = tracker.Entry{}
			return true
		}
		if e.Status == tracker.StatusFailed {
			entry = e
			return true
		}
		return false
	}, 5*time.Second, 10*time.Millisecond, "job neither completed nor failed")
	return entry
}

func TestIngestSuccess(t *testing.T) {
	f := newFixture(t, "flow-1")
	scope := core.Scope{FlowID: "flow-1"}
	path := writeTempText(t, strings.Repeat("the quick brown fox jumps over the lazy dog. ", 60))

	fileID, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath:     path,
		Scope:        scope,
		ChunkSize:    500,
		ChunkOverlap: 100,
	})
	require.NoError(t, err)
	require.NotEmpty(t, fileID)

	entry := waitSettled(t, f, fileID)
	assert.Empty(t, entry.FileID, "successful jobs leave no tracker entry")

	count := f.store.pointCount("flow-1")
	assert.Greater(t, count, 1)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "source file is deleted after indexing")
}

func TestIngestPointMetadata(t *testing.T) {
	f := newFixture(t, "flow-1")
	scope := core.Scope{FlowID: "flow-1"}
	path := writeTempText(t, "short document")

	fileID, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath: path,
		FileName: "short.txt",
		FileID:   "fixed-id",
		Scope:    scope,
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", fileID)

	waitSettled(t, f, fileID)

	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	require.Len(t, f.store.points["flow-1"], 1)
	md := f.store.points["flow-1"][0].Payload.Metadata
	assert.Equal(t, path, md.FilePath)
	assert.Equal(t, "fixed-id", md.FileID)
	assert.Equal(t, "short.txt", md.FileName)
	assert.Equal(t, core.FileTypeText, md.FileType)
	assert.Equal(t, "flow-1", md.FlowID)
	assert.Equal(t, 0, md.ChunkIdx)
	assert.NotEmpty(t, f.store.points["flow-1"][0].ID)
}

func TestIngestRejectsUnknownFileType(t *testing.T) {
	f := newFixture(t, "flow-1")
	path := filepath.Join(t.TempDir(), "tool.exe")
	require.NoError(t, os.WriteFile(path, []byte{0x4d, 0x5a, 0x00, 0x00}, 0o644))

	_, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath: path,
		Scope:    core.Scope{FlowID: "flow-1"},
	})
	assert.ErrorIs(t, err, extract.ErrUnsupportedFileType)

	// rejected before any store or model traffic
	assert.Zero(t, f.store.scrollCalls)
	assert.Zero(t, f.provider.GetMockEmbedder().CallCount())

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "rejected uploads are not deleted")
}

func TestIngestRejectsMissingCollection(t *testing.T) {
	f := newFixture(t) // no collections
	path := writeTempText(t, "content")

	_, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath: path,
		Scope:    core.Scope{FlowID: "flow-9"},
	})
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)
}

func TestIngestRejectsDuplicate(t *testing.T) {
	f := newFixture(t, "flow-1")
	path := writeTempText(t, "content")
	f.store.seed("flow-1", path)

	_, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath: path,
		Scope:    core.Scope{FlowID: "flow-1"},
	})
	assert.ErrorIs(t, err, ErrDuplicateFile)
	assert.Zero(t, f.provider.GetMockEmbedder().CallCount(), "duplicates are rejected before extraction")
	assert.Zero(t, f.tracker.Len())
}

func TestIngestRejectsInvalidStride(t *testing.T) {
	f := newFixture(t, "flow-1")
	path := writeTempText(t, "content")

	_, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath:     path,
		Scope:        core.Scope{FlowID: "flow-1"},
		ChunkSize:    100,
		ChunkOverlap: 100,
	})
	assert.ErrorIs(t, err, chunk.ErrInvalidStride)
}

func TestIngestRejectsEmptyFlow(t *testing.T) {
	f := newFixture(t, "flow-1")
	_, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath: writeTempText(t, "content"),
		Scope:    core.Scope{},
	})
	assert.ErrorIs(t, err, core.ErrInvalidScope)
}

func TestProcessSkipsFailedChunkEmbeddings(t *testing.T) {
	f := newFixture(t, "flow-1")
	f.provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "POISON") {
			return nil, errors.New("model overloaded")
		}
		return []float32{0.1, 0.2}, nil
	}

	// exactly one window contains the full poison marker
	content := strings.Repeat("a", 100) + strings.Repeat("b", 95) + "POISON" + strings.Repeat("c", 99)
	path := writeTempText(t, content)

	fileID, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath:     path,
		Scope:        core.Scope{FlowID: "flow-1"},
		ChunkSize:    100,
		ChunkOverlap: 50,
	})
	require.NoError(t, err)

	entry := waitSettled(t, f, fileID)
	assert.Empty(t, entry.FileID, "losing some chunks does not fail the job")
	assert.Greater(t, f.store.pointCount("flow-1"), 0)
}

func TestProcessFailsWhenAllEmbeddingsFail(t *testing.T) {
	f := newFixture(t, "flow-1")
	f.provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model overloaded")
	}
	path := writeTempText(t, "some content to embed")

	fileID, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath: path,
		Scope:    core.Scope{FlowID: "flow-1"},
	})
	require.NoError(t, err)

	entry := waitSettled(t, f, fileID)
	require.Equal(t, tracker.StatusFailed, entry.Status)
	assert.Contains(t, entry.Error, "embeddings failed")
	assert.Zero(t, f.store.pointCount("flow-1"))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "source file is removed even on failure")
}

func TestProcessFailsOnWhitespaceOnlyDocument(t *testing.T) {
	f := newFixture(t, "flow-1")
	path := writeTempText(t, "   \n\t  \n")

	fileID, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath: path,
		Scope:    core.Scope{FlowID: "flow-1"},
	})
	require.NoError(t, err)

	entry := waitSettled(t, f, fileID)
	require.Equal(t, tracker.StatusFailed, entry.Status)
	assert.Contains(t, entry.Error, "no chunks")
}

func TestProcessFailsOnUpsertError(t *testing.T) {
	f := newFixture(t, "flow-1")
	f.store.upsertErr = fmt.Errorf("%w: write timeout", store.ErrRequestFailed)
	path := writeTempText(t, "some content")

	fileID, err := f.pipeline.Ingest(context.Background(), Request{
		FilePath: path,
		Scope:    core.Scope{FlowID: "flow-1"},
	})
	require.NoError(t, err)

	entry := waitSettled(t, f, fileID)
	require.Equal(t, tracker.StatusFailed, entry.Status)
	assert.Contains(t, entry.Error, "upsert points")
}

func TestDeleteFile(t *testing.T) {
	f := newFixture(t, "flow-1")
	scope := core.Scope{FlowID: "flow-1"}
	path := writeTempText(t, "indexed earlier")
	f.store.seed("flow-1", path)
	f.store.seed("flow-1", path)

	res, err := f.pipeline.DeleteFile(context.Background(), scope, path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.PointsDeleted)
	assert.True(t, res.FileDeleted)

	exists, err := f.store.FileExists(context.Background(), scope, path)
	require.NoError(t, err)
	assert.False(t, exists, "no points remain after delete")
}

func TestDeleteFileNotIndexed(t *testing.T) {
	f := newFixture(t, "flow-1")
	_, err := f.pipeline.DeleteFile(context.Background(), core.Scope{FlowID: "flow-1"}, "/tmp/never-uploaded.txt")
	assert.ErrorIs(t, err, ErrFileNotIndexed)
}

func TestDeleteFileMissingCollection(t *testing.T) {
	f := newFixture(t)
	_, err := f.pipeline.DeleteFile(context.Background(), core.Scope{FlowID: "ghost"}, "/tmp/x.txt")
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)
}

func TestCreateCollection(t *testing.T) {
	f := newFixture(t)
	scope := core.Scope{FlowID: "flow-new"}

	created, size, err := f.pipeline.CreateCollection(context.Background(), scope)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 384, size, "sized by probing the embedding model")

	created, _, err = f.pipeline.CreateCollection(context.Background(), scope)
	require.NoError(t, err)
	assert.False(t, created, "second create is a no-op")
}

func TestNewPipelineValidation(t *testing.T) {
	provider := mock.NewMockProvider()
	extractor, err := extract.New(provider.Describer())
	require.NoError(t, err)
	st := newTestStore()
	track := tracker.New()

	_, err = NewPipeline(nil, provider, extractor, track)
	assert.ErrorIs(t, err, ErrStoreRequired)
	_, err = NewPipeline(st, nil, extractor, track)
	assert.ErrorIs(t, err, ErrProviderRequired)
	_, err = NewPipeline(st, provider, nil, track)
	assert.ErrorIs(t, err, ErrExtractorRequired)
	_, err = NewPipeline(st, provider, extractor, nil)
	assert.ErrorIs(t, err, ErrTrackerRequired)
}
