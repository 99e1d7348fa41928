package qdrant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/flowdex/core"
	"github.com/poiesic/flowdex/store"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewClient(srv.URL)
	require.NoError(t, err)
	return s.(*Client)
}

func writeResult(w http.ResponseWriter, result any) {
	payload, _ := json.Marshal(map[string]any{"result": result, "status": "ok"})
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func TestCreateCollectionIdempotent(t *testing.T) {
	var exists bool
	var puts int

	mux := http.NewServeMux()
	mux.HandleFunc("GET /collections/flow-1", func(w http.ResponseWriter, r *http.Request) {
		if !exists {
			http.NotFound(w, r)
			return
		}
		writeResult(w, map[string]any{
			"points_count": 0,
			"config": map[string]any{
				"params": map[string]any{
					"vectors": map[string]any{"size": 384, "distance": "Cosine"},
				},
			},
		})
	})
	mux.HandleFunc("PUT /collections/flow-1", func(w http.ResponseWriter, r *http.Request) {
		var req createCollectionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 384, req.Vectors.Size)
		assert.Equal(t, "Cosine", req.Vectors.Distance)
		puts++
		exists = true
		writeResult(w, true)
	})

	client := newTestClient(t, mux)
	scope := core.Scope{FlowID: "flow-1"}

	created, err := client.CreateCollection(context.Background(), scope, 384)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = client.CreateCollection(context.Background(), scope, 384)
	require.NoError(t, err)
	assert.False(t, created, "second create must be a no-op")
	assert.Equal(t, 1, puts)
}

func TestCreateCollectionDimensionMismatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /collections/flow-1", func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, map[string]any{
			"points_count": 42,
			"config": map[string]any{
				"params": map[string]any{
					"vectors": map[string]any{"size": 768, "distance": "Cosine"},
				},
			},
		})
	})

	client := newTestClient(t, mux)
	_, err := client.CreateCollection(context.Background(), core.Scope{FlowID: "flow-1"}, 384)
	assert.ErrorIs(t, err, store.ErrDimensionMismatch)
}

func TestDeleteCollectionAbsent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /collections/ghost", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	client := newTestClient(t, mux)
	deleted, err := client.DeleteCollection(context.Background(), core.Scope{FlowID: "ghost"})
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCollectionInfoNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.CollectionInfo(context.Background(), core.Scope{FlowID: "ghost"})
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)
}

func TestFileExists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /collections/flow-1/points/scroll", func(w http.ResponseWriter, r *http.Request) {
		var req scrollRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1, req.Limit)
		require.NotNil(t, req.Filter)
		require.Len(t, req.Filter.Must, 1)
		assert.Equal(t, "metadata.file_path", req.Filter.Must[0].Key)

		if req.Filter.Must[0].Match.Value == "/data/known.pdf" {
			writeResult(w, map[string]any{"points": []map[string]any{{"id": 1}}})
			return
		}
		writeResult(w, map[string]any{"points": []map[string]any{}})
	})

	client := newTestClient(t, mux)
	scope := core.Scope{FlowID: "flow-1"}

	ok, err := client.FileExists(context.Background(), scope, "/data/known.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.FileExists(context.Background(), scope, "/data/other.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileExistsMissingCollection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.FileExists(context.Background(), core.Scope{FlowID: "ghost"}, "/data/x.pdf")
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)
}

func TestUpsertPointsBatches(t *testing.T) {
	var batches []int
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /collections/flow-1/points", func(w http.ResponseWriter, r *http.Request) {
		var req upsertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		batches = append(batches, len(req.Points))
		writeResult(w, map[string]any{"operation_id": len(batches)})
	})

	client := newTestClient(t, mux)

	points := make([]store.Point, 250)
	for i := range points {
		points[i] = store.Point{
			ID:     fmt.Sprintf("point-%d", i),
			Vector: []float32{0.1, 0.2},
			Payload: store.Payload{
				PageContent: fmt.Sprintf("chunk %d", i),
				Metadata:    store.Metadata{FilePath: "/data/big.pdf", ChunkIdx: i},
			},
		}
	}

	err := client.UpsertPoints(context.Background(), core.Scope{FlowID: "flow-1"}, points)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 100, 50}, batches)
}

func TestDeleteByFilePath(t *testing.T) {
	remaining := 137
	var deleted int

	mux := http.NewServeMux()
	mux.HandleFunc("POST /collections/flow-1/points/scroll", func(w http.ResponseWriter, r *http.Request) {
		n := remaining
		if n > scrollLimit {
			n = scrollLimit
		}
		pts := make([]map[string]any, n)
		for i := 0; i < n; i++ {
			pts[i] = map[string]any{"id": deleted + i}
		}
		writeResult(w, map[string]any{"points": pts})
	})
	mux.HandleFunc("POST /collections/flow-1/points/delete", func(w http.ResponseWriter, r *http.Request) {
		var req deletePointsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		deleted += len(req.Points)
		remaining -= len(req.Points)
		writeResult(w, map[string]any{"operation_id": 1})
	})

	client := newTestClient(t, mux)
	count, err := client.DeleteByFilePath(context.Background(), core.Scope{FlowID: "flow-1"}, "/data/big.pdf")
	require.NoError(t, err)
	assert.Equal(t, 137, count)
	assert.Equal(t, 0, remaining)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	onDisk := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(onDisk, []byte("hello world"), 0o644))
	gone := filepath.Join(dir, "deleted.txt")

	point := func(id int, path, name string) map[string]any {
		return map[string]any{
			"id": id,
			"payload": map[string]any{
				"page_content": "chunk",
				"metadata": map[string]any{
					"file_path": path,
					"filename":  name,
					"file_id":   fmt.Sprintf("fid-%s", name),
					"file_type": "text",
					"flow_id":   "flow-1",
				},
			},
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /collections/flow-1/points/scroll", func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, map[string]any{
			"points": []map[string]any{
				point(1, onDisk, "present.txt"),
				point(2, onDisk, "present.txt"), // second chunk of the same file
				point(3, gone, "deleted.txt"),
			},
			"next_page_offset": nil,
		})
	})

	client := newTestClient(t, mux)
	files, err := client.ListFiles(context.Background(), core.Scope{FlowID: "flow-1"})
	require.NoError(t, err)

	require.Len(t, files, 1, "duplicates collapse and missing files drop out")
	assert.Equal(t, onDisk, files[0].FilePath)
	assert.Equal(t, "present.txt", files[0].FileName)
	assert.Equal(t, core.FileTypeText, files[0].FileType)
	assert.Equal(t, int64(11), files[0].FileSize)
}

func TestForEachPointPaginates(t *testing.T) {
	// two pages of 2 points, then a final page of 1
	pages := [][]map[string]any{
		{{"id": "a"}, {"id": "b"}},
		{{"id": "c"}, {"id": "d"}},
		{{"id": "e"}},
	}
	page := 0

	mux := http.NewServeMux()
	mux.HandleFunc("POST /collections/flow-1/points/scroll", func(w http.ResponseWriter, r *http.Request) {
		var req scrollRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.Limit)
		assert.True(t, req.WithPayload)

		var next any
		if page < len(pages)-1 {
			next = fmt.Sprintf("offset-%d", page+1)
		}
		writeResult(w, map[string]any{
			"points":           pages[page],
			"next_page_offset": next,
		})
		page++
	})

	client := newTestClient(t, mux)
	var ids []string
	err := client.ForEachPoint(context.Background(), core.Scope{FlowID: "flow-1"}, 2, func(points []store.Point) error {
		for _, p := range points {
			ids = append(ids, p.ID)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
}

func TestForEachPointStopsOnCallbackError(t *testing.T) {
	mux := http.NewServeMux()
	calls := 0
	mux.HandleFunc("POST /collections/flow-1/points/scroll", func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeResult(w, map[string]any{
			"points":           []map[string]any{{"id": "a"}},
			"next_page_offset": "more",
		})
	})

	client := newTestClient(t, mux)
	wantErr := errors.New("stop here")
	err := client.ForEachPoint(context.Background(), core.Scope{FlowID: "flow-1"}, 10, func(points []store.Point) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls, "no further pages are fetched after an error")
}

func TestServerErrorWrapped(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))

	_, err := client.CollectionExists(context.Background(), core.Scope{FlowID: "flow-1"})
	assert.ErrorIs(t, err, store.ErrRequestFailed)
}
