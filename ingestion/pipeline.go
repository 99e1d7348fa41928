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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/flowdex/ai"
	"github.com/poiesic/flowdex/chunk"
	"github.com/poiesic/flowdex/core"
	"github.com/poiesic/flowdex/extract"
	"github.com/poiesic/flowdex/store"
	"github.com/poiesic/flowdex/tracker"
)

// Pipeline orchestrates document ingestion into the vector store.
// Validation and duplicate checks run synchronously; extraction,
// chunking, embedding and upload run on a bounded worker pool.
type Pipeline struct {
	store     store.Store
	provider  ai.Provider
	extractor Extractor
	tracker   *tracker.Tracker
	pool      *ants.Pool

	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunkDefaults sets the chunk window parameters applied when a
// request leaves them zero. Defaults are chunk.DefaultSize and
// chunk.DefaultOverlap.
func WithChunkDefaults(size, overlap int) Option {
	return func(p *Pipeline) error {
		if err := chunk.Validate(size, overlap); err != nil {
			return err
		}
		p.chunkSize = size
		p.chunkOverlap = overlap
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	st store.Store,
	provider ai.Provider,
	extractor Extractor,
	track *tracker.Tracker,
	opts ...Option,
) (*Pipeline, error) {
	if st == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if track == nil {
		return nil, ErrTrackerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:        st,
		provider:     provider,
		extractor:    extractor,
		tracker:      track,
		pool:         pool,
		chunkSize:    chunk.DefaultSize,
		chunkOverlap: chunk.DefaultOverlap,
		logger:       slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Request describes one document to ingest.
type Request struct {
	// FilePath is the uploaded file on local disk. The pipeline owns
	// the file from acceptance on: it is deleted after indexing.
	FilePath string
	// FileName defaults to the base name of FilePath.
	FileName string
	// FileID defaults to a random UUID. It keys the tracker entry.
	FileID string
	// Scope selects the target collection.
	Scope core.Scope
	// ChunkSize and ChunkOverlap default to the pipeline's settings
	// when zero.
	ChunkSize    int
	ChunkOverlap int
	// IncludeImages enables vision descriptions of embedded images.
	IncludeImages bool
}

// Ingest validates the request, registers it with the tracker and
// queues background processing. It returns the file ID used for
// status polling.
//
// Validation is synchronous and cheap: window parameters, file type,
// collection existence and duplicate detection all happen before any
// extraction or inference, so a rejected file costs no model calls.
func (p *Pipeline) Ingest(ctx context.Context, req Request) (string, error) {
	if err := core.ValidateScope(req.Scope); err != nil {
		return "", err
	}

	if req.ChunkSize == 0 {
		req.ChunkSize = p.chunkSize
	}
	if req.ChunkOverlap == 0 {
		req.ChunkOverlap = p.chunkOverlap
	}
	if err := chunk.Validate(req.ChunkSize, req.ChunkOverlap); err != nil {
		return "", err
	}

	if req.FileName == "" {
		req.FileName = filepath.Base(req.FilePath)
	}
	if req.FileID == "" {
		req.FileID = uuid.NewString()
	}

	fileType := p.extractor.DetectType(req.FilePath)
	if !fileType.Valid() {
		return "", fmt.Errorf("%w: %s", extract.ErrUnsupportedFileType, req.FileName)
	}

	exists, err := p.store.CollectionExists(ctx, req.Scope)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", store.ErrCollectionNotFound, req.Scope.CollectionName())
	}

	indexed, err := p.store.FileExists(ctx, req.Scope, req.FilePath)
	if err != nil {
		return "", err
	}
	if indexed {
		return "", fmt.Errorf("%w: %s", ErrDuplicateFile, req.FilePath)
	}

	p.tracker.Add(tracker.Entry{
		FileID:         req.FileID,
		FileName:       req.FileName,
		FilePath:       req.FilePath,
		FileType:       fileType,
		FlowID:         req.Scope.FlowID,
		IncludesImages: req.IncludeImages,
	})

	if err := p.pool.Submit(func() { p.process(req) }); err != nil {
		p.tracker.Remove(req.FileID)
		return "", fmt.Errorf("submit ingestion job: %w", err)
	}

	p.logger.Info("accepted file for ingestion",
		"file_id", req.FileID, "filename", req.FileName,
		"file_type", fileType, "flow_id", req.Scope.FlowID)
	return req.FileID, nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
