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
	"os"

	"github.com/google/uuid"

	"github.com/poiesic/flowdex/chunk"
	"github.com/poiesic/flowdex/store"
	"github.com/poiesic/flowdex/tracker"
)

// progressEvery controls how often the tracker's chunk counters are
// refreshed while embedding.
const progressEvery = 5

// process runs one accepted ingestion job to completion. It is invoked
// on the worker pool with a fresh background context: the job must not
// die with the request that submitted it.
func (p *Pipeline) process(req Request) {
	ctx := context.Background()
	logger := p.logger.With("file_id", req.FileID, "filename", req.FileName)

	p.tracker.SetStatus(req.FileID, tracker.StatusReadingFile)
	text, fileType, err := p.extractor.Extract(ctx, req.FilePath, req.IncludeImages)
	if err != nil {
		p.fail(req, logger, fmt.Errorf("extract content: %w", err))
		return
	}

	p.tracker.SetStatus(req.FileID, tracker.StatusCreatingChunks)
	chunks, err := chunk.Split(text, req.ChunkSize, req.ChunkOverlap)
	if err != nil {
		p.fail(req, logger, fmt.Errorf("split content: %w", err))
		return
	}
	if len(chunks) == 0 {
		p.fail(req, logger, fmt.Errorf("no chunks produced from document"))
		return
	}
	p.tracker.Update(req.FileID, func(e *tracker.Entry) {
		e.TotalChunks = len(chunks)
	})

	p.tracker.SetStatus(req.FileID, tracker.StatusGeneratingEmbeddings)
	embedder := p.provider.Embedder()
	points := make([]store.Point, 0, len(chunks))
	for idx, content := range chunks {
		vector, err := embedder.EmbedText(ctx, content)
		if err != nil {
			// one lost chunk degrades recall, it does not fail the document
			logger.Warn("skipping chunk, embedding failed", "chunk_idx", idx, "err", err)
			continue
		}

		points = append(points, store.Point{
			ID:     uuid.NewString(),
			Vector: vector,
			Payload: store.Payload{
				PageContent: content,
				Metadata: store.Metadata{
					FilePath:       req.FilePath,
					FileID:         req.FileID,
					FileName:       req.FileName,
					FileType:       fileType,
					FlowID:         req.Scope.FlowID,
					ChunkIdx:       idx,
					IncludesImages: req.IncludeImages,
				},
			},
		})

		if idx%progressEvery == 0 {
			current := idx + 1
			p.tracker.Update(req.FileID, func(e *tracker.Entry) {
				e.CurrentChunk = current
			})
		}
	}
	if len(points) == 0 {
		p.fail(req, logger, fmt.Errorf("all %d chunk embeddings failed", len(chunks)))
		return
	}

	p.tracker.SetStatus(req.FileID, tracker.StatusUploading)
	if err := p.store.UpsertPoints(ctx, req.Scope, points); err != nil {
		p.fail(req, logger, fmt.Errorf("upsert points: %w", err))
		return
	}

	p.tracker.Remove(req.FileID)
	p.removeSource(req, logger)
	logger.Info("file indexed",
		"chunks", len(chunks), "points", len(points), "flow_id", req.Scope.FlowID)
}

// fail records the failure in the tracker and cleans up the source
// file. The failed entry stays visible until removed or expired.
func (p *Pipeline) fail(req Request, logger *slog.Logger, err error) {
	logger.Error("ingestion failed", "err", err)
	p.tracker.Fail(req.FileID, err.Error())
	p.removeSource(req, logger)
}

// removeSource deletes the uploaded file once the pipeline is done
// with it, successfully or not.
func (p *Pipeline) removeSource(req Request, logger *slog.Logger) {
	if err := os.Remove(req.FilePath); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove source file", "file_path", req.FilePath, "err", err)
	}
}
