package qdrant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/poiesic/flowdex/core"
	"github.com/poiesic/flowdex/store"
)

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrCollectionNotFound)
}

// filter matches points whose metadata.file_path equals a given value.
type filter struct {
	Must []fieldMatch `json:"must"`
}

type fieldMatch struct {
	Key   string     `json:"key"`
	Match matchValue `json:"match"`
}

type matchValue struct {
	Value any `json:"value"`
}

func filePathFilter(filePath string) *filter {
	return &filter{
		Must: []fieldMatch{
			{Key: "metadata.file_path", Match: matchValue{Value: filePath}},
		},
	}
}

type scrollRequest struct {
	Limit       int             `json:"limit"`
	Offset      json.RawMessage `json:"offset,omitempty"`
	Filter      *filter         `json:"filter,omitempty"`
	WithPayload bool            `json:"with_payload"`
	WithVector  bool            `json:"with_vector"`
}

// scrollPoint keeps the ID raw since Qdrant allows both numeric and
// UUID point IDs, and delete requests must echo them back verbatim.
type scrollPoint struct {
	ID      json.RawMessage `json:"id"`
	Payload store.Payload   `json:"payload"`
}

type scrollResult struct {
	Points         []scrollPoint   `json:"points"`
	NextPageOffset json.RawMessage `json:"next_page_offset"`
}

type upsertRequest struct {
	Points []store.Point `json:"points"`
}

type deletePointsRequest struct {
	Points []json.RawMessage `json:"points"`
}

// scroll performs one scroll call against the scope's collection.
func (c *Client) scroll(ctx context.Context, scope core.Scope, req scrollRequest) (*scrollResult, error) {
	name := scope.CollectionName()
	result, code, err := c.do(ctx, http.MethodPost, "/collections/"+name+"/points/scroll", req)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", store.ErrCollectionNotFound, name)
	}

	var sr scrollResult
	if err := json.Unmarshal(result, &sr); err != nil {
		return nil, fmt.Errorf("%w: decode scroll response: %w", store.ErrRequestFailed, err)
	}
	return &sr, nil
}

// FileExists reports whether any stored point references filePath.
func (c *Client) FileExists(ctx context.Context, scope core.Scope, filePath string) (bool, error) {
	sr, err := c.scroll(ctx, scope, scrollRequest{
		Limit:  1,
		Filter: filePathFilter(filePath),
	})
	if err != nil {
		return false, err
	}
	return len(sr.Points) > 0, nil
}

// UpsertPoints writes points to the scope's collection in batches of
// batchSize. A failed batch aborts the remaining ones.
func (c *Client) UpsertPoints(ctx context.Context, scope core.Scope, points []store.Point) error {
	name := scope.CollectionName()
	for start := 0; start < len(points); start += batchSize {
		end := start + batchSize
		if end > len(points) {
			end = len(points)
		}

		_, code, err := c.do(ctx, http.MethodPut, "/collections/"+name+"/points?wait=true",
			upsertRequest{Points: points[start:end]})
		if err != nil {
			return fmt.Errorf("upsert batch %d-%d: %w", start, end, err)
		}
		if code == http.StatusNotFound {
			return fmt.Errorf("%w: %s", store.ErrCollectionNotFound, name)
		}
	}
	c.logger.Debug("upserted points", "collection", name, "count", len(points))
	return nil
}

// DeleteByFilePath removes every point referencing filePath, scrolling
// and deleting in pages until none remain. Returns the number removed.
func (c *Client) DeleteByFilePath(ctx context.Context, scope core.Scope, filePath string) (int, error) {
	name := scope.CollectionName()
	total := 0
	for {
		sr, err := c.scroll(ctx, scope, scrollRequest{
			Limit:  scrollLimit,
			Filter: filePathFilter(filePath),
		})
		if err != nil {
			return total, err
		}
		if len(sr.Points) == 0 {
			break
		}

		ids := make([]json.RawMessage, len(sr.Points))
		for i, p := range sr.Points {
			ids[i] = p.ID
		}
		_, code, err := c.do(ctx, http.MethodPost, "/collections/"+name+"/points/delete?wait=true",
			deletePointsRequest{Points: ids})
		if err != nil {
			return total, fmt.Errorf("delete points: %w", err)
		}
		if code == http.StatusNotFound {
			return total, fmt.Errorf("%w: %s", store.ErrCollectionNotFound, name)
		}
		total += len(ids)
	}
	c.logger.Info("deleted points by file path", "collection", name, "file_path", filePath, "count", total)
	return total, nil
}

// ListFiles aggregates stored points into per-document summaries.
// Summaries are deduplicated by file path, and documents whose backing
// file no longer exists on disk are omitted.
func (c *Client) ListFiles(ctx context.Context, scope core.Scope) ([]store.FileSummary, error) {
	seen := make(map[string]bool)
	var files []store.FileSummary

	var offset json.RawMessage
	for {
		sr, err := c.scroll(ctx, scope, scrollRequest{
			Limit:       scrollLimit,
			Offset:      offset,
			WithPayload: true,
		})
		if err != nil {
			return nil, err
		}

		for _, p := range sr.Points {
			md := p.Payload.Metadata
			if md.FilePath == "" || seen[md.FilePath] {
				continue
			}
			seen[md.FilePath] = true

			stat, err := os.Stat(md.FilePath)
			if err != nil {
				// indexed but gone from disk, skip it
				continue
			}
			files = append(files, store.FileSummary{
				FilePath:       md.FilePath,
				FileName:       md.FileName,
				FileID:         md.FileID,
				FileType:       md.FileType,
				FlowID:         md.FlowID,
				FileSize:       stat.Size(),
				IncludesImages: md.IncludesImages,
			})
		}

		if len(sr.NextPageOffset) == 0 || string(sr.NextPageOffset) == "null" {
			break
		}
		offset = sr.NextPageOffset
	}
	return files, nil
}

// pointIDString converts a raw scroll ID back to the string form we
// store. Numeric IDs fall back to their literal JSON text.
func pointIDString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// ForEachPoint streams every point in the scope's collection to fn in
// pages of at most batchSize. Vectors are not loaded.
func (c *Client) ForEachPoint(ctx context.Context, scope core.Scope, batchSize int, fn func([]store.Point) error) error {
	if batchSize <= 0 {
		batchSize = scrollLimit
	}

	var offset json.RawMessage
	for {
		sr, err := c.scroll(ctx, scope, scrollRequest{
			Limit:       batchSize,
			Offset:      offset,
			WithPayload: true,
		})
		if err != nil {
			return err
		}
		if len(sr.Points) > 0 {
			page := make([]store.Point, len(sr.Points))
			for i, p := range sr.Points {
				page[i] = store.Point{ID: pointIDString(p.ID), Payload: p.Payload}
			}
			if err := fn(page); err != nil {
				return err
			}
		}

		if len(sr.NextPageOffset) == 0 || string(sr.NextPageOffset) == "null" {
			return nil
		}
		offset = sr.NextPageOffset
	}
}
