package store

import "github.com/poiesic/flowdex/core"

// Metadata is attached to every stored vector and identifies the chunk's
// origin document. Field names are part of the wire contract: filters and
// the delete workflow address points by "metadata.file_path".
type Metadata struct {
	FilePath       string        `json:"file_path"`
	FileID         string        `json:"file_id"`
	FileName       string        `json:"filename"`
	FileType       core.FileType `json:"file_type"`
	FlowID         string        `json:"flow_id"`
	ChunkIdx       int           `json:"chunk_idx"`
	IncludesImages bool          `json:"includes_images"`
}

// Payload carries the chunk text plus its metadata.
type Payload struct {
	PageContent string   `json:"page_content"`
	Metadata    Metadata `json:"metadata"`
}

// Point is a single vector with its payload, ready for upsert.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// CollectionInfo summarizes a collection's configuration and size.
type CollectionInfo struct {
	Name        string
	VectorSize  int
	Distance    string
	PointsCount int64
}

// FileSummary describes one indexed document, aggregated from the
// metadata of its stored chunks.
type FileSummary struct {
	FilePath       string
	FileName       string
	FileID         string
	FileType       core.FileType
	FlowID         string
	FileSize       int64
	IncludesImages bool
}
